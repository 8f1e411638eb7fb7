// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash"
	"io"
	"iter"
	"os"

	"github.com/bureau-foundation/okid/lib/okid"
	"github.com/bureau-foundation/okid/lib/rollinghash"
)

// readBufferSize is the bufio buffer between the source and the
// boundary scan.
const readBufferSize = 64 * 1024

// ErrSource is wrapped by every [SourceError].
var ErrSource = errors.New("chunker source error")

// SourceError reports a read failure from the chunker's source. The
// chunk in progress at Offset is discarded and the chunker is
// terminal.
type SourceError struct {
	// Offset is the number of source bytes consumed before the
	// failing read.
	Offset uint64
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%v at offset %d: %v", ErrSource, e.Offset, e.Err)
}

// Unwrap exposes both ErrSource and the underlying read error to
// errors.Is.
func (e *SourceError) Unwrap() []error { return []error{ErrSource, e.Err} }

// Chunker produces [ChunkResult] values from a source, in order. Create
// one with [New], [NewFromBytes] or [Open], pull results with
// [Chunker.Next] or [Chunker.All], and release it with
// [Chunker.Close].
type Chunker struct {
	config Config
	mask   uint64

	reader *bufio.Reader
	closer io.Closer // non-nil when the chunker owns the source

	rolling rollinghash.Hash
	content hash.Hash

	// start is the offset of the chunk in progress; offset is the
	// number of bytes consumed so far.
	start  uint64
	offset uint64

	done bool
}

// New returns a chunker reading from source. The chunker reads source
// exclusively until it is closed but does not close it; that remains
// the caller's job.
func New(source io.Reader, config Config) (*Chunker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	content, err := config.contentKind().NewHasher()
	if err != nil {
		return nil, err
	}
	return &Chunker{
		config:  config,
		mask:    config.boundaryMask(),
		reader:  bufio.NewReaderSize(source, readBufferSize),
		content: content,
	}, nil
}

// NewFromBytes returns a chunker over an in-memory buffer. The buffer
// must not be modified during iteration.
func NewFromBytes(data []byte, config Config) (*Chunker, error) {
	return New(bytes.NewReader(data), config)
}

// Open returns a chunker over the file at path. The chunker owns the
// file and closes it on [Chunker.Close].
func Open(path string, config Config) (*Chunker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chunker source: %w", err)
	}
	chunker, err := New(file, config)
	if err != nil {
		file.Close()
		return nil, err
	}
	chunker.closer = file
	return chunker, nil
}

// Config returns the parameters the chunker was created with.
func (c *Chunker) Config() Config { return c.config }

// Offset returns the number of source bytes consumed so far.
func (c *Chunker) Offset() uint64 { return c.offset }

// Next returns the next chunk, or io.EOF once the source is exhausted.
// A read failure is returned as a *[SourceError]; every later call
// returns io.EOF.
func (c *Chunker) Next() (ChunkResult, error) {
	return c.NextContext(context.Background())
}

// NextContext is [Chunker.Next] with cancellation checked before every
// read from the source. Cancellation discards the chunk in progress
// and is terminal, like a source error.
func (c *Chunker) NextContext(ctx context.Context) (ChunkResult, error) {
	if c.done {
		return ChunkResult{}, io.EOF
	}

	for {
		if c.reader.Buffered() == 0 {
			if err := ctx.Err(); err != nil {
				c.finish()
				return ChunkResult{}, err
			}
			if _, err := c.reader.Peek(1); err != nil {
				return c.endOfSource(err)
			}
		}

		buffered, _ := c.reader.Peek(c.reader.Buffered())
		scanned, boundary := c.scan(buffered)
		c.content.Write(buffered[:scanned])
		c.reader.Discard(scanned)
		c.offset += uint64(scanned)

		if boundary {
			return c.emit()
		}
	}
}

// All returns an iterator over the remaining chunks. Iteration stops
// after the first error, which is yielded with a zero ChunkResult.
// io.EOF is not yielded.
func (c *Chunker) All() iter.Seq2[ChunkResult, error] {
	return c.AllContext(context.Background())
}

// AllContext is [Chunker.All] with cancellation.
func (c *Chunker) AllContext(ctx context.Context) iter.Seq2[ChunkResult, error] {
	return func(yield func(ChunkResult, error) bool) {
		for {
			result, err := c.NextContext(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(result, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the source, closing it when the chunker owns it, and
// discards any chunk in progress. Later calls to Next return io.EOF.
func (c *Chunker) Close() error {
	c.finish()
	if c.closer == nil {
		return nil
	}
	closer := c.closer
	c.closer = nil
	return closer.Close()
}

// scan feeds data into the window hash and reports how many bytes
// belong to the current chunk and whether they end it.
func (c *Chunker) scan(data []byte) (int, bool) {
	length := c.offset - c.start
	minSize := uint64(c.config.MinSize)
	maxSize := uint64(c.config.MaxSize)

	for index, in := range data {
		state := c.rolling.Update(in)
		length++
		if length >= maxSize || (length >= minSize && state&c.mask == c.mask) {
			return index + 1, true
		}
	}
	return len(data), false
}

// emit finalizes the chunk ending at the current offset and resets the
// per-chunk state.
func (c *Chunker) emit() (ChunkResult, error) {
	contentHash, err := okid.FromHasher(c.config.contentKind(), c.content)
	if err != nil {
		c.finish()
		return ChunkResult{}, fmt.Errorf("finalizing content hash: %w", err)
	}
	result := ChunkResult{
		Offset:      c.start,
		Length:      uint32(c.offset - c.start),
		Fingerprint: okid.FromFingerprintValue(c.rolling.Sum64()),
		ContentHash: contentHash,
	}

	c.start = c.offset
	c.rolling.Reset()
	c.content.Reset()
	return result, nil
}

// endOfSource handles a failed refill: a clean end flushes the final
// partial chunk, anything else is a SourceError.
func (c *Chunker) endOfSource(err error) (ChunkResult, error) {
	if !errors.Is(err, io.EOF) {
		offset := c.offset
		c.finish()
		return ChunkResult{}, &SourceError{Offset: offset, Err: err}
	}
	if c.offset == c.start {
		c.finish()
		return ChunkResult{}, io.EOF
	}
	result, emitErr := c.emit()
	c.done = true
	return result, emitErr
}

// finish makes the chunker terminal and drops per-chunk state.
func (c *Chunker) finish() {
	c.done = true
	c.rolling.Reset()
	c.content.Reset()
	c.start = c.offset
}
