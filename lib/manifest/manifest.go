// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/okid/lib/chunker"
	"github.com/bureau-foundation/okid/lib/codec"
	"github.com/bureau-foundation/okid/lib/okid"
)

// FormatVersion is the body schema version written by this package.
const FormatVersion = 1

// magic opens every encoded manifest.
var magic = [4]byte{'O', 'K', 'M', 'F'}

const headerSize = len(magic) + 1 + 4

// maxBodySize bounds the decoded body. At roughly 250 bytes per chunk
// this covers sources far beyond a terabyte at default chunk sizes.
const maxBodySize = 512 << 20

var (
	// ErrCorrupt reports an encoded manifest that cannot be read or
	// whose contents are inconsistent.
	ErrCorrupt = errors.New("corrupt manifest")

	// ErrMismatch reports a source that does not match its manifest.
	ErrMismatch = errors.New("source does not match manifest")
)

// Manifest is the ordered chunk listing of one source.
type Manifest struct {
	// Version is the body schema version, FormatVersion when built by
	// this package.
	Version int `json:"version"`

	// Source names where the listing came from, typically a file path.
	// It is informational and not covered by Root.
	Source string `json:"source,omitempty"`

	// Size is the total number of source bytes.
	Size uint64 `json:"size"`

	// Config holds the chunking parameters. Verification does not
	// re-chunk, but a listing is only comparable with another built
	// under the same parameters.
	Config chunker.Config `json:"config"`

	// Chunks lists every chunk in source order.
	Chunks []chunker.ChunkResult `json:"chunks"`

	// Root summarizes the listing; see ComputeRoot.
	Root okid.OkId `json:"root"`
}

// Build drains c and returns the manifest of everything it produced.
// The chunker is not closed. Cancellation and source errors abort the
// build.
func Build(ctx context.Context, c *chunker.Chunker, source string) (*Manifest, error) {
	manifest := &Manifest{
		Version: FormatVersion,
		Source:  source,
		Config:  c.Config(),
	}
	for result, err := range c.AllContext(ctx) {
		if err != nil {
			return nil, fmt.Errorf("building manifest for %s: %w", source, err)
		}
		manifest.Chunks = append(manifest.Chunks, result)
		manifest.Size += uint64(result.Length)
	}
	root, err := ComputeRoot(manifest.Chunks)
	if err != nil {
		return nil, err
	}
	manifest.Root = root
	return manifest, nil
}

// BuildFile chunks the file at path and returns its manifest.
func BuildFile(ctx context.Context, path string, config chunker.Config) (*Manifest, error) {
	c, err := chunker.Open(path, config)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return Build(ctx, c, path)
}

// ComputeRoot returns the BLAKE3 OkId of the concatenated canonical
// content-hash strings of chunks.
func ComputeRoot(chunks []chunker.ChunkResult) (okid.OkId, error) {
	hasher, err := okid.KindBLAKE3.NewHasher()
	if err != nil {
		return okid.OkId{}, err
	}
	for _, chunk := range chunks {
		io.WriteString(hasher, chunk.ContentHash.String())
	}
	return okid.FromHasher(okid.KindBLAKE3, hasher)
}

// Validate checks the listing's internal consistency: version,
// parameters, contiguous coverage of Size bytes, chunk sizes within
// bounds, and Root.
func (m *Manifest) Validate() error {
	if m.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d (want %d)", ErrCorrupt, m.Version, FormatVersion)
	}
	if err := m.Config.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var offset uint64
	for index, chunk := range m.Chunks {
		if chunk.Offset != offset {
			return fmt.Errorf("%w: chunk %d starts at %d, want %d", ErrCorrupt, index, chunk.Offset, offset)
		}
		if chunk.Length == 0 || int64(chunk.Length) > int64(m.Config.MaxSize) {
			return fmt.Errorf("%w: chunk %d length %d outside (0, %d]", ErrCorrupt, index, chunk.Length, m.Config.MaxSize)
		}
		if index < len(m.Chunks)-1 && int64(chunk.Length) < int64(m.Config.MinSize) {
			return fmt.Errorf("%w: chunk %d length %d below min_size %d", ErrCorrupt, index, chunk.Length, m.Config.MinSize)
		}
		if chunk.Fingerprint.Kind() != okid.KindFingerprint {
			return fmt.Errorf("%w: chunk %d fingerprint has kind %s", ErrCorrupt, index, chunk.Fingerprint.Kind())
		}
		if kind := chunk.ContentHash.Kind(); !kind.Derived() || kind == okid.KindFingerprint {
			return fmt.Errorf("%w: chunk %d content hash has kind %s", ErrCorrupt, index, kind)
		}
		offset = chunk.End()
	}
	if offset != m.Size {
		return fmt.Errorf("%w: chunks cover %d bytes, size is %d", ErrCorrupt, offset, m.Size)
	}

	root, err := ComputeRoot(m.Chunks)
	if err != nil {
		return err
	}
	if root != m.Root {
		return fmt.Errorf("%w: root is %s, chunks hash to %s", ErrCorrupt, m.Root, root)
	}
	return nil
}

// Encode writes the manifest with the requested body compression.
func (m *Manifest) Encode(w io.Writer, compression Compression) error {
	body, err := codec.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest body: %w", err)
	}
	if len(body) > maxBodySize {
		return fmt.Errorf("manifest body is %d bytes, limit is %d", len(body), maxBodySize)
	}
	payload, used, err := compress(body, compression)
	if err != nil {
		return err
	}

	var header [headerSize]byte
	copy(header[:], magic[:])
	header[len(magic)] = byte(used)
	binary.BigEndian.PutUint32(header[len(magic)+1:], uint32(len(body)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("writing manifest header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("writing manifest body: %w", err)
	}
	return nil
}

// WriteFile encodes the manifest to path, replacing any existing file.
func (m *Manifest) WriteFile(path string, compression Compression) error {
	var buffer bytes.Buffer
	if err := m.Encode(&buffer, compression); err != nil {
		return err
	}
	if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadBody reads an encoded manifest and returns its decompressed CBOR
// body and the compression the body was stored with, without decoding
// or validating it.
func ReadBody(r io.Reader) ([]byte, Compression, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, 0, fmt.Errorf("%w: reading header: %w", ErrCorrupt, err)
	}
	if !bytes.Equal(header[:len(magic)], magic[:]) {
		return nil, 0, fmt.Errorf("%w: bad magic %q", ErrCorrupt, header[:len(magic)])
	}
	compression := Compression(header[len(magic)])
	size := binary.BigEndian.Uint32(header[len(magic)+1:])
	if size > maxBodySize {
		return nil, 0, fmt.Errorf("%w: body length %d exceeds limit %d", ErrCorrupt, size, maxBodySize)
	}

	payload, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading body: %w", ErrCorrupt, err)
	}
	body, err := decompress(payload, compression, int(size))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return body, compression, nil
}

// Decode reads and validates an encoded manifest.
func Decode(r io.Reader) (*Manifest, error) {
	body, _, err := ReadBody(r)
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := codec.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %w", ErrCorrupt, err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// ReadFile decodes the manifest stored at path.
func ReadFile(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// MismatchError identifies the first chunk whose bytes in the source
// do not match the manifest.
type MismatchError struct {
	// Index is the position of the chunk in Chunks, or -1 when the
	// source has bytes beyond Size.
	Index int

	// Offset is where the mismatch begins in the source.
	Offset uint64

	// Want is the content hash recorded in the manifest; Got is what
	// the source hashed to. Got is zero when the source was too short.
	Want okid.OkId
	Got  okid.OkId
}

func (e *MismatchError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("%v: source continues past %d bytes", ErrMismatch, e.Offset)
	case e.Got.IsZero():
		return fmt.Sprintf("%v: chunk %d at offset %d is truncated", ErrMismatch, e.Index, e.Offset)
	default:
		return fmt.Sprintf("%v: chunk %d at offset %d hashes to %s, want %s", ErrMismatch, e.Index, e.Offset, e.Got, e.Want)
	}
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Verify re-hashes every chunk's byte range in source and returns a
// *MismatchError for the first chunk that differs. Source bytes beyond
// Size are also a mismatch. Read failures are returned as-is.
func (m *Manifest) Verify(ctx context.Context, source io.ReaderAt) error {
	for index, chunk := range m.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		kind := chunk.ContentHash.Kind()
		hasher, err := kind.NewHasher()
		if err != nil {
			return fmt.Errorf("chunk %d: %w", index, err)
		}
		section := io.NewSectionReader(source, int64(chunk.Offset), int64(chunk.Length))
		copied, err := io.Copy(hasher, section)
		if err != nil {
			return fmt.Errorf("reading chunk %d at offset %d: %w", index, chunk.Offset, err)
		}
		if copied != int64(chunk.Length) {
			return &MismatchError{Index: index, Offset: chunk.Offset, Want: chunk.ContentHash}
		}
		got, err := okid.FromHasher(kind, hasher)
		if err != nil {
			return err
		}
		if got != chunk.ContentHash {
			return &MismatchError{Index: index, Offset: chunk.Offset, Want: chunk.ContentHash, Got: got}
		}
	}

	var probe [1]byte
	count, err := source.ReadAt(probe[:], int64(m.Size))
	if count > 0 {
		return &MismatchError{Index: -1, Offset: m.Size}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("probing past end of source: %w", err)
	}
	return nil
}

// VerifyFile opens path and verifies it against the manifest.
func (m *Manifest) VerifyFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer file.Close()
	return m.Verify(ctx, file)
}
