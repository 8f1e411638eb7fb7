// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/bureau-foundation/okid/lib/okid"
)

// Default chunking parameters. Changing them moves every boundary, so
// chunk listings produced under different parameters never share
// chunks.
const (
	// DefaultChunkSize is the target average chunk size. The boundary
	// mask has log2(DefaultChunkSize) bits, so a boundary fires with
	// probability 1/DefaultChunkSize per byte once MinSize is reached.
	DefaultChunkSize = 64 * 1024 // 64 KiB

	// DefaultMinSize is the smallest chunk the hash may cut. Only the
	// final chunk of a source can be shorter.
	DefaultMinSize = 16 * 1024 // 16 KiB

	// DefaultMaxSize forces a boundary regardless of content, bounding
	// the worst case for repetitive input.
	DefaultMaxSize = 256 * 1024 // 256 KiB
)

// ErrInvalidConfig is wrapped by every [ConfigError].
var ErrInvalidConfig = errors.New("invalid chunker config")

// ConfigError reports which parameter of a [Config] is unacceptable.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s = %d: %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Config holds the chunking parameters.
type Config struct {
	// ChunkSize is the target average chunk size. Must be a power of
	// two within [MinSize, MaxSize].
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// MinSize is the smallest chunk a content boundary may produce.
	MinSize int `json:"min_size" yaml:"min_size"`

	// MaxSize is the size at which a boundary is forced.
	MaxSize int `json:"max_size" yaml:"max_size"`

	// ContentKind selects the content hash: okid.KindSHA256 or
	// okid.KindBLAKE3. Zero means BLAKE3.
	ContentKind okid.Kind `json:"content_kind,omitempty" yaml:"content_kind,omitempty"`
}

// DefaultConfig returns 64 KiB average chunks bounded to
// [16 KiB, 256 KiB], hashed with BLAKE3.
func DefaultConfig() Config {
	return Config{
		ChunkSize:   DefaultChunkSize,
		MinSize:     DefaultMinSize,
		MaxSize:     DefaultMaxSize,
		ContentKind: okid.KindBLAKE3,
	}
}

// Validate checks 0 < MinSize <= ChunkSize <= MaxSize, that ChunkSize
// is a power of two, that MaxSize fits a chunk length, and that
// ContentKind is a content hash.
func (c Config) Validate() error {
	switch {
	case c.MinSize <= 0:
		return &ConfigError{Field: "min_size", Value: c.MinSize, Reason: "must be positive"}
	case c.MaxSize < c.MinSize:
		return &ConfigError{Field: "max_size", Value: c.MaxSize, Reason: fmt.Sprintf("must be at least min_size (%d)", c.MinSize)}
	case uint64(c.MaxSize) > math.MaxUint32:
		return &ConfigError{Field: "max_size", Value: c.MaxSize, Reason: "must fit in 32 bits"}
	case c.ChunkSize <= 0 || bits.OnesCount64(uint64(c.ChunkSize)) != 1:
		return &ConfigError{Field: "chunk_size", Value: c.ChunkSize, Reason: "must be a power of two"}
	case c.ChunkSize < c.MinSize || c.ChunkSize > c.MaxSize:
		return &ConfigError{Field: "chunk_size", Value: c.ChunkSize,
			Reason: fmt.Sprintf("must be within [min_size, max_size] = [%d, %d]", c.MinSize, c.MaxSize)}
	}
	switch c.ContentKind {
	case 0, okid.KindSHA256, okid.KindBLAKE3:
		return nil
	default:
		return &ConfigError{Field: "content_kind", Value: int(c.ContentKind),
			Reason: fmt.Sprintf("%s is not a content hash (want sha256 or blake3)", c.ContentKind)}
	}
}

// contentKind resolves the zero value to BLAKE3.
func (c Config) contentKind() okid.Kind {
	if c.ContentKind == 0 {
		return okid.KindBLAKE3
	}
	return c.ContentKind
}

// boundaryMask selects the low log2(ChunkSize) bits of the window
// hash.
func (c Config) boundaryMask() uint64 {
	return uint64(c.ChunkSize) - 1
}
