// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import "github.com/bureau-foundation/okid/lib/okid"

// ChunkResult describes one emitted chunk. Results are values owned by
// the consumer; the chunker keeps no reference to them.
type ChunkResult struct {
	// Offset is the position in the source of the chunk's first byte.
	Offset uint64 `json:"offset"`

	// Length is the chunk's size in bytes.
	Length uint32 `json:"length"`

	// Fingerprint carries the 64-bit window hash at the boundary. It
	// is not collision resistant and must not be used for integrity.
	Fingerprint okid.OkId `json:"fingerprint"`

	// ContentHash is the configured content hash of the chunk's bytes.
	ContentHash okid.OkId `json:"content_hash"`
}

// End returns the offset one past the chunk's last byte, which is the
// Offset of the following chunk.
func (r ChunkResult) End() uint64 {
	return r.Offset + uint64(r.Length)
}
