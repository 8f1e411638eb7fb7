// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest records the chunk listing of one source: every
// [chunker.ChunkResult] in order, the parameters that produced them,
// and a root OkId summarizing the listing.
//
// A manifest is built by draining a chunker ([Build]), written as
// deterministic CBOR behind a small header ([Manifest.Encode]), read
// back with full structural validation ([Decode]), and checked
// against a copy of the source ([Manifest.Verify]).
//
// # Encoded form
//
// An encoded manifest is a 9-byte header followed by the body:
//
//	offset  size  field
//	0       4     magic "OKMF"
//	4       1     compression tag (0 none, 1 lz4, 2 zstd)
//	5       4     uncompressed body length, big-endian
//	9       ...   body, compressed per the tag
//
// The body is the CBOR encoding of [Manifest] under Core Deterministic
// Encoding, so the same listing always encodes to the same bytes for a
// given compression. Compression that would not shrink the body is
// skipped and the tag records none.
//
// # Root
//
// The root is the BLAKE3 OkId of the concatenated canonical strings of
// the chunks' content hashes. Two sources with the same chunk listing
// have the same root regardless of where the manifest was built.
package manifest
