// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package okid implements OkId: a compact, self-describing identifier
// for arbitrary binary blobs.
//
// An OkId is a (kind, digest) pair. The kind records how the digest was
// derived and fixes its length:
//
//	sha256       32 bytes  SHA-256 of the content
//	blake3       32 bytes  BLAKE3 (unkeyed, 256-bit output) of the content
//	fingerprint   8 bytes  64-bit rolling hash state (see lib/rollinghash)
//	uuid         16 bytes  random version-4 UUID
//	ulid         16 bytes  48-bit millisecond timestamp + 80 random bits
//
// OkId is a small comparable value: use == for equality and Compare for
// ordering. The zero value is not a valid identifier; check IsZero.
//
// # String Forms
//
// Canonical, for logs, APIs and configuration:
//
//	sha256:b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9
//
// Path-safe, usable as a single path segment on POSIX and Windows. The
// separator is '.', and any other character unsafe in a path segment
// is replaced with '.':
//
//	sha256.b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9
//
// Display-safe, a single visible key emoji (U+1F511) followed by one
// Unicode variation selector per payload byte. The payload is the
// numeric kind byte followed by the digest. Byte values 0-15 map to
// U+FE00..U+FE0F and 16-255 to U+E0100..U+E01EF. Renderers that keep
// variation selectors attached to the emoji carry the whole identifier
// invisibly; this is a display convenience and not a security boundary.
//
// Bubble Babble, for reading an identifier aloud: the canonical form
// run through lib/bubblebabble. [ParseAny] accepts it alongside the
// three forms above, and [FromURL] finds any of them in a URL path.
//
// All digests are printed as lowercase hex. Parsers reject uppercase
// hex, wrong lengths and unknown tags with errors that wrap
// [ErrMalformedEncoding], [ErrInvalidLength] or [ErrUnknownKind].
//
// # Interchange
//
// In JSON and CBOR an OkId is the record
//
//	{"hash_type": "sha256", "digest": "b94d27b9..."}
//
// Text-based encoders that only understand encoding.TextMarshaler
// (YAML, JSON map keys) get the canonical string.
package okid
