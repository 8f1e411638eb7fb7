// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rollinghash implements the 64-bit rolling fingerprint used by
// OkId fingerprint identifiers and by the content-defined chunker.
//
// The hash is a cyclic polynomial (buzhash) over a window of the most
// recent [WindowSize] bytes. While the window is filling, each byte is
// fed in with [Feed]:
//
//	h = rotl(h, 1) XOR table[in]
//
// Once the window is full, each new byte evicts the oldest one with
// [Roll]:
//
//	h = rotl(h, 1) XOR rotl(table[out], WindowSize) XOR table[in]
//
// The value after any byte depends only on the last WindowSize bytes
// seen, which is what makes chunk boundaries stable under localized
// edits. The fingerprint is not collision resistant and must never be
// used for integrity checks; use the SHA-256 or BLAKE3 kinds for that.
//
// The table is a protocol constant. Changing it changes every
// fingerprint and every chunk boundary ever produced.
package rollinghash
