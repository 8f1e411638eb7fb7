// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration shared by the
// OkId interchange record and the chunk manifest.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same manifest always encodes to identical bytes, so manifests can
// themselves be identified by a content hash.
//
// The decoder rejects duplicate map keys. An interchange record with
// two "digest" fields is ambiguous and must not silently pick one.
//
// Struct types use json tags. fxamacker/cbor reads json tags when cbor
// tags are absent, so one set of tags drives both the JSON and the CBOR
// rendition of the same record.
package codec
