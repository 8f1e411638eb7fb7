// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package okid

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/okid/lib/codec"
)

// Record is the structured interchange form of an OkId.
type Record struct {
	HashType string `json:"hash_type"`
	Digest   string `json:"digest"`
}

// Record returns the interchange record for id.
func (id OkId) Record() Record {
	return Record{HashType: id.HashType(), Digest: id.Digest()}
}

// FromRecord validates an interchange record. Both fields are required;
// the digest must be lowercase hex of the kind's length.
func FromRecord(record Record) (OkId, error) {
	if record.HashType == "" {
		return OkId{}, &ParseError{Form: FormInterchange, Position: -1,
			Err: fmt.Errorf("%w: missing hash_type field", ErrMalformedEncoding)}
	}
	kind, err := ParseKind(record.HashType)
	if err != nil {
		return OkId{}, &ParseError{Form: FormInterchange, Input: record.HashType, Position: -1, Err: err}
	}
	id, position, err := decodeHexDigest(kind, record.Digest)
	if err != nil {
		return OkId{}, &ParseError{
			Form:     FormInterchange,
			Input:    record.Digest,
			Position: position,
			Expected: 2 * kind.DigestLength(),
			Err:      err,
		}
	}
	return id, nil
}

var jsonNull = []byte("null")

// MarshalJSON encodes id as {"hash_type": ..., "digest": ...}. The zero
// OkId encodes as null.
func (id OkId) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return jsonNull, nil
	}
	return json.Marshal(id.Record())
}

// recordFromFields builds a Record from a decoded map. Keys must match
// the field names exactly; anything else is rejected.
func recordFromFields(fields map[string]string) (Record, error) {
	var record Record
	for key, value := range fields {
		switch key {
		case "hash_type":
			record.HashType = value
		case "digest":
			record.Digest = value
		default:
			return Record{}, fmt.Errorf("%w: unknown field %q", ErrMalformedEncoding, key)
		}
	}
	return record, nil
}

// UnmarshalJSON decodes the interchange record. Field names are
// matched exactly and unknown fields are rejected; null decodes to the
// zero OkId.
func (id *OkId) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*id = OkId{}
		return nil
	}
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return &ParseError{Form: FormInterchange, Input: string(data), Position: -1,
			Err: fmt.Errorf("%w: %v", ErrMalformedEncoding, err)}
	}
	record, err := recordFromFields(fields)
	if err != nil {
		return &ParseError{Form: FormInterchange, Input: string(data), Position: -1, Err: err}
	}
	parsed, err := FromRecord(record)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// cborNull is the single-byte CBOR encoding of null.
var cborNull = []byte{0xf6}

// MarshalCBOR encodes the same record as MarshalJSON using the
// deterministic CBOR configuration from lib/codec.
func (id OkId) MarshalCBOR() ([]byte, error) {
	if id.IsZero() {
		return cborNull, nil
	}
	return codec.Marshal(id.Record())
}

// UnmarshalCBOR decodes a CBOR interchange record with the same field
// rules as UnmarshalJSON.
func (id *OkId) UnmarshalCBOR(data []byte) error {
	if bytes.Equal(data, cborNull) {
		*id = OkId{}
		return nil
	}
	var fields map[string]string
	if err := codec.Unmarshal(data, &fields); err != nil {
		return &ParseError{Form: FormInterchange, Position: -1,
			Err: fmt.Errorf("%w: %v", ErrMalformedEncoding, err)}
	}
	record, err := recordFromFields(fields)
	if err != nil {
		return &ParseError{Form: FormInterchange, Position: -1, Err: err}
	}
	parsed, err := FromRecord(record)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalText returns the canonical form. The zero OkId encodes as
// empty text.
func (id OkId) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses the canonical form. Empty text decodes to the
// zero OkId.
func (id *OkId) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*id = OkId{}
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
