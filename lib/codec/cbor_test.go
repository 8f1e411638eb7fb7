// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

type sampleRecord struct {
	HashType string `json:"hash_type"`
	Digest   string `json:"digest"`
	Note     string `json:"note,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{HashType: "blake3", Digest: strings.Repeat("ab", 32)}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministicKeyOrder(t *testing.T) {
	// Map iteration order is random; the encoding must not be.
	value := map[string]any{"zeta": 1, "alpha": 2, "mid": 3, "beta": 4}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestUnmarshalRejectsDuplicateKeys(t *testing.T) {
	// {"digest": "a", "digest": "b"}
	data := []byte{
		0xa2,
		0x66, 'd', 'i', 'g', 'e', 's', 't', 0x61, 'a',
		0x66, 'd', 'i', 'g', 'e', 's', 't', 0x61, 'b',
	}
	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err == nil {
		t.Errorf("Unmarshal accepted duplicate keys, decoded %+v", decoded)
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var record sampleRecord
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &record); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(sampleRecord{HashType: "ulid", Digest: "ff"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"hash_type"`) || !strings.Contains(notation, `"ulid"`) {
		t.Errorf("Diagnose = %s, missing expected fields", notation)
	}
}
