// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package okid

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/okid/lib/rollinghash"
)

// Kind identifies how an OkId's digest was derived. The numeric values
// are protocol constants: they are the kind byte of the display-safe
// payload and define the ordering used by Compare.
type Kind uint8

const (
	KindSHA256      Kind = 1
	KindBLAKE3      Kind = 2
	KindFingerprint Kind = 3
	KindUUID        Kind = 4
	KindULID        Kind = 5
)

// maxDigestLength is the largest digest any kind produces.
const maxDigestLength = 32

// Kinds lists every valid kind in tag order.
var Kinds = []Kind{KindSHA256, KindBLAKE3, KindFingerprint, KindUUID, KindULID}

var kindTags = [...]string{
	KindSHA256:      "sha256",
	KindBLAKE3:      "blake3",
	KindFingerprint: "fingerprint",
	KindUUID:        "uuid",
	KindULID:        "ulid",
}

var kindDigestLengths = [...]int{
	KindSHA256:      sha256.Size,
	KindBLAKE3:      32,
	KindFingerprint: rollinghash.Size,
	KindUUID:        16,
	KindULID:        16,
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= KindSHA256 && k <= KindULID
}

// String returns the canonical lowercase tag ("sha256", "blake3",
// "fingerprint", "uuid", "ulid"), or "kind(N)" for an invalid kind.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindTags[k]
}

// DigestLength returns the digest length in bytes for k, or 0 for an
// invalid kind.
func (k Kind) DigestLength() int {
	if !k.Valid() {
		return 0
	}
	return kindDigestLengths[k]
}

// Derived reports whether digests of this kind are computed from
// content (as opposed to generated).
func (k Kind) Derived() bool {
	return k == KindSHA256 || k == KindBLAKE3 || k == KindFingerprint
}

// NewHasher returns a fresh streaming hash for a derived kind. Write
// the content, then pass the hasher to FromHasher.
func (k Kind) NewHasher() (hash.Hash, error) {
	switch k {
	case KindSHA256:
		return sha256.New(), nil
	case KindBLAKE3:
		return blake3.New(), nil
	case KindFingerprint:
		return rollinghash.New(), nil
	default:
		return nil, fmt.Errorf("%s identifiers are generated, not derived from content: %w", k, ErrWrongKind)
	}
}

// ParseKind maps a canonical tag back to its Kind.
func ParseKind(tag string) (Kind, error) {
	for _, kind := range Kinds {
		if kindTags[kind] == tag {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

// MarshalText implements encoding.TextMarshaler so a Kind can appear in
// configuration files and flags by tag.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(kindTags[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(data []byte) error {
	parsed, err := ParseKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
