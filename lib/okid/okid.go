// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package okid

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/okid/lib/rollinghash"
)

// OkId is an immutable (kind, digest) identifier. Digests shorter than
// 32 bytes occupy a prefix of the array; the rest is always zero, so ==
// compares identifiers structurally.
type OkId struct {
	kind   Kind
	digest [maxDigestLength]byte
}

// FromRaw wraps an existing digest. The length must match the kind
// exactly.
func FromRaw(kind Kind, digest []byte) (OkId, error) {
	if !kind.Valid() {
		return OkId{}, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(kind))
	}
	if want := kind.DigestLength(); len(digest) != want {
		return OkId{}, fmt.Errorf("%w: %s digest is %d bytes, want %d", ErrInvalidLength, kind, len(digest), want)
	}
	id := OkId{kind: kind}
	copy(id.digest[:], digest)
	return id, nil
}

// MustFromRaw is like FromRaw but panics on error. Use in tests and
// static initialization where the input is known-valid.
func MustFromRaw(kind Kind, digest []byte) OkId {
	id, err := FromRaw(kind, digest)
	if err != nil {
		panic(fmt.Sprintf("okid.MustFromRaw(%s): %v", kind, err))
	}
	return id
}

// FromSHA256 returns the sha256 OkId of data.
func FromSHA256(data []byte) OkId {
	sum := sha256.Sum256(data)
	return OkId{kind: KindSHA256, digest: sum}
}

// FromBLAKE3 returns the blake3 OkId of data.
func FromBLAKE3(data []byte) OkId {
	sum := blake3.Sum256(data)
	return OkId{kind: KindBLAKE3, digest: sum}
}

// Fingerprint returns the rolling-hash OkId of data: the window state
// after the last byte. Fingerprints are cheap and not collision
// resistant.
func Fingerprint(data []byte) OkId {
	return FromFingerprintValue(rollinghash.Sum64Of(data))
}

// FromFingerprintValue wraps a rolling hash state as a fingerprint
// OkId. The digest is the big-endian encoding of state.
func FromFingerprintValue(state uint64) OkId {
	id := OkId{kind: KindFingerprint}
	binary.BigEndian.PutUint64(id.digest[:rollinghash.Size], state)
	return id
}

// FromHasher finalizes a hasher obtained from Kind.NewHasher (or any
// hash.Hash producing the kind's digest length).
func FromHasher(kind Kind, hasher hash.Hash) (OkId, error) {
	return FromRaw(kind, hasher.Sum(nil))
}

// HashReader streams r through the hash for kind and returns the
// resulting OkId.
func HashReader(kind Kind, r io.Reader) (OkId, error) {
	hasher, err := kind.NewHasher()
	if err != nil {
		return OkId{}, err
	}
	if _, err := io.Copy(hasher, r); err != nil {
		return OkId{}, fmt.Errorf("hashing %s content: %w", kind, err)
	}
	return FromHasher(kind, hasher)
}

// Kind returns the derivation kind. The zero OkId reports Kind 0, which
// is not Valid.
func (id OkId) Kind() Kind { return id.kind }

// IsZero reports whether id is the zero value.
func (id OkId) IsZero() bool { return id.kind == 0 }

// HashType returns the canonical tag of the kind, e.g. "sha256".
func (id OkId) HashType() string { return id.kind.String() }

// Bytes returns a copy of the raw digest.
func (id OkId) Bytes() []byte {
	return bytes.Clone(id.digestBytes())
}

// Digest returns the digest as lowercase hex. Its length is always
// twice the kind's DigestLength.
func (id OkId) Digest() string {
	return hex.EncodeToString(id.digestBytes())
}

// Key returns the canonical form as bytes, suitable for use as a
// key-value store key.
func (id OkId) Key() []byte {
	return []byte(id.String())
}

// FingerprintValue returns the rolling hash state of a fingerprint
// OkId.
func (id OkId) FingerprintValue() (uint64, error) {
	if id.kind != KindFingerprint {
		return 0, fmt.Errorf("%w: %s OkId has no fingerprint value", ErrWrongKind, id.kind)
	}
	return binary.BigEndian.Uint64(id.digest[:rollinghash.Size]), nil
}

// Compare orders identifiers by kind tag, then digest bytes. It
// returns -1, 0 or +1.
func (id OkId) Compare(other OkId) int {
	if c := cmp.Compare(id.kind, other.kind); c != 0 {
		return c
	}
	return bytes.Compare(id.digestBytes(), other.digestBytes())
}

// Equal reports whether id and other are the same identifier.
func (id OkId) Equal(other OkId) bool { return id == other }

func (id OkId) digestBytes() []byte {
	return id.digest[:id.kind.DigestLength()]
}
