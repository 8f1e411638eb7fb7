// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package okid

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// Separator divides the tag from the hex digest in the canonical
	// form.
	Separator = ':'

	// PathSafeSeparator divides the tag from the hex digest in the
	// path-safe form. It also replaces every character that is unsafe
	// in a path segment.
	PathSafeSeparator = '.'
)

// String returns the canonical form "<tag>:<hex>". The zero OkId
// renders as the empty string.
func (id OkId) String() string {
	if id.IsZero() {
		return ""
	}
	return id.kind.String() + string(Separator) + id.Digest()
}

// Parse decodes the canonical form.
func Parse(input string) (OkId, error) {
	return parseTagged(input, Separator, FormCanonical)
}

// MustParse is like Parse but panics on error. Use in tests and static
// initialization where the input is known-valid.
func MustParse(input string) OkId {
	id, err := Parse(input)
	if err != nil {
		panic(fmt.Sprintf("okid.MustParse(%q): %v", input, err))
	}
	return id
}

// PathSafe returns the path-safe form "<tag>.<hex>".
func (id OkId) PathSafe() string {
	return PathSafeFromCanonical(id.String())
}

// ParsePathSafe decodes the path-safe form.
func ParsePathSafe(input string) (OkId, error) {
	return parseTagged(input, PathSafeSeparator, FormPathSafe)
}

// PathSafeFromCanonical converts a canonical string to the path-safe
// form without parsing it, replacing every character that is unsafe in
// a POSIX or Windows path segment with PathSafeSeparator. The
// conversion is one-way: it can only be undone for strings whose tag
// contained no unsafe characters, which holds for every defined kind.
func PathSafeFromCanonical(canonical string) string {
	return strings.Map(func(r rune) rune {
		if pathUnsafe(r) {
			return PathSafeSeparator
		}
		return r
	}, canonical)
}

func pathUnsafe(r rune) bool {
	if r < 0x20 || r == 0x7f {
		return true
	}
	switch r {
	case ':', '/', '\\', '<', '>', '"', '|', '?', '*':
		return true
	}
	return false
}

// ParseAny accepts any of the string forms. Display-safe input is
// recognized by the presence of the carrier emoji and canonical input
// by its ':' separator. Input framed by 'x' with no '.' is decoded as
// Bubble Babble; anything else is tried as the path-safe form.
func ParseAny(input string) (OkId, error) {
	if strings.ContainsRune(input, Carrier) {
		return ParseDisplaySafe(input)
	}
	if strings.IndexByte(input, Separator) >= 0 {
		return Parse(input)
	}
	if looksBubblebabble(input) {
		return ParseBubblebabble(input)
	}
	return ParsePathSafe(input)
}

// parseTagged decodes "<tag><separator><hex>", splitting on the first
// separator.
func parseTagged(input string, separator byte, form Form) (OkId, error) {
	index := strings.IndexByte(input, separator)
	if index < 0 {
		return OkId{}, &ParseError{
			Form:     form,
			Input:    input,
			Position: len(input),
			Err:      fmt.Errorf("%w: missing %q separator", ErrMalformedEncoding, separator),
		}
	}

	kind, err := ParseKind(input[:index])
	if err != nil {
		return OkId{}, &ParseError{Form: form, Input: input, Position: 0, Err: err}
	}

	digest, position, err := decodeHexDigest(kind, input[index+1:])
	if err != nil {
		return OkId{}, &ParseError{
			Form:     form,
			Input:    input,
			Position: index + 1 + position,
			Expected: 2 * kind.DigestLength(),
			Err:      err,
		}
	}
	return digest, nil
}

// decodeHexDigest validates and decodes a lowercase hex digest for
// kind. On failure it returns the offset within digestHex at fault.
func decodeHexDigest(kind Kind, digestHex string) (OkId, int, error) {
	want := 2 * kind.DigestLength()
	if len(digestHex) != want {
		return OkId{}, min(len(digestHex), want), fmt.Errorf("%w: %s digest has %d hex characters, want %d",
			ErrMalformedEncoding, kind, len(digestHex), want)
	}
	for i := 0; i < len(digestHex); i++ {
		c := digestHex[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return OkId{}, i, fmt.Errorf("%w: %q is not a lowercase hex digit", ErrMalformedEncoding, c)
		}
	}

	id := OkId{kind: kind}
	if _, err := hex.Decode(id.digest[:], []byte(digestHex)); err != nil {
		return OkId{}, 0, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return id, 0, nil
}
