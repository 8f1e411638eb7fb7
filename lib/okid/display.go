// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package okid

import (
	"strings"
	"unicode/utf8"
)

// Carrier is the visible code point that display-safe strings hang
// their variation selectors on: U+1F511 KEY.
const Carrier = '\U0001F511'

const (
	// selectorLowBase..selectorLowBase+15 carry byte values 0-15
	// (VS1..VS16).
	selectorLowBase = 0xFE00
	// selectorHighBase..selectorHighBase+239 carry byte values 16-255
	// (VS17..VS256).
	selectorHighBase = 0xE0100
)

// DisplaySafe returns the carrier emoji followed by 1+DigestLength
// variation selectors encoding the kind byte and the digest. The zero
// OkId renders as the empty string.
func (id OkId) DisplaySafe() string {
	if id.IsZero() {
		return ""
	}
	digest := id.digestBytes()

	var builder strings.Builder
	// Carrier plus one 3- or 4-byte selector per payload byte.
	builder.Grow(utf8.UTFMax * (2 + len(digest)))
	builder.WriteRune(Carrier)
	builder.WriteRune(selectorForByte(byte(id.kind)))
	for _, b := range digest {
		builder.WriteRune(selectorForByte(b))
	}
	return builder.String()
}

// ParseDisplaySafe locates the first carrier in input and decodes the
// variation selectors that follow it, stopping at the first code point
// that is not a variation selector. Text before the carrier and after
// the selector run is ignored, so an identifier can be pasted out of a
// surrounding sentence.
//
// A missing carrier fails with ErrNoCarrier and a carrier without
// selectors with ErrInvalidSelector; both wrap ErrMalformedEncoding.
// A selector run of the wrong length for its kind fails with
// ErrLengthMismatch, which wraps ErrInvalidLength instead, so callers
// branching on the broad sentinels see it as a length error.
func ParseDisplaySafe(input string) (OkId, error) {
	carrierIndex := strings.IndexRune(input, Carrier)
	if carrierIndex < 0 {
		return OkId{}, &ParseError{Form: FormDisplaySafe, Input: input, Position: -1, Err: ErrNoCarrier}
	}

	var payload [1 + maxDigestLength]byte
	count := 0
	rest := input[carrierIndex+utf8.RuneLen(Carrier):]
	for len(rest) > 0 {
		r, size := utf8.DecodeRuneInString(rest)
		value, ok := byteForSelector(r)
		if !ok {
			break
		}
		// Runs longer than any valid payload are counted for the
		// error but not stored.
		if count < len(payload) {
			payload[count] = value
		}
		count++
		rest = rest[size:]
	}

	if count == 0 {
		return OkId{}, &ParseError{Form: FormDisplaySafe, Input: input, Position: 0, Err: ErrInvalidSelector}
	}

	kind := Kind(payload[0])
	if !kind.Valid() {
		return OkId{}, &ParseError{Form: FormDisplaySafe, Input: input, Position: 0, Err: ErrUnknownKind}
	}

	want := 1 + kind.DigestLength()
	if count != want {
		return OkId{}, &ParseError{
			Form:     FormDisplaySafe,
			Input:    input,
			Position: min(count, want),
			Expected: want,
			Err:      ErrLengthMismatch,
		}
	}

	id := OkId{kind: kind}
	copy(id.digest[:], payload[1:want])
	return id, nil
}

func selectorForByte(b byte) rune {
	if b < 16 {
		return selectorLowBase + rune(b)
	}
	return selectorHighBase + rune(b-16)
}

func byteForSelector(r rune) (byte, bool) {
	switch {
	case r >= selectorLowBase && r < selectorLowBase+16:
		return byte(r - selectorLowBase), true
	case r >= selectorHighBase && r < selectorHighBase+240:
		return byte(r-selectorHighBase) + 16, true
	default:
		return 0, false
	}
}
