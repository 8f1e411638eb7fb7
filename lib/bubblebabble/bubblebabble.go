// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bubblebabble

import (
	"errors"
	"fmt"
	"strings"
)

const (
	vowels     = "aeiouy"
	consonants = "bcdfghklmnprstvzx"

	// terminator is the consonant index of 'x', which only appears in
	// the final word of an even-length input.
	terminator = 16
)

// ErrMalformed is wrapped by every [DecodeError].
var ErrMalformed = errors.New("malformed bubblebabble")

// DecodeError reports where a bubblebabble string stopped decoding.
type DecodeError struct {
	// Position is the byte offset into the input.
	Position int

	// Reason describes what was wrong at Position.
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v at byte %d: %s", ErrMalformed, e.Position, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrMalformed }

// EncodedLen returns the length of the encoding of n bytes.
func EncodedLen(n int) int {
	return 6*(n/2) + 5
}

// Encode returns the bubblebabble encoding of data.
func Encode(data []byte) string {
	var builder strings.Builder
	builder.Grow(EncodedLen(len(data)))
	builder.WriteByte('x')

	seed := 1
	for index := 0; ; index += 2 {
		if index >= len(data) {
			builder.WriteByte(vowels[seed%6])
			builder.WriteByte(consonants[terminator])
			builder.WriteByte(vowels[seed/6])
			break
		}

		first := int(data[index])
		builder.WriteByte(vowels[((first>>6)&3+seed)%6])
		builder.WriteByte(consonants[(first>>2)&15])
		builder.WriteByte(vowels[((first&3)+seed/6)%6])
		if index+1 >= len(data) {
			break
		}

		second := int(data[index+1])
		builder.WriteByte(consonants[(second>>4)&15])
		builder.WriteByte('-')
		builder.WriteByte(consonants[second&15])
		seed = (seed*5 + first*7 + second) % 36
	}

	builder.WriteByte('x')
	return builder.String()
}

// Decode reverses Encode, verifying the checksum carried in every
// word.
func Decode(encoded string) ([]byte, error) {
	if len(encoded) < 5 || encoded[0] != 'x' {
		return nil, &DecodeError{Position: 0, Reason: "must start with 'x' and be at least 5 characters"}
	}
	if encoded[len(encoded)-1] != 'x' {
		return nil, &DecodeError{Position: len(encoded) - 1, Reason: "must end with 'x'"}
	}

	// Positions below are offsets into encoded; the body starts at 1.
	end := len(encoded) - 1
	output := make([]byte, 0, (len(encoded)/6)*2+1)
	seed := 1
	position := 1
	for {
		if position+3 > end {
			return nil, &DecodeError{Position: position, Reason: "truncated word"}
		}
		high, err := letterIndex(vowels, encoded, position)
		if err != nil {
			return nil, err
		}
		middle, err := letterIndex(consonants, encoded, position+1)
		if err != nil {
			return nil, err
		}
		low, err := letterIndex(vowels, encoded, position+2)
		if err != nil {
			return nil, err
		}

		if position+3 == end {
			if middle == terminator {
				if high != seed%6 || low != seed/6 {
					return nil, &DecodeError{Position: position, Reason: "checksum mismatch"}
				}
				return output, nil
			}
			first, err := decodeByte(high, middle, low, seed, position)
			if err != nil {
				return nil, err
			}
			return append(output, first), nil
		}

		if position+6 > end || encoded[position+4] != '-' {
			return nil, &DecodeError{Position: position + 3, Reason: "expected a five-letter word followed by '-'"}
		}
		first, err := decodeByte(high, middle, low, seed, position)
		if err != nil {
			return nil, err
		}
		upper, err := letterIndex(consonants, encoded, position+3)
		if err != nil {
			return nil, err
		}
		lower, err := letterIndex(consonants, encoded, position+5)
		if err != nil {
			return nil, err
		}
		if upper == terminator || lower == terminator {
			return nil, &DecodeError{Position: position + 3, Reason: "'x' inside a word"}
		}
		second := byte(upper<<4 | lower)

		output = append(output, first, second)
		seed = (seed*5 + int(first)*7 + int(second)) % 36
		position += 6
	}
}

// decodeByte recovers one byte from a vowel-consonant-vowel triple,
// rejecting triples the encoder cannot produce under seed.
func decodeByte(high, middle, low, seed, position int) (byte, error) {
	if middle == terminator {
		return 0, &DecodeError{Position: position + 1, Reason: "'x' inside a word"}
	}
	top := (high - seed%6 + 6) % 6
	bottom := (low - seed/6 + 6) % 6
	if top > 3 || bottom > 3 {
		return 0, &DecodeError{Position: position, Reason: "checksum mismatch"}
	}
	return byte(top<<6 | middle<<2 | bottom), nil
}

func letterIndex(alphabet, encoded string, position int) (int, error) {
	index := strings.IndexByte(alphabet, encoded[position])
	if index < 0 {
		kind := "vowel"
		if alphabet == consonants {
			kind = "consonant"
		}
		return 0, &DecodeError{Position: position, Reason: fmt.Sprintf("%q is not a %s", encoded[position], kind)}
	}
	return index, nil
}
