// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package okid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength reports a digest whose byte length does not
	// match its kind.
	ErrInvalidLength = errors.New("invalid digest length")

	// ErrUnknownKind reports an unrecognized textual tag or numeric
	// kind byte.
	ErrUnknownKind = errors.New("unknown kind")

	// ErrMalformedEncoding reports a structurally broken string form:
	// missing separator, non-hex digits, missing carrier, bad
	// variation selectors.
	ErrMalformedEncoding = errors.New("malformed encoding")

	// ErrWrongKind is returned by accessors that only make sense for
	// one kind, such as FingerprintValue on a sha256 OkId.
	ErrWrongKind = errors.New("wrong kind")

	// ErrTimeOutOfRange reports a ULID timestamp that 48 bits of Unix
	// milliseconds cannot hold.
	ErrTimeOutOfRange = errors.New("time outside ULID range")

	// ErrNotFound reports that no path segment of a URL holds an OkId.
	ErrNotFound = errors.New("no OkId found")
)

// Display-safe decoding failures. Each wraps one of the general
// sentinels above so callers can match at either granularity.
var (
	ErrNoCarrier       = fmt.Errorf("%w: no carrier emoji", ErrMalformedEncoding)
	ErrInvalidSelector = fmt.Errorf("%w: carrier not followed by variation selectors", ErrMalformedEncoding)
	ErrLengthMismatch  = fmt.Errorf("%w: selector payload length does not match kind", ErrInvalidLength)
)

// Form names the encoding a ParseError came from.
type Form string

const (
	FormCanonical    Form = "canonical"
	FormPathSafe     Form = "path-safe"
	FormDisplaySafe  Form = "display-safe"
	FormInterchange  Form = "interchange"
	FormBubblebabble Form = "bubblebabble"
)

// ParseError describes why a string could not be decoded into an
// OkId.
type ParseError struct {
	// Form is the encoding being parsed.
	Form Form

	// Input is the rejected input.
	Input string

	// Position is where decoding failed: a byte offset into Input for
	// the canonical, path-safe and bubblebabble forms, a selector index
	// for the display-safe form. -1 when no single position is at
	// fault.
	Position int

	// Expected is the length the input should have had at the point
	// of failure: hex characters for textual digests, payload bytes
	// for display-safe. Zero when not applicable.
	Expected int

	// Err is the underlying cause and wraps one of the package
	// sentinels.
	Err error
}

func (e *ParseError) Error() string {
	message := fmt.Sprintf("parsing %s OkId %q: %v", e.Form, truncateForError(e.Input), e.Err)
	if e.Position >= 0 {
		message += fmt.Sprintf(" at position %d", e.Position)
	}
	if e.Expected > 0 {
		message += fmt.Sprintf(" (want %d)", e.Expected)
	}
	return message
}

func (e *ParseError) Unwrap() error { return e.Err }

// truncateForError keeps error messages bounded when a caller feeds a
// large blob to a parser.
func truncateForError(input string) string {
	const limit = 96
	if len(input) <= limit {
		return input
	}
	return input[:limit] + "..."
}
