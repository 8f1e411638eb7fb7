// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package okid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/okid/lib/bubblebabble"
)

// Bubblebabble returns the Bubble Babble encoding of the canonical form,
// for reading an identifier aloud. The zero OkId encodes as "".
func (id OkId) Bubblebabble() string {
	if id.IsZero() {
		return ""
	}
	return bubblebabble.Encode(id.Key())
}

// ParseBubblebabble decodes a string produced by Bubblebabble. Errors
// in the encoding itself report a byte offset into input; a decoded
// payload that is not a canonical OkId reports the canonical parser's
// cause with no position.
func ParseBubblebabble(input string) (OkId, error) {
	data, err := bubblebabble.Decode(input)
	if err != nil {
		position := -1
		var decodeError *bubblebabble.DecodeError
		if errors.As(err, &decodeError) {
			position = decodeError.Position
		}
		return OkId{}, &ParseError{
			Form:     FormBubblebabble,
			Input:    input,
			Position: position,
			Err:      fmt.Errorf("%w: %w", ErrMalformedEncoding, err),
		}
	}

	id, err := Parse(string(data))
	if err != nil {
		cause := err
		var parseError *ParseError
		if errors.As(err, &parseError) {
			cause = parseError.Err
		}
		return OkId{}, &ParseError{
			Form:     FormBubblebabble,
			Input:    input,
			Position: -1,
			Err:      fmt.Errorf("decoded %q: %w", data, cause),
		}
	}
	return id, nil
}

// looksBubblebabble reports whether input has the framing of a Bubble
// Babble string and none of the separators of the other forms.
func looksBubblebabble(input string) bool {
	return len(input) >= 5 &&
		input[0] == 'x' && input[len(input)-1] == 'x' &&
		strings.IndexByte(input, PathSafeSeparator) < 0
}
