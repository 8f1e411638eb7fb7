// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package okid

import (
	"fmt"
	"net/url"
	"strings"
)

// FromURL returns the first path segment of u that parses as an OkId
// in any string form. Segments are percent-decoded first, so
// "/blobs/sha256%3Ab94d..." and "/blobs/sha256.b94d..." both match.
// Segments that fail to decode or parse are skipped; if none match the
// error wraps ErrNotFound.
func FromURL(u *url.URL) (OkId, error) {
	if u == nil {
		return OkId{}, fmt.Errorf("%w: nil URL", ErrNotFound)
	}
	for _, segment := range strings.Split(u.EscapedPath(), "/") {
		if segment == "" {
			continue
		}
		decoded, err := url.PathUnescape(segment)
		if err != nil {
			continue
		}
		if id, err := ParseAny(decoded); err == nil {
			return id, nil
		}
	}
	return OkId{}, fmt.Errorf("%w in %s", ErrNotFound, u.Redacted())
}
