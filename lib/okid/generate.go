// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package okid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/bureau-foundation/okid/lib/clock"
)

// NewUUID returns a fresh random (version 4) uuid OkId.
func NewUUID() OkId {
	return FromUUID(uuid.New())
}

// FromUUID wraps an existing UUID of any version.
func FromUUID(value uuid.UUID) OkId {
	id := OkId{kind: KindUUID}
	copy(id.digest[:], value[:])
	return id
}

// UUID returns the UUID carried by a uuid OkId.
func (id OkId) UUID() (uuid.UUID, error) {
	if id.kind != KindUUID {
		return uuid.Nil, fmt.Errorf("%w: %s OkId is not a UUID", ErrWrongKind, id.kind)
	}
	var value uuid.UUID
	copy(value[:], id.digest[:])
	return value, nil
}

// NewULID returns a fresh ulid OkId stamped with the current time.
// Identifiers minted within the same millisecond are not guaranteed to
// sort in creation order.
func NewULID() (OkId, error) {
	return NewULIDAt(clock.Real())
}

// NewULIDAt is NewULID with an injected time source. Times before the
// Unix epoch or past the 48-bit millisecond range fail with
// ErrTimeOutOfRange.
func NewULIDAt(source clock.Clock) (OkId, error) {
	now := source.Now()
	if now.Before(time.UnixMilli(0)) {
		return OkId{}, fmt.Errorf("%w: %s is before the Unix epoch", ErrTimeOutOfRange, now.UTC().Format(time.RFC3339))
	}
	value, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		if errors.Is(err, ulid.ErrBigTime) {
			return OkId{}, fmt.Errorf("%w: %s: %w", ErrTimeOutOfRange, now.UTC().Format(time.RFC3339), err)
		}
		return OkId{}, fmt.Errorf("generating ULID: %w", err)
	}
	return FromULID(value), nil
}

// FromULID wraps an existing ULID.
func FromULID(value ulid.ULID) OkId {
	id := OkId{kind: KindULID}
	copy(id.digest[:], value[:])
	return id
}

// ULID returns the ULID carried by a ulid OkId.
func (id OkId) ULID() (ulid.ULID, error) {
	if id.kind != KindULID {
		return ulid.ULID{}, fmt.Errorf("%w: %s OkId is not a ULID", ErrWrongKind, id.kind)
	}
	var value ulid.ULID
	copy(value[:], id.digest[:])
	return value, nil
}

// Time returns the creation timestamp embedded in a ulid OkId, at
// millisecond precision.
func (id OkId) Time() (time.Time, error) {
	value, err := id.ULID()
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(value.Time()), nil
}
