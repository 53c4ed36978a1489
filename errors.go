// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import "errors"

// Error kinds surfaced by the codec, the builder, the serializer, and the
// lookup engine. Callers distinguish them with errors.Is / errors.As; the
// serializer and lookup engine wrap them with fmt.Errorf("%w: ...") for
// context.
var (
	// ErrInvalidAddress is returned when a lookup key is neither a valid
	// IPv4/IPv6 address nor the literal sentinel "info".
	ErrInvalidAddress = errors.New("clouddb: invalid address")

	// ErrUnsupportedVersion is returned when a container's header version
	// field is not 2.
	ErrUnsupportedVersion = errors.New("clouddb: unsupported container version")

	// ErrMalformedValue is returned by the tagged-value codec when it sees
	// a leading byte whose low two tag bits are 00.
	ErrMalformedValue = errors.New("clouddb: malformed tagged value")

	// ErrTruncatedInput is returned when the underlying reader runs out of
	// bytes before a value or header field is fully read.
	ErrTruncatedInput = errors.New("clouddb: truncated input")

	// ErrOffsetOverflow is returned by the serializer when no field width
	// up to 4 bytes (the largest that fits the fixed 8-byte branch-page
	// reservation) can represent the container's largest pointer.
	ErrOffsetOverflow = errors.New("clouddb: offset overflow")

	// ErrLayoutCorruption indicates the serializer's precomputed page
	// offsets disagree with the position it is about to write to. This is
	// a programmer error in the builder or serializer, never a condition a
	// caller can recover from by retrying.
	ErrLayoutCorruption = errors.New("clouddb: layout corruption")

	// ErrDictTooLarge is returned when encoding a dict with 63 or more
	// key-value pairs; the tagged-value codec caps collection length at 62.
	ErrDictTooLarge = errors.New("clouddb: dict exceeds 62 entries")

	// ErrListTooLarge is returned when encoding a list with 63 or more
	// elements.
	ErrListTooLarge = errors.New("clouddb: list exceeds 62 entries")
)
