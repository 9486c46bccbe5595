package rope

import "errors"

// ErrInvalidBoundary is returned when an operation would split a multi-byte
// UTF-8 character or otherwise land outside a valid character boundary.
var ErrInvalidBoundary = errors.New("rope: invalid utf-8 boundary")

// ErrOutOfRange is returned when a byte offset or line number falls outside
// the rope's current bounds.
var ErrOutOfRange = errors.New("rope: offset out of range")
