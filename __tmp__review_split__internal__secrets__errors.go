package secrets

import "errors"

var (
	// ErrUnknownType is returned when a descriptor requests a generation scheme the resolver does not implement.
	ErrUnknownType = errors.New("unknown secret type")
	// ErrInvalidByteLength is returned when a descriptor's byte length is zero or negative.
	ErrInvalidByteLength = errors.New("secret byte length must be a positive integer")
)


