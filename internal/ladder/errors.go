package ladder

import "errors"

var (
	// ErrUnknownPlayer is returned when a player id has no row.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrUnknownOffice is returned when an office id has no row.
	ErrUnknownOffice = errors.New("unknown office")
	// ErrUnknownMatch is returned when a match id has no row.
	ErrUnknownMatch = errors.New("unknown match")
	// ErrInvalidName is returned when a player or office name fails validation.
	ErrInvalidName = errors.New("invalid name")
)
