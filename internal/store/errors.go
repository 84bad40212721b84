package store

import "errors"

// Sentinel errors surfaced to the API layer for status mapping.
var (
	// ErrConflict means a compare-and-swap status update found the row
	// in a different state than expected.
	ErrConflict = errors.New("state changed concurrently")

	// ErrInsufficientPoints means a points transfer would overdraw the
	// requester's balance.
	ErrInsufficientPoints = errors.New("insufficient points balance")
)
