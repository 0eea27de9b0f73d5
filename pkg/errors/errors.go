// Package errors holds the sentinel errors shared by the round repositories
// and the HTTP layer.
package errors

import "errors"

var (
	// ErrNotFound is returned when no statistics exist for a round.
	ErrNotFound = errors.New("round statistics not found")
	// ErrInvalidData is returned for negative rounds and undecodable records.
	ErrInvalidData = errors.New("invalid round statistics")
)
