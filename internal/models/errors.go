package models

import "errors"

// Error taxonomy shared by the stores and the HTTP layer. Lower layers wrap
// these with fmt.Errorf("...: %w", err); handlers map them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyVoted = errors.New("already voted")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalid      = errors.New("invalid input")
)
