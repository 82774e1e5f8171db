package domain

import "errors"

// Domain errors. Callers wrap them with context and match with errors.Is.
var (
	// ErrInvalidInput is returned when a SimulationInput breaks a domain rule
	// (non-positive horizon, negative amounts). No engine runs in that case.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a scenario id is not present in the catalog.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when custom scenario parameters or a
	// simulation configuration are malformed.
	ErrValidation = errors.New("validation failed")
)
