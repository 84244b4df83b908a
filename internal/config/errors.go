package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrInvalidValue indicates a setting with a value of the wrong type or
	// outside its allowed set.
	ErrInvalidValue = errors.New("invalid value")
)
