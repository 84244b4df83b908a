package markup

import "errors"

// Errors returned when constructing markups.
var (
	// ErrEmptyRange indicates a markup spanning zero characters.
	ErrEmptyRange = errors.New("markup range is empty")

	// ErrNegativeOffset indicates a markup boundary below zero.
	ErrNegativeOffset = errors.New("markup offset is negative")

	// ErrUnknownType indicates an unrecognized markup type.
	ErrUnknownType = errors.New("unknown markup type")

	// ErrMissingHref indicates an anchor without a link target.
	ErrMissingHref = errors.New("anchor markup requires an href")
)
