package engine

import "errors"

// Errors returned by editor operations.
var (
	// ErrReadOnly indicates a mutation was attempted on a read-only editor.
	ErrReadOnly = errors.New("editor is read-only")

	// ErrNoSelection indicates an operation that needs a selection while
	// nothing is selected.
	ErrNoSelection = errors.New("nothing selected")

	// ErrBlockNotFound indicates a block index outside the document.
	ErrBlockNotFound = errors.New("block not found")
)
