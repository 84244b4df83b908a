package block

import "errors"

// Errors returned by block and document operations.
var (
	// ErrIndexOutOfRange indicates a block index outside the document.
	ErrIndexOutOfRange = errors.New("block index out of range")

	// ErrOffsetOutOfRange indicates a text offset outside the block's text.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrLastBlock indicates an attempt to remove the only remaining block.
	ErrLastBlock = errors.New("cannot remove the last block")

	// ErrNotText indicates a text operation on a block that holds no text.
	ErrNotText = errors.New("block does not support text")

	// ErrNoMetadata indicates a metadata operation on a non-media block.
	ErrNoMetadata = errors.New("block does not support metadata")

	// ErrUnknownKind indicates an unrecognized block kind.
	ErrUnknownKind = errors.New("unknown block kind")

	// ErrNilBlock indicates a nil block was passed to the document.
	ErrNilBlock = errors.New("block is nil")
)
