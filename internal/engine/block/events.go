package block

import (
	"github.com/dshills/blockedit/internal/engine/diff"
	"github.com/dshills/blockedit/internal/event"
)

// Topics published by blocks and documents.
const (
	TopicTextChanged     event.Topic = "block.text.changed"
	TopicTypeChanged     event.Topic = "block.type.changed"
	TopicMarkupChanged   event.Topic = "block.markup.changed"
	TopicMetadataChanged event.Topic = "block.metadata.changed"
	TopicLayoutChanged   event.Topic = "block.layout.changed"
	TopicBlockInserted   event.Topic = "document.block.inserted"
	TopicBlockRemoved    event.Topic = "document.block.removed"
)

// TextChanged is published after SetText altered a block's text.
type TextChanged struct {
	BlockID string
	Diff    diff.Result
	Text    string
}

// TypeChanged is published when a block switches kind. Consumers usually
// rebuild the block's element, since its tag may differ.
type TypeChanged struct {
	BlockID string
	From    Kind
	To      Kind
}

// MarkupChanged is published after markups were added or removed.
type MarkupChanged struct {
	BlockID string
}

// MetadataChanged is published after a media block's metadata changed.
type MetadataChanged struct {
	BlockID string
	Key     string
	Value   string
}

// LayoutChanged is published after a block's layout tag changed.
type LayoutChanged struct {
	BlockID string
	Layout  string
}

// BlockInserted is published after a block entered the document.
type BlockInserted struct {
	BlockID string
	Index   int
}

// BlockRemoved is published after a block left the document.
type BlockRemoved struct {
	BlockID string
	Index   int
}
