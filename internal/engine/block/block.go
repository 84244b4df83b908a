package block

import (
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/dshills/blockedit/internal/engine/diff"
	"github.com/dshills/blockedit/internal/engine/markup"
	"github.com/dshills/blockedit/internal/engine/text16"
	"github.com/dshills/blockedit/internal/event"
)

// Metadata keys used by media blocks.
const (
	MetaSrc     = "src"
	MetaCaption = "caption"
)

// Attrs carries the optional fields used when creating a block or changing
// its kind. Fields the kind does not support are ignored.
type Attrs struct {
	Text     string
	Layout   string
	Metadata map[string]string
}

// Block is one semantic unit of document content.
//
// Optional fields exist only for the kinds that support them: text and
// markups for text kinds, layout for quotes and media, metadata for images
// and videos. Accessors return zero values otherwise.
type Block struct {
	id       string
	kind     Kind
	text     string
	layout   string
	markups  *markup.Collection
	metadata map[string]string
	emitter  *event.Emitter
}

// New creates a block of kind k from attrs.
func New(k Kind, attrs Attrs) *Block {
	b := &Block{id: uuid.NewString(), kind: k}
	b.derive(attrs)
	return b
}

// NewText creates a text block holding text.
func NewText(k Kind, text string) *Block {
	return New(k, Attrs{Text: text})
}

// derive resets every optional field for the current kind.
func (b *Block) derive(attrs Attrs) {
	b.text, b.layout, b.markups, b.metadata = "", "", nil, nil
	if b.kind.SupportsText() {
		b.text = attrs.Text
		b.markups = markup.NewCollection()
	}
	if b.kind.SupportsLayout() {
		b.layout = attrs.Layout
	}
	if b.kind.SupportsMetadata() {
		b.metadata = make(map[string]string, len(attrs.Metadata))
		maps.Copy(b.metadata, attrs.Metadata)
	}
}

// ID returns the block's stable identifier.
func (b *Block) ID() string { return b.id }

// Kind returns the block's kind.
func (b *Block) Kind() Kind { return b.kind }

// Text returns the block's text, or "" for non-text kinds.
func (b *Block) Text() string { return b.text }

// Len returns the text length in UTF-16 code units.
func (b *Block) Len() int { return text16.Len(b.text) }

// Layout returns the layout tag, or "" when the kind has none.
func (b *Block) Layout() string { return b.layout }

// Markups returns the block's markup collection, or nil for non-text kinds.
func (b *Block) Markups() *markup.Collection { return b.markups }

// MarkupsAt returns the markups active at offset, for toolbar state at a
// caret. It is nil for non-text kinds.
func (b *Block) MarkupsAt(offset int) []*markup.Markup {
	if b.markups == nil {
		return nil
	}
	return b.markups.At(offset)
}

// Metadata returns the value stored under key.
func (b *Block) Metadata(key string) (string, bool) {
	v, ok := b.metadata[key]
	return v, ok
}

// MetadataMap returns a copy of the metadata, or nil for non-media kinds.
func (b *Block) MetadataMap() map[string]string {
	if b.metadata == nil {
		return nil
	}
	return maps.Clone(b.metadata)
}

// SetText replaces the text, shifting markups so they keep covering the
// same characters. The returned diff describes the edit.
func (b *Block) SetText(text string) (diff.Result, error) {
	if !b.kind.SupportsText() {
		return diff.Result{}, ErrNotText
	}
	d := diff.Compute(b.text, text)
	if d.IsNone() {
		return d, nil
	}
	b.text = text
	b.markups.ApplyDiff(d)
	event.Emit(b.emitter, TopicTextChanged, TextChanged{BlockID: b.id, Diff: d, Text: text})
	return d, nil
}

// CanMarkup reports whether typ may be applied to this block. Headings only
// accept links.
func (b *Block) CanMarkup(typ markup.Type) bool {
	if !b.kind.SupportsText() {
		return false
	}
	return !b.kind.IsHeading() || typ == markup.Anchor
}

// AddMarkup applies typ over [start, end). It reports false without error
// when the block does not accept typ. Invalid ranges fail.
func (b *Block) AddMarkup(start, end int, typ markup.Type, href string) (bool, error) {
	if !b.CanMarkup(typ) {
		return false, nil
	}
	m, err := markup.New(typ, start, end, href)
	if err != nil {
		return false, err
	}
	if m.End > b.Len() {
		return false, fmt.Errorf("%w: markup %v exceeds length %d", ErrOffsetOutOfRange, m, b.Len())
	}
	b.markups.Add(m)
	event.Emit(b.emitter, TopicMarkupChanged, MarkupChanged{BlockID: b.id})
	return true, nil
}

// RemoveMarkup strips typ from [start, end). It reports whether the block
// holds text at all.
func (b *Block) RemoveMarkup(start, end int, typ markup.Type) bool {
	if b.markups == nil {
		return false
	}
	b.markups.Remove(typ, start, end)
	event.Emit(b.emitter, TopicMarkupChanged, MarkupChanged{BlockID: b.id})
	return true
}

// IsRangeMarkedUpAs reports whether [start, end) is covered by typ.
func (b *Block) IsRangeMarkedUpAs(typ markup.Type, start, end int) bool {
	if b.markups == nil {
		return false
	}
	return b.markups.IsRangeMarkedUpAs(typ, start, end)
}

// SetType switches the block to kind k. Text survives when both kinds
// support it; markups, layout and metadata are derived afresh, the latter
// two from attrs. It reports false when k equals the current kind.
func (b *Block) SetType(k Kind, attrs Attrs) bool {
	if k == b.kind {
		return false
	}
	from := b.kind
	if from.SupportsText() && k.SupportsText() {
		attrs.Text = b.text
	} else {
		attrs.Text = ""
	}
	b.kind = k
	b.derive(attrs)
	event.Emit(b.emitter, TopicTypeChanged, TypeChanged{BlockID: b.id, From: from, To: k})
	return true
}

// SetLayout changes the layout tag of quotes and media blocks.
func (b *Block) SetLayout(layout string) bool {
	if !b.kind.SupportsLayout() || b.layout == layout {
		return false
	}
	b.layout = layout
	event.Emit(b.emitter, TopicLayoutChanged, LayoutChanged{BlockID: b.id, Layout: layout})
	return true
}

// SetMetadata stores value under key on a media block.
func (b *Block) SetMetadata(key, value string) error {
	if !b.kind.SupportsMetadata() {
		return ErrNoMetadata
	}
	b.metadata[key] = value
	event.Emit(b.emitter, TopicMetadataChanged, MetadataChanged{BlockID: b.id, Key: key, Value: value})
	return nil
}

// Clone returns a detached deep copy with the same ID.
func (b *Block) Clone() *Block {
	c := &Block{
		id:     b.id,
		kind:   b.kind,
		text:   b.text,
		layout: b.layout,
	}
	if b.markups != nil {
		c.markups = b.markups.Clone()
	}
	if b.metadata != nil {
		c.metadata = maps.Clone(b.metadata)
	}
	return c
}

// WithID overrides the generated identifier. Used when restoring a
// serialized document.
func (b *Block) WithID(id string) *Block {
	if id != "" {
		b.id = id
	}
	return b
}

// String returns a short description of the block.
func (b *Block) String() string {
	if b.kind.SupportsText() {
		return fmt.Sprintf("%s(%q)", b.kind, b.text)
	}
	return b.kind.String()
}
