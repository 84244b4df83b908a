package block

import (
	"fmt"
	"strings"

	"github.com/dshills/blockedit/internal/engine/text16"
	"github.com/dshills/blockedit/internal/event"
)

// Document is an ordered, never-empty sequence of blocks.
// A Document is not safe for concurrent use.
type Document struct {
	blocks  []*Block
	emitter *event.Emitter
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithEmitter routes block and document notifications to em.
func WithEmitter(em *event.Emitter) DocumentOption {
	return func(d *Document) {
		d.emitter = em
	}
}

// WithBlocks seeds the document. An empty list leaves the default single
// empty paragraph in place.
func WithBlocks(blocks ...*Block) DocumentOption {
	return func(d *Document) {
		var seeded []*Block
		for _, b := range blocks {
			if b != nil {
				seeded = append(seeded, b)
			}
		}
		if len(seeded) > 0 {
			d.blocks = seeded
		}
	}
}

// NewDocument creates a document. Without WithBlocks it holds one empty
// paragraph.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{blocks: []*Block{NewText(Paragraph, "")}}
	for _, opt := range opts {
		opt(d)
	}
	for _, b := range d.blocks {
		b.emitter = d.emitter
	}
	return d
}

// Emitter returns the emitter notifications are published on.
func (d *Document) Emitter() *event.Emitter {
	return d.emitter
}

// Len returns the number of blocks. It is never zero.
func (d *Document) Len() int {
	return len(d.blocks)
}

// At returns the block at index i, or nil when i is out of range.
func (d *Document) At(i int) *Block {
	if i < 0 || i >= len(d.blocks) {
		return nil
	}
	return d.blocks[i]
}

// Blocks returns the blocks in document order. The slice is a copy.
func (d *Document) Blocks() []*Block {
	out := make([]*Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

// Index returns the position of b, or -1.
func (d *Document) Index(b *Block) int {
	for i, x := range d.blocks {
		if x == b {
			return i
		}
	}
	return -1
}

// IndexOf returns the position of the block with the given ID, or -1.
func (d *Document) IndexOf(id string) int {
	for i, x := range d.blocks {
		if x.id == id {
			return i
		}
	}
	return -1
}

// Insert places b at index i, shifting later blocks. i may equal Len.
func (d *Document) Insert(i int, b *Block) error {
	if b == nil {
		return ErrNilBlock
	}
	if i < 0 || i > len(d.blocks) {
		return fmt.Errorf("%w: insert at %d of %d", ErrIndexOutOfRange, i, len(d.blocks))
	}
	d.blocks = append(d.blocks, nil)
	copy(d.blocks[i+1:], d.blocks[i:])
	d.blocks[i] = b
	b.emitter = d.emitter
	event.Emit(d.emitter, TopicBlockInserted, BlockInserted{BlockID: b.id, Index: i})
	return nil
}

// Append adds b at the end of the document.
func (d *Document) Append(b *Block) error {
	return d.Insert(len(d.blocks), b)
}

// Create builds a block of kind k and inserts it at index i.
func (d *Document) Create(i int, k Kind, attrs Attrs) (*Block, error) {
	b := New(k, attrs)
	if err := d.Insert(i, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Remove deletes the block at index i. The last remaining block cannot be
// removed.
func (d *Document) Remove(i int) (*Block, error) {
	if i < 0 || i >= len(d.blocks) {
		return nil, fmt.Errorf("%w: remove %d of %d", ErrIndexOutOfRange, i, len(d.blocks))
	}
	if len(d.blocks) == 1 {
		return nil, ErrLastBlock
	}
	b := d.blocks[i]
	d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
	event.Emit(d.emitter, TopicBlockRemoved, BlockRemoved{BlockID: b.id, Index: i})
	b.emitter = nil
	return b, nil
}

// Split cuts the text block at index i at offset. The text and markups
// after offset move to a new block inserted at i+1, which is returned.
// Headings continue as paragraphs; other kinds keep their kind.
func (d *Document) Split(i, offset int) (*Block, error) {
	b := d.At(i)
	if b == nil {
		return nil, fmt.Errorf("%w: split %d of %d", ErrIndexOutOfRange, i, len(d.blocks))
	}
	if !b.kind.SupportsText() {
		return nil, ErrNotText
	}
	if offset < 0 || offset > b.Len() {
		return nil, fmt.Errorf("%w: split at %d of %d", ErrOffsetOutOfRange, offset, b.Len())
	}

	kind := b.kind
	if kind.IsHeading() {
		kind = Paragraph
	}
	tail := New(kind, Attrs{Text: text16.Slice(b.text, offset, b.Len()), Layout: b.layout})
	tail.markups = b.markups.Split(offset)

	if _, err := b.SetText(text16.Slice(b.text, 0, offset)); err != nil {
		return nil, err
	}
	if err := d.Insert(i+1, tail); err != nil {
		return nil, err
	}
	return tail, nil
}

// Merge joins the block at i+1 onto the block at i: its text is appended
// and its markups shifted accordingly, then it is removed. Markups the block
// at i does not accept, such as bold merged into a heading, are dropped.
// Both blocks must hold text.
func (d *Document) Merge(i int) error {
	a, b := d.At(i), d.At(i+1)
	if a == nil || b == nil {
		return fmt.Errorf("%w: merge %d of %d", ErrIndexOutOfRange, i, len(d.blocks))
	}
	if !a.kind.SupportsText() || !b.kind.SupportsText() {
		return ErrNotText
	}

	offset := a.Len()
	if _, err := a.SetText(a.text + b.text); err != nil {
		return err
	}
	if a.markups.Append(b.markups, offset, a.CanMarkup) > 0 {
		event.Emit(d.emitter, TopicMarkupChanged, MarkupChanged{BlockID: a.id})
	}
	_, err := d.Remove(i + 1)
	return err
}

// Text returns the text of every text block joined by newlines.
func (d *Document) Text() string {
	var parts []string
	for _, b := range d.blocks {
		if b.kind.SupportsText() {
			parts = append(parts, b.text)
		}
	}
	return strings.Join(parts, "\n")
}
