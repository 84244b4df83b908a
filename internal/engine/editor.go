package engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/blockedit/internal/dom"
	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/diff"
	"github.com/dshills/blockedit/internal/engine/mapping"
	"github.com/dshills/blockedit/internal/engine/markup"
	"github.com/dshills/blockedit/internal/engine/selection"
	"github.com/dshills/blockedit/internal/event"
	"github.com/dshills/blockedit/internal/logging"
	"github.com/dshills/blockedit/internal/render"
)

// Re-export commonly used types for convenience.
type (
	// Position is a (block index, UTF-16 offset) coordinate.
	Position = selection.Point

	// Selection is a snapshot of the selection state.
	Selection = selection.Selection
)

// Editor is the main facade for the block editor core.
// It combines the document, the selection and change notification into a
// unified, thread-safe API.
//
// Events raised by a mutation are queued while the editor is locked and
// published once the lock is released, so handlers may read the editor
// back.
type Editor struct {
	mu sync.RWMutex

	doc      *block.Document
	sel      *selection.Model
	emitter  *event.Emitter
	inner    *event.Emitter
	pending  []event.TopicProvider
	renderer *render.Renderer
	log      *logging.Logger

	readOnly   bool
	normalize  bool
	initBlocks []*block.Block
}

// New creates an Editor.
func New(opts ...Option) *Editor {
	e := &Editor{
		normalize: true,
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.emitter == nil {
		e.emitter = event.NewEmitter(event.WithSource("editor"))
	}
	if e.renderer == nil {
		e.renderer = render.New()
	}
	e.log = e.log.WithComponent("editor")

	e.inner = event.NewEmitter(event.WithSource("editor"))
	_, _ = e.inner.SubscribeFunc(event.WildcardMulti, e.queue, event.WithPriority(event.PriorityCritical))

	e.doc = block.NewDocument(block.WithEmitter(e.inner), block.WithBlocks(e.initBlocks...))
	e.initBlocks = nil
	e.sel = selection.New(e.doc,
		selection.WithEmitter(e.inner),
		selection.WithNormalize(e.normalize),
	)
	return e
}

// queue holds an event raised under the write lock until unlock.
func (e *Editor) queue(ev any) {
	if tp, ok := ev.(event.TopicProvider); ok {
		e.pending = append(e.pending, tp)
	}
}

func (e *Editor) lock() {
	e.mu.Lock()
}

// unlock releases the write lock, then publishes the queued events in the
// order they were raised.
func (e *Editor) unlock() {
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()
	for _, ev := range pending {
		e.emitter.Publish(ev)
	}
}

// Emitter returns the emitter document and selection events go to.
func (e *Editor) Emitter() *event.Emitter {
	return e.emitter
}

// Subscribe registers handler for events matching pattern.
func (e *Editor) Subscribe(pattern event.Topic, handler event.Handler, opts ...event.SubscriptionOption) (event.Subscription, error) {
	return e.emitter.Subscribe(pattern, handler, opts...)
}

// IsReadOnly reports whether mutations are refused.
func (e *Editor) IsReadOnly() bool {
	return e.readOnly
}

// Len returns the number of blocks.
func (e *Editor) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Len()
}

// Block returns a detached copy of block ix, or nil when out of range.
func (e *Editor) Block(ix int) *block.Block {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if b := e.doc.At(ix); b != nil {
		return b.Clone()
	}
	return nil
}

// Blocks returns detached copies of every block.
func (e *Editor) Blocks() []*block.Block {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*block.Block, 0, e.doc.Len())
	for _, b := range e.doc.Blocks() {
		out = append(out, b.Clone())
	}
	return out
}

// Document returns a detached copy of the document.
func (e *Editor) Document() *block.Document {
	return block.NewDocument(block.WithBlocks(e.Blocks()...))
}

// Text returns the text of every text block joined by newlines.
func (e *Editor) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Text()
}

func (e *Editor) block(ix int) (*block.Block, error) {
	b := e.doc.At(ix)
	if b == nil {
		return nil, fmt.Errorf("%w: %d of %d", ErrBlockNotFound, ix, e.doc.Len())
	}
	return b, nil
}

func (e *Editor) checkWritable() error {
	if e.readOnly {
		return ErrReadOnly
	}
	return nil
}

// ApplyText replaces the text of block ix. Markups and any selection
// inside the block shift with the edit.
func (e *Editor) ApplyText(ix int, text string) (diff.Result, error) {
	e.lock()
	defer e.unlock()
	return e.applyText(ix, text)
}

func (e *Editor) applyText(ix int, text string) (diff.Result, error) {
	if err := e.checkWritable(); err != nil {
		return diff.Result{}, err
	}
	b, err := e.block(ix)
	if err != nil {
		return diff.Result{}, err
	}
	d, err := b.SetText(text)
	if err != nil {
		e.log.WithField("block", ix).Debug("text change rejected: %v", err)
		return d, err
	}
	if d.IsNone() {
		return d, nil
	}
	e.log.WithFields(map[string]any{"block": ix, "diff": d.String()}).Debug("text changed")

	e.remapSelection(func(p Position) Position {
		if p.Block == ix {
			p.Offset = shiftOffset(p.Offset, d)
		}
		return p
	})
	return d, nil
}

// shiftOffset moves an offset across an edit. Offsets before the edit
// stay, offsets after it move by the length change, and offsets inside
// the replaced text land at the end of the new text.
func shiftOffset(x int, d diff.Result) int {
	switch {
	case x <= d.Start:
		return x
	case x >= d.OldEnd():
		return x + d.Delta()
	default:
		return d.NewEnd()
	}
}

// remapSelection rewrites both selection points with fn.
func (e *Editor) remapSelection(fn func(Position) Position) {
	if !e.sel.IsActive() {
		return
	}
	start, end := e.sel.Start(), e.sel.End()
	if e.normalize && e.sel.Backward() {
		// Hand the points back in drag order so the direction survives.
		e.sel.Set(fn(end), fn(start))
		return
	}
	e.sel.Set(fn(start), fn(end))
}

// SyncDOM reads block ix's text back from a rendered tree and applies it.
// Non-breaking spaces written by the renderer count as plain spaces.
func (e *Editor) SyncDOM(root *dom.Node, ix int) (diff.Result, error) {
	e.lock()
	defer e.unlock()
	el, err := mapping.BlockElement(root, ix)
	if err != nil {
		return diff.Result{}, err
	}
	text := strings.ReplaceAll(el.TextContent(), "\u00a0", " ")
	return e.applyText(ix, text)
}

// Selection returns the current selection.
func (e *Editor) Selection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sel.Snapshot()
}

// SelectionBlocks returns detached copies of the blocks the selection
// touches, in document order.
func (e *Editor) SelectionBlocks() []*block.Block {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*block.Block
	for _, b := range e.sel.Blocks() {
		out = append(out, b.Clone())
	}
	return out
}

// Select sets the selection. Coordinates are stored as given; they are not
// validated against the document.
func (e *Editor) Select(start, end Position) bool {
	e.lock()
	defer e.unlock()
	return e.sel.Set(start, end)
}

// ClearSelection removes the selection.
func (e *Editor) ClearSelection() bool {
	e.lock()
	defer e.unlock()
	return e.sel.Null()
}

// Collapse reduces the selection to a caret at its start or end.
func (e *Editor) Collapse(toStart bool) bool {
	e.lock()
	defer e.unlock()
	return e.sel.Collapse(toStart)
}

// SelectDOM sets the selection from a native anchor/focus pair on a
// rendered tree.
func (e *Editor) SelectDOM(root *dom.Node, anchor, focus dom.Point) error {
	start, end, err := mapping.SelectionFromDOM(root, anchor, focus)
	if err != nil {
		return err
	}
	e.lock()
	defer e.unlock()
	e.sel.Set(start, end)
	return nil
}

// RestoreDOMSelection maps the selection onto a rendered tree, returning
// the anchor and focus to hand to the surface. A backward selection stored
// without normalization yields a focus before its anchor.
func (e *Editor) RestoreDOMSelection(root *dom.Node) (anchor, focus dom.Point, err error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.sel.IsActive() {
		return dom.Point{}, dom.Point{}, ErrNoSelection
	}
	return mapping.SelectionToDOM(root, e.sel.Start(), e.sel.End())
}

// segment is the part of one block covered by the selection.
type segment struct {
	b          *block.Block
	start, end int
}

// segments splits the selection into per-block ranges of text blocks.
func (e *Editor) segments() []segment {
	lo, hi := e.sel.Snapshot().Ordered()
	var out []segment
	for ix := max(lo.Block, 0); ix <= hi.Block && ix < e.doc.Len(); ix++ {
		b := e.doc.At(ix)
		if !b.Kind().SupportsText() {
			continue
		}
		s, end := 0, b.Len()
		if ix == lo.Block {
			s = min(max(lo.Offset, 0), end)
		}
		if ix == hi.Block {
			end = min(max(hi.Offset, 0), end)
		}
		if s < end {
			out = append(out, segment{b: b, start: s, end: end})
		}
	}
	return out
}

// ToggleMarkup applies typ over the selected text, or removes it when every
// selected character already carries it. Blocks that refuse typ, such as
// headings for bold or italic, are left alone. It reports whether any block
// changed.
func (e *Editor) ToggleMarkup(typ markup.Type, href string) (bool, error) {
	e.lock()
	defer e.unlock()
	if err := e.checkWritable(); err != nil {
		return false, err
	}
	if e.sel.Kind() != selection.Range {
		return false, ErrNoSelection
	}

	var segs []segment
	for _, s := range e.segments() {
		if s.b.CanMarkup(typ) {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		e.log.WithField("type", typ.String()).Debug("markup rejected: no eligible block in selection")
		return false, nil
	}

	marked := true
	for _, s := range segs {
		if !s.b.IsRangeMarkedUpAs(typ, s.start, s.end) {
			marked = false
			break
		}
	}

	for _, s := range segs {
		if marked {
			s.b.RemoveMarkup(s.start, s.end, typ)
			continue
		}
		if _, err := s.b.AddMarkup(s.start, s.end, typ, href); err != nil {
			return false, err
		}
	}
	e.log.WithFields(map[string]any{"type": typ.String(), "removed": marked, "blocks": len(segs)}).Debug("markup toggled")
	return true, nil
}

// SetBlockType changes the kind of block ix. It reports whether the kind
// changed.
func (e *Editor) SetBlockType(ix int, k block.Kind, attrs block.Attrs) (bool, error) {
	e.lock()
	defer e.unlock()
	if err := e.checkWritable(); err != nil {
		return false, err
	}
	b, err := e.block(ix)
	if err != nil {
		return false, err
	}
	if !k.Valid() {
		return false, fmt.Errorf("%w: %d", block.ErrUnknownKind, k)
	}
	from := b.Kind()
	if !b.SetType(k, attrs) {
		return false, nil
	}
	e.log.WithFields(map[string]any{"block": ix, "from": from.String(), "to": k.String()}).Debug("block type changed")

	e.remapSelection(func(p Position) Position {
		if p.Block == ix {
			p.Offset = min(p.Offset, b.Len())
		}
		return p
	})
	return true, nil
}

// SetMetadata sets a metadata entry on media block ix.
func (e *Editor) SetMetadata(ix int, key, value string) error {
	e.lock()
	defer e.unlock()
	if err := e.checkWritable(); err != nil {
		return err
	}
	b, err := e.block(ix)
	if err != nil {
		return err
	}
	return b.SetMetadata(key, value)
}

// InsertBlock creates a block of kind k at index ix. Selection points at
// or after ix move down with their blocks.
func (e *Editor) InsertBlock(ix int, k block.Kind, attrs block.Attrs) (*block.Block, error) {
	e.lock()
	defer e.unlock()
	if err := e.checkWritable(); err != nil {
		return nil, err
	}
	b, err := e.doc.Create(ix, k, attrs)
	if err != nil {
		return nil, err
	}
	e.log.WithFields(map[string]any{"block": ix, "kind": k.String()}).Debug("block inserted")

	e.remapSelection(func(p Position) Position {
		if p.Block >= ix {
			p.Block++
		}
		return p
	})
	return b.Clone(), nil
}

// RemoveBlock deletes block ix. Selection points inside it move to the
// start of the block that takes its place, or the new last block.
func (e *Editor) RemoveBlock(ix int) error {
	e.lock()
	defer e.unlock()
	if err := e.checkWritable(); err != nil {
		return err
	}
	if _, err := e.doc.Remove(ix); err != nil {
		e.log.WithField("block", ix).Debug("remove rejected: %v", err)
		return err
	}
	e.log.WithField("block", ix).Debug("block removed")

	last := e.doc.Len() - 1
	e.remapSelection(func(p Position) Position {
		switch {
		case p.Block == ix:
			return Position{Block: min(ix, last)}
		case p.Block > ix:
			p.Block--
		}
		return p
	})
	return nil
}

// SplitBlock cuts block ix at offset and places the caret at the start of
// the new block.
func (e *Editor) SplitBlock(ix, offset int) (*block.Block, error) {
	e.lock()
	defer e.unlock()
	if err := e.checkWritable(); err != nil {
		return nil, err
	}
	tail, err := e.doc.Split(ix, offset)
	if err != nil {
		e.log.WithFields(map[string]any{"block": ix, "offset": offset}).Debug("split rejected: %v", err)
		return nil, err
	}
	e.log.WithFields(map[string]any{"block": ix, "offset": offset}).Debug("block split")

	e.sel.SetCaret(Position{Block: ix + 1})
	return tail.Clone(), nil
}

// MergeBlocks joins block ix+1 onto block ix and places the caret at the
// join.
func (e *Editor) MergeBlocks(ix int) error {
	e.lock()
	defer e.unlock()
	if err := e.checkWritable(); err != nil {
		return err
	}
	first := e.doc.At(ix)
	if first == nil {
		return fmt.Errorf("%w: %d of %d", ErrBlockNotFound, ix, e.doc.Len())
	}
	join := first.Len()
	if err := e.doc.Merge(ix); err != nil {
		e.log.WithField("block", ix).Debug("merge rejected: %v", err)
		return err
	}
	e.log.WithField("block", ix).Debug("blocks merged")

	e.sel.SetCaret(Position{Block: ix, Offset: join})
	return nil
}

// Render returns the document as HTML.
func (e *Editor) Render() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.renderer.Document(e.doc)
}

// Tree renders the document as a dom tree.
func (e *Editor) Tree() *dom.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.renderer.Tree(e.doc)
}

// InnerHTML renders the content of block ix.
func (e *Editor) InnerHTML(ix int) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, err := e.block(ix)
	if err != nil {
		return "", err
	}
	return e.renderer.InnerHTML(b), nil
}
