package selection

import (
	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/event"
)

// Option configures a Model.
type Option func(*Model)

// WithEmitter publishes TopicChanged on em.
func WithEmitter(em *event.Emitter) Option {
	return func(m *Model) {
		m.emitter = em
	}
}

// WithNormalize controls whether backward selections are reordered so that
// start precedes end. Enabled by default. When disabled, coordinates are
// stored exactly as given.
func WithNormalize(enabled bool) Option {
	return func(m *Model) {
		m.normalize = enabled
	}
}

// Model holds the current selection. It keeps a read-only reference to the
// document for block lookups and never mutates it.
type Model struct {
	doc       Document
	emitter   *event.Emitter
	normalize bool

	active   bool
	start    Point
	end      Point
	backward bool
}

// New creates a model with nothing selected.
func New(doc Document, opts ...Option) *Model {
	m := &Model{doc: doc, normalize: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Set moves the selection to [start, end]. No event is published when the
// stored coordinates are unchanged; only the direction flag is updated. It
// reports whether the selection changed.
func (m *Model) Set(start, end Point) bool {
	backward := end.Compare(start) < 0
	if backward && m.normalize {
		start, end = end, start
	}
	if m.active && m.start == start && m.end == end {
		m.backward = backward
		return false
	}
	old := m.Snapshot()
	m.active, m.start, m.end, m.backward = true, start, end, backward
	m.publish(old)
	return true
}

// SetCaret collapses the selection at p.
func (m *Model) SetCaret(p Point) bool {
	return m.Set(p, p)
}

// Null clears the selection. It reports whether anything was selected.
func (m *Model) Null() bool {
	if !m.active {
		return false
	}
	old := m.Snapshot()
	m.active, m.start, m.end, m.backward = false, Point{}, Point{}, false
	m.publish(old)
	return true
}

// Collapse reduces the selection to a caret at its earlier or later
// point in document order.
func (m *Model) Collapse(toStart bool) bool {
	if !m.active {
		return false
	}
	lo, hi := m.start, m.end
	if hi.Compare(lo) < 0 {
		lo, hi = hi, lo
	}
	if toStart {
		return m.SetCaret(lo)
	}
	return m.SetCaret(hi)
}

func (m *Model) publish(old Selection) {
	event.Emit(m.emitter, TopicChanged, Changed{Old: old, New: m.Snapshot()})
}

// Kind classifies the current selection.
func (m *Model) Kind() Kind {
	if !m.active {
		return Null
	}
	b := m.StartBlock()
	switch {
	case b == nil:
		return Null
	case b.Kind().IsMedia():
		return Media
	case m.start == m.end:
		return Caret
	default:
		return Range
	}
}

// IsActive reports whether a selection has been set and not cleared. An
// active selection may still classify as Null when its block is gone.
func (m *Model) IsActive() bool { return m.active }

// IsNull reports whether nothing is selected.
func (m *Model) IsNull() bool {
	return m.Kind() == Null
}

// Start returns the start coordinates.
func (m *Model) Start() Point { return m.start }

// End returns the end coordinates.
func (m *Model) End() Point { return m.end }

// Backward reports whether the last Set was given end before start.
func (m *Model) Backward() bool { return m.backward }

// Snapshot returns the current state as a value.
func (m *Model) Snapshot() Selection {
	return Selection{Kind: m.Kind(), Start: m.start, End: m.end, Backward: m.backward}
}

// StartBlock returns the block the selection starts in, or nil when nothing
// is selected or the index no longer exists.
func (m *Model) StartBlock() *block.Block {
	if !m.active || m.doc == nil {
		return nil
	}
	return m.doc.At(m.start.Block)
}

// EndBlock returns the block the selection ends in, or nil.
func (m *Model) EndBlock() *block.Block {
	if !m.active || m.doc == nil {
		return nil
	}
	return m.doc.At(m.end.Block)
}

// Blocks returns every block between start and end, inclusive.
func (m *Model) Blocks() []*block.Block {
	if !m.active || m.doc == nil {
		return nil
	}
	lo, hi := m.start.Block, m.end.Block
	if lo > hi {
		lo, hi = hi, lo
	}
	var out []*block.Block
	for i := lo; i <= hi; i++ {
		if b := m.doc.At(i); b != nil {
			out = append(out, b)
		}
	}
	return out
}

// WithinOneBlock reports whether start and end share a block.
func (m *Model) WithinOneBlock() bool {
	return m.active && m.start.Block == m.end.Block
}

// SpansBlocks reports whether the selection ends in a later block than it
// starts.
func (m *Model) SpansBlocks() bool {
	return m.active && m.end.Block > m.start.Block
}

// EntireBlock reports whether exactly one block's whole text is selected.
func (m *Model) EntireBlock() bool {
	if !m.WithinOneBlock() {
		return false
	}
	b := m.StartBlock()
	if b == nil {
		return false
	}
	lo, hi := m.start.Offset, m.end.Offset
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo == 0 && hi == b.Len()
}
