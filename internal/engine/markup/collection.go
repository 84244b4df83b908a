package markup

import (
	"sort"

	"github.com/dshills/blockedit/internal/engine/diff"
)

// Collection is the set of markups belonging to a single block.
// Insertion order carries no meaning; queries go by type and range.
// A Collection is not safe for concurrent use.
type Collection struct {
	items []*Markup
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Len returns the number of markups.
func (c *Collection) Len() int {
	return len(c.items)
}

// All returns the markups ordered by start, then type, then href.
// The returned slice is a copy; the markups are not.
func (c *Collection) All() []*Markup {
	out := make([]*Markup, len(c.items))
	copy(out, c.items)
	sortByStart(out)
	return out
}

// OfType returns the markups of typ ordered by start.
func (c *Collection) OfType(typ Type) []*Markup {
	var out []*Markup
	for _, m := range c.items {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	sortByStart(out)
	return out
}

// At returns the markups containing offset.
func (c *Collection) At(offset int) []*Markup {
	var out []*Markup
	for _, m := range c.items {
		if m.Contains(offset) {
			out = append(out, m)
		}
	}
	sortByStart(out)
	return out
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	out := &Collection{items: make([]*Markup, len(c.items))}
	for i, m := range c.items {
		out.items[i] = m.Clone()
	}
	return out
}

// Clear removes every markup.
func (c *Collection) Clear() {
	c.items = nil
}

// Add inserts m, resolving conflicts with existing markups of the same type
// so the collection stays in normal form.
//
// Existing markups are visited in ascending start order. A touching markup
// that renders the same (same type, same href) absorbs m and the call ends.
// A touching anchor with a different href yields to m: it is dropped when
// m covers it, split around m when it covers m, and trimmed back to m's
// boundary otherwise. Every covered anchor is dropped, not only the first.
func (c *Collection) Add(m *Markup) {
	for _, ex := range c.OfType(m.Type) {
		if !m.Touches(ex) {
			continue
		}

		if ex.Type != Anchor || ex.Href == m.Href {
			c.remove(ex)
			ex.Start = min(ex.Start, m.Start)
			ex.End = max(ex.End, m.End)
			// The union may now reach neighbours m alone did not.
			c.Add(ex)
			return
		}

		switch {
		case m.Covers(ex):
			c.remove(ex)

		case ex.Covers(m):
			before := m.Start - ex.Start
			after := ex.End - m.End
			switch {
			case before > 0 && after > 0:
				tail := &Markup{Type: ex.Type, Start: m.End, End: ex.End, Href: ex.Href}
				ex.End = m.Start
				c.Add(tail)
			case before > 0:
				ex.End = m.Start
			default:
				ex.Start = m.End
			}
			c.items = append(c.items, m)
			return

		default:
			if ex.Start < m.Start {
				ex.End = min(ex.End, m.Start)
			} else {
				ex.Start = max(ex.Start, m.End)
			}
		}
	}
	c.items = append(c.items, m)
}

// Remove strips typ from the range [start, end). Markups reaching outside
// the range are trimmed or split; those inside it are dropped. Anchors are
// removed regardless of href.
func (c *Collection) Remove(typ Type, start, end int) {
	if start > end {
		start, end = end, start
	}
	if start == end {
		return
	}
	for _, ex := range c.OfType(typ) {
		if ex.End <= start || ex.Start >= end {
			continue
		}
		switch {
		case ex.Start >= start && ex.End <= end:
			c.remove(ex)
		case ex.Start < start && ex.End > end:
			tail := &Markup{Type: ex.Type, Start: end, End: ex.End, Href: ex.Href}
			ex.End = start
			c.items = append(c.items, tail)
		case ex.Start < start:
			ex.End = start
		default:
			ex.Start = end
		}
	}
}

// IsRangeMarkedUpAs reports whether [start, end) is entirely covered by
// markups of typ.
//
// Anchors may cover the range jointly: the query sweeps forward through
// consecutive links. Every other type needs a single markup covering the
// whole range. A collapsed range asks whether typ is active at start.
func (c *Collection) IsRangeMarkedUpAs(typ Type, start, end int) bool {
	if start > end {
		start, end = end, start
	}
	items := c.OfType(typ)
	if start == end || typ != Anchor {
		for _, m := range items {
			if m.Start <= start && m.End >= end {
				return true
			}
		}
		return false
	}

	cursor := start
	for _, m := range items {
		if m.Start <= cursor && m.End > cursor {
			cursor = m.End
		}
	}
	return cursor >= end
}

// ApplyDiff keeps markups anchored to the same characters after the owning
// block's text changed by d.
//
// Boundaries before the edit stay put. Boundaries inside the removed span
// are pulled to the edit point and then moved past the inserted text;
// boundaries after it shift by the net length change. A start at the edit
// point moves with the insertion, an end at the edit point does not.
// Markups left empty are dropped and the collection is re-normalized.
func (c *Collection) ApplyDiff(d diff.Result) {
	if d.IsNone() || len(c.items) == 0 {
		return
	}

	kept := c.items[:0]
	for _, m := range c.items {
		m.Start = shiftStart(m.Start, d)
		m.End = shiftEnd(m.End, d)
		if m.End > m.Start {
			kept = append(kept, m)
		}
	}
	c.items = kept
	c.normalize()
}

// Split divides the collection at offset. Markups before offset stay;
// markups after it move to the returned collection, rebased to zero.
// A markup spanning offset is divided between both.
func (c *Collection) Split(offset int) *Collection {
	tail := NewCollection()
	kept := c.items[:0]
	for _, m := range c.items {
		switch {
		case m.End <= offset:
			kept = append(kept, m)
		case m.Start >= offset:
			m.Start -= offset
			m.End -= offset
			tail.items = append(tail.items, m)
		default:
			right := &Markup{Type: m.Type, Start: 0, End: m.End - offset, Href: m.Href}
			m.End = offset
			kept = append(kept, m)
			tail.items = append(tail.items, right)
		}
	}
	c.items = kept
	return tail
}

// Append adds the markups of other shifted right by offset, skipping types
// for which accept returns false. A nil accept takes every type. Used when
// another block's text is concatenated onto this one. It returns the number
// of markups added.
func (c *Collection) Append(other *Collection, offset int, accept func(Type) bool) int {
	n := 0
	for _, m := range other.All() {
		if accept != nil && !accept(m.Type) {
			continue
		}
		cp := m.Clone()
		cp.Start += offset
		cp.End += offset
		c.Add(cp)
		n++
	}
	return n
}

// Clip drops or trims markups extending past length.
func (c *Collection) Clip(length int) {
	kept := c.items[:0]
	for _, m := range c.items {
		if m.End > length {
			m.End = length
		}
		if m.End > m.Start {
			kept = append(kept, m)
		}
	}
	c.items = kept
}

func (c *Collection) normalize() {
	items := c.items
	sortByStart(items)
	c.items = nil
	for _, m := range items {
		c.Add(m)
	}
}

func (c *Collection) remove(m *Markup) {
	for i, x := range c.items {
		if x == m {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func shiftStart(x int, d diff.Result) int {
	switch {
	case x < d.Start:
		return x
	case x >= d.OldEnd():
		return x + d.Delta()
	default:
		return d.NewEnd()
	}
}

func shiftEnd(x int, d diff.Result) int {
	switch {
	case x <= d.Start:
		return x
	case x >= d.OldEnd():
		return x + d.Delta()
	default:
		return d.NewEnd()
	}
}

func sortByStart(ms []*Markup) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Href < b.Href
	})
}
