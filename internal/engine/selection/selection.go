// Package selection tracks what the user has selected, in model space:
// a start and end position, each a block index plus a UTF-16 offset.
//
// The classification (null, caret, range, media) is derived from the
// coordinates and the document on every query, so it never goes stale after
// the document changes underneath.
package selection

import (
	"fmt"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/event"
)

// TopicChanged is published whenever the selection coordinates change.
const TopicChanged event.Topic = "selection.changed"

// Kind classifies a selection.
type Kind uint8

const (
	// Null means nothing is selected.
	Null Kind = iota

	// Caret is a collapsed selection.
	Caret

	// Range spans at least one character.
	Range

	// Media means the selection starts on a divider, image or video.
	Media
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Caret:
		return "caret"
	case Range:
		return "range"
	case Media:
		return "media"
	default:
		return "unknown"
	}
}

// Point is a position in model space.
type Point struct {
	Block  int
	Offset int
}

// Compare returns -1, 0 or 1 as p is before, equal to or after q in
// document order.
func (p Point) Compare(q Point) int {
	switch {
	case p.Block < q.Block:
		return -1
	case p.Block > q.Block:
		return 1
	case p.Offset < q.Offset:
		return -1
	case p.Offset > q.Offset:
		return 1
	default:
		return 0
	}
}

// String returns the point as "block:offset".
func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Block, p.Offset)
}

// Selection is an immutable snapshot of the model's state.
type Selection struct {
	Kind     Kind
	Start    Point
	End      Point
	Backward bool
}

// IsNull reports whether nothing is selected.
func (s Selection) IsNull() bool {
	return s.Kind == Null
}

// Ordered returns the two points in document order.
func (s Selection) Ordered() (Point, Point) {
	if s.End.Compare(s.Start) < 0 {
		return s.End, s.Start
	}
	return s.Start, s.End
}

// Changed is the payload of TopicChanged.
type Changed struct {
	Old Selection
	New Selection
}

// Document is the read-only view of the document the model needs.
type Document interface {
	At(i int) *block.Block
	Len() int
}
