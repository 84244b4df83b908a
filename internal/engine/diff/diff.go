// Package diff computes the minimal single-span edit between two versions of
// a block's text.
//
// The result records only where the edit happened and how many UTF-16 code
// units were removed and added. That is all markup offset adjustment needs;
// the changed characters themselves are never carried.
package diff

import (
	"fmt"

	"github.com/dshills/blockedit/internal/engine/text16"
)

// Kind classifies an edit.
type Kind uint8

const (
	// None indicates the texts are identical.
	None Kind = iota

	// Add indicates characters were inserted and none removed.
	Add

	// Remove indicates characters were removed and none inserted.
	Remove

	// Replace indicates characters were both removed and inserted.
	Replace
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// Result describes a single contiguous edit.
// Offsets are UTF-16 code units into the old text.
type Result struct {
	Kind    Kind
	Start   int
	Removed int
	Added   int
}

// Compute returns the edit that turns oldText into newText.
//
// A common prefix is grown from the front and a common suffix from the
// back; the suffix never reaches into the prefix, so repeated characters at
// the edit point are attributed to the prefix.
func Compute(oldText, newText string) Result {
	return ComputeUnits(text16.Units(oldText), text16.Units(newText))
}

// ComputeUnits is Compute over pre-encoded UTF-16 code units.
func ComputeUnits(a, b []uint16) Result {
	s := 0
	for s < len(a) && s < len(b) && a[s] == b[s] {
		s++
	}

	e := 0
	for len(a)-e > s && len(b)-e > s && a[len(a)-1-e] == b[len(b)-1-e] {
		e++
	}

	r := Result{
		Start:   s,
		Removed: len(a) - e - s,
		Added:   len(b) - e - s,
	}
	switch {
	case r.Removed == 0 && r.Added > 0:
		r.Kind = Add
	case r.Removed > 0 && r.Added == 0:
		r.Kind = Remove
	case r.Removed > 0 && r.Added > 0:
		r.Kind = Replace
	default:
		r = Result{Kind: None}
	}
	return r
}

// IsNone reports whether the edit changes nothing.
func (r Result) IsNone() bool {
	return r.Kind == None
}

// OldEnd returns the end of the removed span in the old text.
func (r Result) OldEnd() int {
	return r.Start + r.Removed
}

// NewEnd returns the end of the inserted span in the new text.
func (r Result) NewEnd() int {
	return r.Start + r.Added
}

// Delta returns the net change in length.
func (r Result) Delta() int {
	return r.Added - r.Removed
}

// Apply rebuilds the new text from oldText, taking the inserted characters
// from newText.
func (r Result) Apply(oldText, newText string) string {
	if r.IsNone() {
		return oldText
	}
	inserted := text16.Slice(newText, r.Start, r.NewEnd())
	return text16.Splice(oldText, r.Start, r.OldEnd(), inserted)
}

// String returns a human-readable representation of the edit.
func (r Result) String() string {
	return fmt.Sprintf("%s at %d (-%d +%d)", r.Kind, r.Start, r.Removed, r.Added)
}
