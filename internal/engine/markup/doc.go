// Package markup models inline formatting and link annotations over a block's
// text, and keeps a block's set of annotations in normal form.
//
// # Normal Form
//
// A Collection never holds two touching markups of the same type, with one
// exception: anchors with different hrefs may sit side by side. Adding a
// markup merges, splits or trims existing same-type markups as needed:
//
//	c := markup.NewCollection()
//	c.Add(markup.MustNew(markup.Strong, 2, 5, ""))
//	c.Add(markup.MustNew(markup.Strong, 4, 7, ""))
//	// c holds a single Strong markup over [2, 7)
//
// # Offset Adjustment
//
// When the owning block's text changes, ApplyDiff clips every markup to the
// surviving characters and shifts it by the edit's length delta, so each
// markup keeps covering the same logical text.
//
// Offsets are UTF-16 code units, half-open: [Start, End).
package markup
