package markup

import "sort"

// Tag is an opening or closing boundary of a markup, positioned at an
// offset in the block's text.
type Tag struct {
	Offset int
	Close  bool
	Markup *Markup
}

// Name returns the HTML element name of the tag.
func (t Tag) Name() string {
	return t.Markup.Type.TagName()
}

// Tags returns the open and close boundaries of every markup in
// serialization order: by offset; at equal offsets all closes precede all
// opens. Among opens at one offset the markup ending last opens first so it
// can enclose the others; closes mirror that. Remaining ties fall back to
// tag name and href, so the order is deterministic.
func (c *Collection) Tags() []Tag {
	tags := make([]Tag, 0, 2*len(c.items))
	for _, m := range c.items {
		tags = append(tags, Tag{Offset: m.Start, Markup: m}, Tag{Offset: m.End, Close: true, Markup: m})
	}
	sort.SliceStable(tags, func(i, j int) bool {
		a, b := tags[i], tags[j]
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		if a.Close != b.Close {
			return a.Close
		}
		if a.Close {
			if a.Markup.Start != b.Markup.Start {
				return a.Markup.Start > b.Markup.Start
			}
			if a.Name() != b.Name() {
				return a.Name() > b.Name()
			}
			return a.Markup.Href > b.Markup.Href
		}
		if a.Markup.End != b.Markup.End {
			return a.Markup.End > b.Markup.End
		}
		if a.Name() != b.Name() {
			return a.Name() < b.Name()
		}
		return a.Markup.Href < b.Markup.Href
	})
	return tags
}
