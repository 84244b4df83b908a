package markup

import "fmt"

// Type identifies the kind of inline annotation.
type Type uint8

const (
	// Strong renders as bold text.
	Strong Type = iota + 1

	// Emphasis renders as italic text.
	Emphasis

	// Anchor is a hyperlink; it carries an href.
	Anchor
)

// String returns the lowercase name of the type.
func (t Type) String() string {
	switch t {
	case Strong:
		return "strong"
	case Emphasis:
		return "emphasis"
	case Anchor:
		return "anchor"
	default:
		return "unknown"
	}
}

// TagName returns the HTML element name used to render the type.
func (t Type) TagName() string {
	switch t {
	case Strong:
		return "strong"
	case Emphasis:
		return "em"
	case Anchor:
		return "a"
	default:
		return ""
	}
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	return t >= Strong && t <= Anchor
}

// ParseType maps a type name or HTML tag name to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "strong", "b", "bold":
		return Strong, nil
	case "em", "i", "emphasis", "italic":
		return Emphasis, nil
	case "a", "anchor", "link":
		return Anchor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Markup is an annotation over the half-open range [Start, End) of one
// block's text.
type Markup struct {
	Type  Type
	Start int
	End   int

	// Href is the link target; empty for every type but Anchor.
	Href string
}

// New creates a markup. Reversed boundaries are swapped before validation.
// Zero-width ranges, negative offsets and anchors without an href are
// rejected. Href is discarded for non-anchor types.
func New(typ Type, start, end int, href string) (*Markup, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, typ)
	}
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrNegativeOffset, start, end)
	}
	if start == end {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrEmptyRange, start, end)
	}
	if typ == Anchor {
		if href == "" {
			return nil, ErrMissingHref
		}
	} else {
		href = ""
	}
	return &Markup{Type: typ, Start: start, End: end, Href: href}, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(typ Type, start, end int, href string) *Markup {
	m, err := New(typ, start, end, href)
	if err != nil {
		panic(err)
	}
	return m
}

// Len returns the number of code units covered.
func (m *Markup) Len() int {
	return m.End - m.Start
}

// Touches reports whether the two ranges overlap or are adjacent.
func (m *Markup) Touches(other *Markup) bool {
	return m.Start <= other.End && m.End >= other.Start
}

// Overlaps reports whether the two ranges share at least one character.
func (m *Markup) Overlaps(other *Markup) bool {
	return m.Start < other.End && m.End > other.Start
}

// Covers reports whether m's range is a superset of other's.
func (m *Markup) Covers(other *Markup) bool {
	return m.Start <= other.Start && m.End >= other.End
}

// Contains reports whether offset falls inside [Start, End).
func (m *Markup) Contains(offset int) bool {
	return offset >= m.Start && offset < m.End
}

// SameTarget reports whether m and other would render as the same element:
// same type and, for anchors, same href.
func (m *Markup) SameTarget(other *Markup) bool {
	return m.Type == other.Type && m.Href == other.Href
}

// Clone returns a copy of the markup.
func (m *Markup) Clone() *Markup {
	c := *m
	return &c
}

// String returns a human-readable representation of the markup.
func (m *Markup) String() string {
	if m.Type == Anchor {
		return fmt.Sprintf("%s[%d,%d) href=%q", m.Type, m.Start, m.End, m.Href)
	}
	return fmt.Sprintf("%s[%d,%d)", m.Type, m.Start, m.End)
}
