package block

import "fmt"

// Kind is the semantic type of a block.
type Kind uint8

const (
	Paragraph Kind = iota
	Quote
	Heading1
	Heading2
	Heading3
	OrderedListItem
	UnorderedListItem
	Divider
	Image
	Video
)

var kindNames = [...]string{
	Paragraph:         "paragraph",
	Quote:             "quote",
	Heading1:          "heading1",
	Heading2:          "heading2",
	Heading3:          "heading3",
	OrderedListItem:   "ordered_list_item",
	UnorderedListItem: "unordered_list_item",
	Divider:           "divider",
	Image:             "image",
	Video:             "video",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a kind name back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// SupportsText reports whether blocks of this kind hold editable text and
// markups.
func (k Kind) SupportsText() bool {
	switch k {
	case Paragraph, Quote, Heading1, Heading2, Heading3, OrderedListItem, UnorderedListItem:
		return true
	default:
		return false
	}
}

// SupportsLayout reports whether blocks of this kind carry a layout tag.
func (k Kind) SupportsLayout() bool {
	switch k {
	case Quote, Image, Video:
		return true
	default:
		return false
	}
}

// SupportsMetadata reports whether blocks of this kind carry media metadata.
func (k Kind) SupportsMetadata() bool {
	switch k {
	case Image, Video:
		return true
	default:
		return false
	}
}

// IsHeading reports whether k is one of the heading levels.
func (k Kind) IsHeading() bool {
	switch k {
	case Heading1, Heading2, Heading3:
		return true
	default:
		return false
	}
}

// IsListItem reports whether k renders inside a list container.
func (k Kind) IsListItem() bool {
	return k == OrderedListItem || k == UnorderedListItem
}

// IsMedia reports whether k is a non-text block: divider, image or video.
func (k Kind) IsMedia() bool {
	return k.Valid() && !k.SupportsText()
}

// TagName returns the HTML element rendered for the kind.
func (k Kind) TagName() string {
	switch k {
	case Paragraph:
		return "p"
	case Quote:
		return "blockquote"
	case Heading1:
		return "h2"
	case Heading2:
		return "h3"
	case Heading3:
		return "h4"
	case OrderedListItem, UnorderedListItem:
		return "li"
	case Divider:
		return "hr"
	case Image, Video:
		return "figure"
	default:
		return ""
	}
}

// ListTagName returns the container element for list items, or "" for
// kinds rendered outside lists.
func (k Kind) ListTagName() string {
	switch k {
	case OrderedListItem:
		return "ol"
	case UnorderedListItem:
		return "ul"
	default:
		return ""
	}
}
