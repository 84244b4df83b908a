package dom

import (
	"html"
	"slices"
	"strings"
)

// voidElements never have children or a closing tag.
var voidElements = map[string]bool{
	"br":  true,
	"hr":  true,
	"img": true,
}

// IsVoid reports whether tag is written without a closing tag.
func IsVoid(tag string) bool {
	return voidElements[tag]
}

// EscapeText escapes s for use as HTML text content. Non-breaking spaces
// are written as &nbsp; so they survive a round trip through an editor.
func EscapeText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\u00a0", "&nbsp;")
}

// HTML serializes n and its descendants.
func (n *Node) HTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.writeHTML(&sb)
	}
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(EscapeText(n.Data))
		return
	}
	sb.WriteString(OpenTag(n.Tag, n.Attrs))
	if IsVoid(n.Tag) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.writeHTML(sb)
	}
	sb.WriteString("</" + n.Tag + ">")
}

// OpenTag formats an opening tag with attributes in key order.
func OpenTag(tag string, attrs map[string]string) string {
	var sb strings.Builder
	sb.WriteString("<" + tag)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		sb.WriteString(" " + k + `="` + html.EscapeString(attrs[k]) + `"`)
	}
	sb.WriteString(">")
	return sb.String()
}
