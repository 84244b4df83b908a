// Package dom describes rendered content as a tree of element and text
// nodes, the shape the browser exposes to selection events.
//
// It is a descriptor, not a live document: the editor core reads (node,
// offset) pairs from it and never relies on a browser to mutate it.
package dom

import (
	"strings"

	"github.com/dshills/blockedit/internal/engine/text16"
)

// NodeType distinguishes elements from text.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is an element or text node. Links mirror the DOM's.
type Node struct {
	Type NodeType

	// Tag is the lowercase element name; empty for text nodes.
	Tag string

	// Data is the character data of a text node.
	Data string

	// Attrs holds element attributes.
	Attrs map[string]string

	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node
}

// Point addresses a position inside a node. For text nodes Offset counts
// UTF-16 code units; for elements it is a child index.
type Point struct {
	Node   *Node
	Offset int
}

// Element creates an element node.
func Element(tag string, attrs map[string]string) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attrs: attrs}
}

// Text creates a text node.
func Text(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// AppendChild adds c as the last child of n and returns c.
func (n *Node) AppendChild(c *Node) *Node {
	c.Parent = n
	c.PrevSibling = n.LastChild
	c.NextSibling = nil
	if n.LastChild != nil {
		n.LastChild.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
	return c
}

// Append adds children in order and returns n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// Children returns the direct children.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Child returns the i-th child, or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Type == TextNode
}

// Is reports whether n is an element with one of the given tags.
func (n *Node) Is(tags ...string) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	for _, t := range tags {
		if n.Tag == t {
			return true
		}
	}
	return false
}

// Attr returns the attribute value for key.
func (n *Node) Attr(key string) string {
	return n.Attrs[key]
}

// Len returns the UTF-16 length of a text node, or the child count of an
// element: the largest valid Point offset.
func (n *Node) Len() int {
	if n.IsText() {
		return text16.Len(n.Data)
	}
	return len(n.Children())
}

// Walk visits n and its descendants in document order. Returning false
// from fn stops the walk; Walk reports whether it ran to completion.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// TextNodes returns the text nodes under n in document order.
func (n *Node) TextNodes() []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.IsText() {
			out = append(out, x)
		}
		return true
	})
	return out
}

// TextContent concatenates the text under n.
func (n *Node) TextContent() string {
	var sb strings.Builder
	for _, t := range n.TextNodes() {
		sb.WriteString(t.Data)
	}
	return sb.String()
}

// TextLen returns the UTF-16 length of TextContent.
func (n *Node) TextLen() int {
	total := 0
	for _, t := range n.TextNodes() {
		total += text16.Len(t.Data)
	}
	return total
}

// Contains reports whether d is n or one of its descendants.
func (n *Node) Contains(d *Node) bool {
	for ; d != nil; d = d.Parent {
		if d == n {
			return true
		}
	}
	return false
}
