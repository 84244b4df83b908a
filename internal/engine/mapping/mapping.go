// Package mapping translates positions between model space (block index,
// UTF-16 offset) and node space (rendered node, offset).
//
// The rendered surface is expected to look like this:
//
//	root
//	├── section            layout container
//	│   ├── p | h2 | ...   block
//	│   └── ol | ul        list container, transparent
//	│       └── li         block
//	└── section
//	    └── figure         block
//
// Every direct child of the root is a layout container. Lists count as
// containers, never as blocks: each li is one block.
package mapping

import (
	"errors"
	"fmt"

	"github.com/dshills/blockedit/internal/dom"
	"github.com/dshills/blockedit/internal/engine/selection"
)

// Errors returned by the conversions.
var (
	// ErrNodeNotInBlock indicates a node outside every block of the surface.
	ErrNodeNotInBlock = errors.New("node is not inside a block")

	// ErrBlockNotFound indicates a block index with no rendered element.
	ErrBlockNotFound = errors.New("block not found")
)

// Position is a model-space coordinate.
type Position = selection.Point

func isList(n *dom.Node) bool {
	return n.Is("ol", "ul")
}

// Blocks returns the block elements under root in document order.
func Blocks(root *dom.Node) []*dom.Node {
	var out []*dom.Node
	for layout := root.FirstChild; layout != nil; layout = layout.NextSibling {
		out = appendBlocks(out, layout)
	}
	return out
}

func appendBlocks(out []*dom.Node, container *dom.Node) []*dom.Node {
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.IsText():
			// Stray whitespace between blocks is not a block.
		case isList(c):
			for li := c.FirstChild; li != nil; li = li.NextSibling {
				if !li.IsText() {
					out = append(out, li)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// BlockElement returns the element rendering block ix.
func BlockElement(root *dom.Node, ix int) (*dom.Node, error) {
	blocks := Blocks(root)
	if ix < 0 || ix >= len(blocks) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrBlockNotFound, ix, len(blocks))
	}
	return blocks[ix], nil
}

// ModelToDOM converts a model position into a node position.
//
// The block's text nodes are walked in order, subtracting each node's
// length from the offset until it fits. An offset at a node boundary maps
// to the end of the earlier node. When no text node can hold the offset,
// as in an empty block rendered as <br>, the block's first child is
// returned with offset 0.
func ModelToDOM(root *dom.Node, p Position) (dom.Point, error) {
	el, err := BlockElement(root, p.Block)
	if err != nil {
		return dom.Point{}, err
	}

	offset := p.Offset
	if offset >= 0 {
		for _, t := range el.TextNodes() {
			n := t.Len()
			if offset <= n {
				return dom.Point{Node: t, Offset: offset}, nil
			}
			offset -= n
		}
	}

	if el.FirstChild != nil {
		return dom.Point{Node: el.FirstChild, Offset: 0}, nil
	}
	return dom.Point{Node: el, Offset: 0}, nil
}

// DOMToModel converts a node position into a model position.
//
// The containing block is found by walking up from the node until the
// parent is a layout or list container. Its index counts blocks across all
// layout containers; the offset is the length of the block's text before
// the point. Points placed directly on a container resolve to the start of
// the block at that child index, or the end of the container's last block.
func DOMToModel(root *dom.Node, pt dom.Point) (Position, error) {
	if pt.Node == nil || !root.Contains(pt.Node) {
		return Position{}, ErrNodeNotInBlock
	}

	if pt.Node == root || pt.Node.Parent == root || isList(pt.Node) {
		return containerPoint(root, pt)
	}

	el := blockOf(root, pt.Node)
	if el == nil {
		return Position{}, ErrNodeNotInBlock
	}
	ix := indexOf(root, el)
	if ix < 0 {
		return Position{}, ErrNodeNotInBlock
	}
	return Position{Block: ix, Offset: textBefore(el, pt)}, nil
}

// blockOf returns the block element containing n.
func blockOf(root, n *dom.Node) *dom.Node {
	for ; n != nil && n != root; n = n.Parent {
		parent := n.Parent
		if parent == nil {
			return nil
		}
		if parent.Parent == root && !isList(n) {
			return n
		}
		if isList(parent) && parent.Parent != nil && parent.Parent.Parent == root {
			return n
		}
	}
	return nil
}

func indexOf(root, el *dom.Node) int {
	for i, b := range Blocks(root) {
		if b == el {
			return i
		}
	}
	return -1
}

// textBefore returns the UTF-16 length of el's text preceding pt.
func textBefore(el *dom.Node, pt dom.Point) int {
	total := 0
	el.Walk(func(n *dom.Node) bool {
		if n == pt.Node {
			return false
		}
		if n.IsText() {
			total += n.Len()
		}
		return true
	})

	if pt.Node.IsText() {
		return total + min(max(pt.Offset, 0), pt.Node.Len())
	}
	for i, c := range pt.Node.Children() {
		if i >= pt.Offset {
			break
		}
		total += c.TextLen()
	}
	return total
}

func containerPoint(root *dom.Node, pt dom.Point) (Position, error) {
	var within []*dom.Node
	if pt.Node == root {
		within = Blocks(root)
	} else if isList(pt.Node) {
		for li := pt.Node.FirstChild; li != nil; li = li.NextSibling {
			if !li.IsText() {
				within = append(within, li)
			}
		}
	} else {
		within = appendBlocks(nil, pt.Node)
	}
	if len(within) == 0 {
		return Position{}, ErrNodeNotInBlock
	}

	if child := pt.Node.Child(pt.Offset); child != nil {
		for _, b := range within {
			if child.Contains(b) {
				return Position{Block: indexOf(root, b), Offset: 0}, nil
			}
		}
	}
	last := within[len(within)-1]
	return Position{Block: indexOf(root, last), Offset: last.TextLen()}, nil
}

// SelectionFromDOM converts a native anchor/focus pair into model
// positions, in the order given.
func SelectionFromDOM(root *dom.Node, anchor, focus dom.Point) (Position, Position, error) {
	start, err := DOMToModel(root, anchor)
	if err != nil {
		return Position{}, Position{}, fmt.Errorf("anchor: %w", err)
	}
	end, err := DOMToModel(root, focus)
	if err != nil {
		return Position{}, Position{}, fmt.Errorf("focus: %w", err)
	}
	return start, end, nil
}

// SelectionToDOM converts model positions into node positions.
func SelectionToDOM(root *dom.Node, start, end Position) (dom.Point, dom.Point, error) {
	a, err := ModelToDOM(root, start)
	if err != nil {
		return dom.Point{}, dom.Point{}, fmt.Errorf("start: %w", err)
	}
	f, err := ModelToDOM(root, end)
	if err != nil {
		return dom.Point{}, dom.Point{}, fmt.Errorf("end: %w", err)
	}
	return a, f, nil
}
