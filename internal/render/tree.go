package render

import (
	"strings"

	"github.com/dshills/blockedit/internal/dom"
	"github.com/dshills/blockedit/internal/engine/block"
)

// Tree renders d as a dom tree.
//
// The root holds layout sections. Consecutive blocks share a section; a
// media block with a layout gets a section of its own, classed with the
// layout. Consecutive list items of one kind share an ol or ul.
func (r *Renderer) Tree(d *block.Document) *dom.Node {
	root := dom.Element("div", map[string]string{"class": "blockedit"})

	var section, list *dom.Node
	for _, b := range d.Blocks() {
		k := b.Kind()
		if k.IsMedia() && b.Layout() != "" {
			section = root.AppendChild(dom.Element("section", map[string]string{"class": b.Layout()}))
			section.AppendChild(r.blockElement(b))
			section, list = nil, nil
			continue
		}
		if section == nil {
			section = root.AppendChild(dom.Element("section", nil))
		}

		if !k.IsListItem() {
			section.AppendChild(r.blockElement(b))
			list = nil
			continue
		}
		if list == nil || list.Tag != k.ListTagName() {
			list = section.AppendChild(dom.Element(k.ListTagName(), nil))
		}
		list.AppendChild(r.blockElement(b))
	}
	return root
}

// Document renders d as HTML.
func (r *Renderer) Document(d *block.Document) string {
	var sb strings.Builder
	for s := r.Tree(d).FirstChild; s != nil; s = s.NextSibling {
		sb.WriteString(s.HTML())
	}
	return sb.String()
}

// blockElement builds the element for a single block. Empty text blocks
// hold a <br> so they keep a line box.
func (r *Renderer) blockElement(b *block.Block) *dom.Node {
	var attrs map[string]string
	if b.Layout() != "" {
		attrs = map[string]string{"class": b.Layout()}
	}
	el := dom.Element(b.Kind().TagName(), attrs)

	switch b.Kind() {
	case block.Divider:
	case block.Image, block.Video:
		tag := "img"
		if b.Kind() == block.Video {
			tag = "iframe"
		}
		src, _ := b.Metadata(block.MetaSrc)
		el.AppendChild(dom.Element(tag, map[string]string{"src": src}))
		if caption, ok := b.Metadata(block.MetaCaption); ok && caption != "" {
			el.AppendChild(dom.Element("figcaption", nil)).AppendChild(dom.Text(caption))
		}
	default:
		r.walk(b, &nodeSink{cur: el})
		if el.FirstChild == nil {
			el.AppendChild(dom.Element("br", nil))
		}
	}
	return el
}
