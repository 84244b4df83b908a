// Package render turns blocks into HTML and into dom trees.
//
// Text blocks are written as their text interleaved with markup tags.
// Overlapping markups that do not nest are closed and reopened around each
// other so the output is always well formed.
package render

import (
	"strings"

	"github.com/dshills/blockedit/internal/dom"
	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/markup"
	"github.com/dshills/blockedit/internal/engine/text16"
)

const nbsp = '\u00a0'

// Renderer converts the block model into markup.
type Renderer struct {
	escapeSpaces bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEscapeSpaces controls whether runs of spaces are protected from
// HTML whitespace collapsing. Enabled by default.
func WithEscapeSpaces(on bool) Option {
	return func(r *Renderer) {
		r.escapeSpaces = on
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{escapeSpaces: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = New()

// InnerHTML renders b's content with the default options.
func InnerHTML(b *block.Block) string { return defaultRenderer.InnerHTML(b) }

// Document renders d with the default options.
func Document(d *block.Document) string { return defaultRenderer.Document(d) }

// Tree renders d into a dom tree with the default options.
func Tree(d *block.Document) *dom.Node { return defaultRenderer.Tree(d) }

// EscapeSpaces replaces spaces that HTML would collapse with non-breaking
// spaces. Inside a run the spaces alternate between a plain space and a
// non-breaking one; a space at either end of s is always non-breaking.
// The UTF-16 length of s is unchanged.
func EscapeSpaces(s string) string {
	if !strings.Contains(s, " ") {
		return s
	}
	runes := []rune(s)
	last := len(runes) - 1
	for i, r := range runes {
		if r != ' ' {
			continue
		}
		switch {
		case i == 0, i == last:
			runes[i] = nbsp
		case runes[i-1] == ' ':
			runes[i] = nbsp
		}
	}
	return string(runes)
}

// sink receives the content of a text block in order.
type sink interface {
	open(m *markup.Markup)
	close(m *markup.Markup)
	text(s string)
}

// walk feeds b's text and markup boundaries into s, keeping tags nested.
func (r *Renderer) walk(b *block.Block, s sink) {
	text := b.Text()
	if r.escapeSpaces {
		text = EscapeSpaces(text)
	}
	if b.Markups() == nil || b.Markups().Len() == 0 {
		if text != "" {
			s.text(text)
		}
		return
	}

	var stack []*markup.Markup
	pos := 0
	for _, tag := range b.Markups().Tags() {
		if tag.Offset > pos {
			s.text(text16.Slice(text, pos, tag.Offset))
			pos = tag.Offset
		}
		if !tag.Close {
			s.open(tag.Markup)
			stack = append(stack, tag.Markup)
			continue
		}

		// Close everything opened after the markup, then reopen it.
		i := len(stack) - 1
		for i >= 0 && stack[i] != tag.Markup {
			i--
		}
		if i < 0 {
			continue
		}
		reopen := stack[i+1:]
		for j := len(stack) - 1; j >= i; j-- {
			s.close(stack[j])
		}
		rest := append([]*markup.Markup(nil), reopen...)
		stack = stack[:i]
		for _, m := range rest {
			s.open(m)
			stack = append(stack, m)
		}
	}
	if end := text16.Len(text); pos < end {
		s.text(text16.Slice(text, pos, end))
	}
}

func markupAttrs(m *markup.Markup) map[string]string {
	if m.Type == markup.Anchor {
		return map[string]string{"href": m.Href}
	}
	return nil
}

type stringSink struct {
	sb strings.Builder
}

func (s *stringSink) open(m *markup.Markup) {
	s.sb.WriteString(dom.OpenTag(m.Type.TagName(), markupAttrs(m)))
}

func (s *stringSink) close(m *markup.Markup) {
	s.sb.WriteString("</" + m.Type.TagName() + ">")
}

func (s *stringSink) text(t string) {
	s.sb.WriteString(dom.EscapeText(t))
}

type nodeSink struct {
	cur *dom.Node
}

func (s *nodeSink) open(m *markup.Markup) {
	s.cur = s.cur.AppendChild(dom.Element(m.Type.TagName(), markupAttrs(m)))
}

func (s *nodeSink) close(*markup.Markup) {
	s.cur = s.cur.Parent
}

func (s *nodeSink) text(t string) {
	s.cur.AppendChild(dom.Text(t))
}

// InnerHTML renders the content of a text block: plain escaped text when it
// has no markups, otherwise text interleaved with tags. Non-text blocks
// render their element children, as in Tree.
func (r *Renderer) InnerHTML(b *block.Block) string {
	if !b.Kind().SupportsText() {
		return r.blockElement(b).InnerHTML()
	}
	var s stringSink
	r.walk(b, &s)
	return s.sb.String()
}
