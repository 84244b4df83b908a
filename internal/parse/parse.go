package parse

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/markup"
	"github.com/dshills/blockedit/internal/engine/text16"
)

// rootTag wraps the fragment so several top-level elements parse as one
// document.
const rootTag = "blockedit-root"

// ParseError reports malformed input.
type ParseError struct {
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return "parse error: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type parser struct {
	dec    *xml.Decoder
	blocks []*block.Block
}

// HTML parses an HTML fragment into blocks in document order.
func HTML(r io.Reader) ([]*block.Block, error) {
	src := io.MultiReader(
		strings.NewReader("<"+rootTag+">"),
		r,
		strings.NewReader("</"+rootTag+">"),
	)
	dec := xml.NewDecoder(src)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	p := &parser{dec: dec}
	if err := p.container(""); err != nil {
		return nil, err
	}
	return p.blocks, nil
}

// String parses an HTML fragment held in a string.
func String(s string) ([]*block.Block, error) {
	return HTML(strings.NewReader(s))
}

func (p *parser) fail(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	line, col := p.dec.InputPos()
	return &ParseError{Line: line, Column: col, Message: err.Error(), Err: err}
}

func (p *parser) token() (xml.Token, error) {
	tok, err := p.dec.Token()
	if err == io.EOF {
		return nil, err
	}
	if err != nil {
		return nil, p.fail(err)
	}
	return tok, nil
}

// container reads block-level content until the end tag named end, or EOF
// when end is empty.
func (p *parser) container(end string) error {
	for {
		tok, err := p.token()
		if err == io.EOF {
			if end != "" {
				return p.fail(fmt.Errorf("unexpected end of input inside <%s>", end))
			}
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == end {
				return nil
			}
		case xml.CharData:
			if text := strings.TrimSpace(string(t)); text != "" {
				p.blocks = append(p.blocks, block.NewText(block.Paragraph, text))
			}
		case xml.StartElement:
			if err := p.element(t); err != nil {
				return err
			}
		}
	}
}

func (p *parser) element(start xml.StartElement) error {
	name := strings.ToLower(start.Name.Local)
	switch name {
	case "p":
		return p.textBlock(start, block.Paragraph)
	case "blockquote":
		return p.textBlock(start, block.Quote)
	case "h2":
		return p.textBlock(start, block.Heading1)
	case "h3":
		return p.textBlock(start, block.Heading2)
	case "h4":
		return p.textBlock(start, block.Heading3)
	case "ol":
		return p.list(start, block.OrderedListItem)
	case "ul":
		return p.list(start, block.UnorderedListItem)
	case "li":
		return p.textBlock(start, block.UnorderedListItem)
	case "hr":
		p.blocks = append(p.blocks, block.New(block.Divider, block.Attrs{}))
		return p.skip(start.Name.Local)
	case "figure":
		return p.figure(start)
	default:
		return p.container(start.Name.Local)
	}
}

func (p *parser) list(start xml.StartElement, k block.Kind) error {
	for {
		tok, err := p.token()
		if err == io.EOF {
			return p.fail(fmt.Errorf("unexpected end of input inside <%s>", start.Name.Local))
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		case xml.StartElement:
			if strings.EqualFold(t.Name.Local, "li") {
				if err := p.textBlock(t, k); err != nil {
					return err
				}
				continue
			}
			if err := p.element(t); err != nil {
				return err
			}
		}
	}
}

// span is an inline element whose end has not been seen yet. Only strong,
// em and linking anchors carry a markup.
type span struct {
	typ    markup.Type
	href   string
	start  int
	end    int
	markup bool
}

func inlineSpan(start xml.StartElement, offset int) span {
	s := span{start: offset, markup: true}
	switch strings.ToLower(start.Name.Local) {
	case "strong", "b":
		s.typ = markup.Strong
	case "em", "i":
		s.typ = markup.Emphasis
	case "a":
		s.typ, s.href = markup.Anchor, attr(start, "href")
		s.markup = s.href != ""
	default:
		s.markup = false
	}
	return s
}

// innerText converts character data to block text. Non-breaking spaces
// written by the renderer become plain spaces again.
func innerText(data []byte) string {
	return strings.ReplaceAll(string(data), "\u00a0", " ")
}

// textBlock reads the content of a text element into a block of kind k.
func (p *parser) textBlock(start xml.StartElement, k block.Kind) error {
	var (
		sb    strings.Builder
		n     int
		open  []span
		spans []span
	)
	for {
		tok, err := p.token()
		if err == io.EOF {
			return p.fail(fmt.Errorf("unexpected end of input inside <%s>", start.Name.Local))
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.CharData:
			s := innerText(t)
			sb.WriteString(s)
			n += text16.Len(s)
		case xml.StartElement:
			open = append(open, inlineSpan(t, n))
		case xml.EndElement:
			if len(open) > 0 {
				s := open[len(open)-1]
				open = open[:len(open)-1]
				if s.markup && n > s.start {
					s.end = n
					spans = append(spans, s)
				}
				continue
			}
			if t.Name.Local != start.Name.Local {
				continue
			}

			b := block.New(k, block.Attrs{Text: sb.String(), Layout: attr(start, "class")})
			for _, s := range spans {
				if _, err := b.AddMarkup(s.start, s.end, s.typ, s.href); err != nil {
					return p.fail(err)
				}
			}
			p.blocks = append(p.blocks, b)
			return nil
		}
	}
}

func (p *parser) figure(start xml.StartElement) error {
	var (
		kind    = block.Image
		src     string
		caption strings.Builder
		first   = true
		depth   int
		inCap   bool
	)
	for {
		tok, err := p.token()
		if err == io.EOF {
			return p.fail(fmt.Errorf("unexpected end of input inside <%s>", start.Name.Local))
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			if first {
				first = false
				if name == "iframe" || name == "video" {
					kind = block.Video
				}
			}
			switch name {
			case "img", "iframe", "video":
				if src == "" {
					src = attr(t, "src")
				}
			case "figcaption":
				inCap = true
			}
			depth++
		case xml.CharData:
			if inCap {
				caption.WriteString(innerText(t))
			}
		case xml.EndElement:
			if depth == 0 {
				meta := map[string]string{block.MetaSrc: src}
				if c := caption.String(); c != "" {
					meta[block.MetaCaption] = c
				}
				p.blocks = append(p.blocks, block.New(kind, block.Attrs{
					Layout:   attr(start, "class"),
					Metadata: meta,
				}))
				return nil
			}
			depth--
			if strings.EqualFold(t.Name.Local, "figcaption") {
				inCap = false
			}
		}
	}
}

// skip discards tokens up to the end tag of the current element.
func (p *parser) skip(name string) error {
	depth := 0
	for {
		tok, err := p.token()
		if err == io.EOF {
			return p.fail(fmt.Errorf("unexpected end of input inside <%s>", name))
		}
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}
