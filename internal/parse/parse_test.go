package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/markup"
	"github.com/dshills/blockedit/internal/render"
)

type parsed struct {
	Kind     string
	Text     string
	Layout   string
	Metadata map[string]string
	Markups  []string
}

func summarize(blocks []*block.Block) []parsed {
	out := make([]parsed, 0, len(blocks))
	for _, b := range blocks {
		p := parsed{Kind: b.Kind().String(), Text: b.Text(), Layout: b.Layout(), Metadata: b.MetadataMap()}
		if b.Markups() != nil {
			for _, m := range b.Markups().All() {
				p.Markups = append(p.Markups, m.String())
			}
		}
		out = append(out, p)
	}
	return out
}

func mustParse(t *testing.T, src string) []*block.Block {
	t.Helper()
	blocks, err := String(src)
	if err != nil {
		t.Fatalf("String(%q): %v", src, err)
	}
	return blocks
}

func TestBlockKinds(t *testing.T) {
	src := `<p>one</p>
<blockquote class="pull">two</blockquote>
<h2>three</h2><h3>four</h3><h4>five</h4>
<hr>
<ol><li>six</li></ol>
<ul><li>seven</li><li>eight</li></ul>`
	got := summarize(mustParse(t, src))
	want := []parsed{
		{Kind: "paragraph", Text: "one"},
		{Kind: "quote", Text: "two", Layout: "pull"},
		{Kind: "heading1", Text: "three"},
		{Kind: "heading2", Text: "four"},
		{Kind: "heading3", Text: "five"},
		{Kind: "divider"},
		{Kind: "ordered_list_item", Text: "six"},
		{Kind: "unordered_list_item", Text: "seven"},
		{Kind: "unordered_list_item", Text: "eight"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestFigures(t *testing.T) {
	src := `<figure class="wide"><img src="a.png"><figcaption>A &amp; B</figcaption></figure>` +
		`<figure><iframe src="https://v"></iframe></figure>`
	got := summarize(mustParse(t, src))
	want := []parsed{
		{Kind: "image", Layout: "wide", Metadata: map[string]string{"src": "a.png", "caption": "A & B"}},
		{Kind: "video", Metadata: map[string]string{"src": "https://v"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("figures mismatch (-want +got):\n%s", diff)
	}
}

func TestInlineMarkups(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		text  string
		marks []string
	}{
		{"strong", "<p>a<strong>bc</strong>d</p>", "abcd", []string{"strong[1,3)"}},
		{"b and i", "<p><b>ab</b><i>cd</i></p>", "abcd", []string{"strong[0,2)", "emphasis[2,4)"}},
		{"nested", "<p><strong>a<em>b</em>c</strong></p>", "abc", []string{"strong[0,3)", "emphasis[1,2)"}},
		{"anchor", `<p><a href="http://x">link</a></p>`, "link", []string{`anchor[0,4) href="http://x"`}},
		{"anchor without href", "<p><a>x</a></p>", "x", nil},
		{"span is transparent", "<p><span>a<strong>b</strong></span></p>", "ab", []string{"strong[1,2)"}},
		{"empty strong", "<p>a<strong></strong></p>", "a", nil},
		{"br placeholder", "<p><br></p>", "", nil},
		{"nbsp", "<p>a &nbsp;b&nbsp;</p>", "a  b ", nil},
		{"astral", "<p>😀<em>x</em></p>", "😀x", []string{"emphasis[2,3)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := mustParse(t, tt.src)
			if len(blocks) != 1 {
				t.Fatalf("got %d blocks, want 1", len(blocks))
			}
			got := summarize(blocks)[0]
			if got.Text != tt.text {
				t.Errorf("text = %q, want %q", got.Text, tt.text)
			}
			if diff := cmp.Diff(tt.marks, got.Markups); diff != "" {
				t.Errorf("markups mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHeadingKeepsOnlyLinks(t *testing.T) {
	blocks := mustParse(t, `<h2><strong>a</strong><a href="u">b</a></h2>`)
	ms := blocks[0].Markups().All()
	if len(ms) != 1 || ms[0].Type != markup.Anchor {
		t.Errorf("heading markups = %v, want one anchor", ms)
	}
}

func TestWrappersAndStrayText(t *testing.T) {
	got := summarize(mustParse(t, `<div><section><p>a</p></section>loose</div>`))
	want := []parsed{
		{Kind: "paragraph", Text: "a"},
		{Kind: "paragraph", Text: "loose"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyInput(t *testing.T) {
	if blocks := mustParse(t, ""); len(blocks) != 0 {
		t.Errorf("got %d blocks, want 0", len(blocks))
	}
}

func TestMalformed(t *testing.T) {
	_, err := HTML(strings.NewReader("<p>a</p><!-- never closed"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line == 0 {
		t.Errorf("ParseError.Line = 0, want position")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	b := block.NewText(block.Paragraph, " bold  and linked ")
	for _, m := range []struct {
		start, end int
		typ        markup.Type
		href       string
	}{
		{1, 5, markup.Strong, ""},
		{3, 12, markup.Emphasis, ""},
		{11, 17, markup.Anchor, "http://x?a=1&b=2"},
	} {
		if _, err := b.AddMarkup(m.start, m.end, m.typ, m.href); err != nil {
			t.Fatal(err)
		}
	}
	doc := block.NewDocument(block.WithBlocks(
		b,
		block.NewText(block.OrderedListItem, "item"),
		block.New(block.Image, block.Attrs{Layout: "full", Metadata: map[string]string{block.MetaSrc: "i.png"}}),
		block.NewText(block.Heading2, ""),
	))

	blocks := mustParse(t, render.Document(doc))
	if diff := cmp.Diff(summarize(doc.Blocks()), summarize(blocks)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
