package block

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/blockedit/internal/engine/markup"
	"github.com/dshills/blockedit/internal/event"
)

func texts(d *Document) []string {
	var out []string
	for _, b := range d.Blocks() {
		out = append(out, b.Text())
	}
	return out
}

func TestNewDocumentNeverEmpty(t *testing.T) {
	d := NewDocument()
	if d.Len() != 1 || d.At(0).Kind() != Paragraph {
		t.Fatalf("new document = %v", d.Blocks())
	}
	d = NewDocument(WithBlocks())
	if d.Len() != 1 {
		t.Errorf("WithBlocks() left %d blocks", d.Len())
	}
}

func TestDocumentInsertRemove(t *testing.T) {
	d := NewDocument(WithBlocks(NewText(Paragraph, "a"), NewText(Paragraph, "c")))
	if err := d.Insert(1, NewText(Paragraph, "b")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, texts(d)); diff != "" {
		t.Errorf("after insert (-want +got):\n%s", diff)
	}

	if err := d.Insert(5, NewText(Paragraph, "x")); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("insert past end error = %v", err)
	}
	if err := d.Insert(0, nil); !errors.Is(err, ErrNilBlock) {
		t.Errorf("insert nil error = %v", err)
	}

	removed, err := d.Remove(0)
	if err != nil || removed.Text() != "a" {
		t.Fatalf("Remove(0) = %v, %v", removed, err)
	}
	_, _ = d.Remove(0)
	if _, err := d.Remove(0); !errors.Is(err, ErrLastBlock) {
		t.Errorf("removing last block error = %v", err)
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
	if _, err := d.Remove(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("remove out of range error = %v", err)
	}
}

func TestDocumentAtOutOfRange(t *testing.T) {
	d := NewDocument()
	if d.At(-1) != nil || d.At(1) != nil {
		t.Error("At out of range should return nil")
	}
}

func TestDocumentIndex(t *testing.T) {
	b := NewText(Paragraph, "b")
	d := NewDocument(WithBlocks(NewText(Paragraph, "a"), b))
	if d.Index(b) != 1 || d.IndexOf(b.ID()) != 1 {
		t.Errorf("Index = %d, IndexOf = %d", d.Index(b), d.IndexOf(b.ID()))
	}
	if d.Index(NewText(Paragraph, "")) != -1 || d.IndexOf("nope") != -1 {
		t.Error("unknown block should have index -1")
	}
}

func TestDocumentEvents(t *testing.T) {
	em := event.NewEmitter()
	var log []event.Topic
	_, _ = em.SubscribeFunc("document.**", func(e any) {
		log = append(log, e.(event.TopicProvider).EventTopic())
	})
	d := NewDocument(WithEmitter(em))
	b, err := d.Create(1, Divider, Attrs{})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = d.Remove(d.Index(b))

	want := []event.Topic{TopicBlockInserted, TopicBlockRemoved}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestDocumentSplit(t *testing.T) {
	h := NewText(Heading1, "Hello world")
	_, _ = h.AddMarkup(0, 11, markup.Anchor, "https://x")
	d := NewDocument(WithBlocks(h))

	tail, err := d.Split(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Hello", " world"}, texts(d)); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
	if tail.Kind() != Paragraph {
		t.Errorf("heading tail kind = %v, want paragraph", tail.Kind())
	}
	if !d.At(0).IsRangeMarkedUpAs(markup.Anchor, 0, 5) {
		t.Error("head lost its link")
	}
	if !tail.IsRangeMarkedUpAs(markup.Anchor, 0, 6) {
		t.Error("tail lost its link")
	}

	if _, err := d.Split(0, 99); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("split past end error = %v", err)
	}
	_ = d.Append(New(Divider, Attrs{}))
	if _, err := d.Split(2, 0); !errors.Is(err, ErrNotText) {
		t.Errorf("split divider error = %v", err)
	}
}

func TestDocumentSplitKeepsListKind(t *testing.T) {
	d := NewDocument(WithBlocks(NewText(UnorderedListItem, "onetwo")))
	tail, err := d.Split(0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if tail.Kind() != UnorderedListItem {
		t.Errorf("tail kind = %v", tail.Kind())
	}
}

func TestDocumentMerge(t *testing.T) {
	a := NewText(Paragraph, "abc")
	_, _ = a.AddMarkup(1, 3, markup.Strong, "")
	b := NewText(Paragraph, "def")
	_, _ = b.AddMarkup(0, 2, markup.Strong, "")
	_, _ = b.AddMarkup(2, 3, markup.Emphasis, "")
	d := NewDocument(WithBlocks(a, b))

	if err := d.Merge(0); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 || d.At(0).Text() != "abcdef" {
		t.Fatalf("merged = %v", d.Blocks())
	}
	want := []*markup.Markup{
		markup.MustNew(markup.Strong, 1, 5, ""),
		markup.MustNew(markup.Emphasis, 5, 6, ""),
	}
	if diff := cmp.Diff(want, d.At(0).Markups().All()); diff != "" {
		t.Errorf("merged markups (-want +got):\n%s", diff)
	}

	if err := d.Merge(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("merge without successor error = %v", err)
	}
}

func TestDocumentMergeIntoHeadingKeepsOnlyLinks(t *testing.T) {
	h := NewText(Heading1, "Title ")
	p := NewText(Paragraph, "bold link")
	_, _ = p.AddMarkup(0, 4, markup.Strong, "")
	_, _ = p.AddMarkup(0, 9, markup.Emphasis, "")
	_, _ = p.AddMarkup(5, 9, markup.Anchor, "http://x")
	d := NewDocument(WithBlocks(h, p))

	if err := d.Merge(0); err != nil {
		t.Fatal(err)
	}
	got := d.At(0)
	if got.Kind() != Heading1 || got.Text() != "Title bold link" {
		t.Fatalf("merged = %v", got)
	}
	want := []*markup.Markup{markup.MustNew(markup.Anchor, 11, 15, "http://x")}
	if diff := cmp.Diff(want, got.Markups().All()); diff != "" {
		t.Errorf("heading markups (-want +got):\n%s", diff)
	}
}

func TestDocumentMergeNonText(t *testing.T) {
	d := NewDocument(WithBlocks(NewText(Paragraph, "a"), New(Divider, Attrs{})))
	if err := d.Merge(0); !errors.Is(err, ErrNotText) {
		t.Errorf("merge into divider error = %v", err)
	}
}

func TestDocumentText(t *testing.T) {
	d := NewDocument(WithBlocks(NewText(Paragraph, "a"), New(Divider, Attrs{}), NewText(Quote, "b")))
	if got := d.Text(); got != "a\nb" {
		t.Errorf("Text = %q", got)
	}
}
