package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/event"
)

func testDoc() *block.Document {
	return block.NewDocument(block.WithBlocks(
		block.NewText(block.Paragraph, "hello"),
		block.New(block.Image, block.Attrs{}),
		block.NewText(block.Paragraph, "world wide"),
	))
}

func TestKindClassification(t *testing.T) {
	m := New(testDoc())
	if m.Kind() != Null {
		t.Errorf("fresh model Kind = %v, want null", m.Kind())
	}

	m.SetCaret(Point{0, 2})
	if m.Kind() != Caret {
		t.Errorf("Kind = %v, want caret", m.Kind())
	}

	m.Set(Point{0, 1}, Point{0, 3})
	if m.Kind() != Range {
		t.Errorf("Kind = %v, want range", m.Kind())
	}

	m.SetCaret(Point{1, 0})
	if m.Kind() != Media {
		t.Errorf("Kind = %v, want media", m.Kind())
	}

	m.SetCaret(Point{7, 0})
	if m.Kind() != Null {
		t.Errorf("out of range Kind = %v, want null", m.Kind())
	}

	m.Null()
	if !m.IsNull() {
		t.Error("Null() did not clear the selection")
	}
}

func TestKindNeverStale(t *testing.T) {
	doc := testDoc()
	m := New(doc)
	m.SetCaret(Point{2, 0})
	if m.Kind() != Caret {
		t.Fatalf("Kind = %v", m.Kind())
	}
	doc.At(2).SetType(block.Divider, block.Attrs{})
	if m.Kind() != Media {
		t.Errorf("Kind after type change = %v, want media", m.Kind())
	}
}

func TestSetIsIdempotent(t *testing.T) {
	em := event.NewEmitter()
	count := 0
	_, _ = em.SubscribeFunc(TopicChanged, func(any) { count++ })
	m := New(testDoc(), WithEmitter(em))

	if !m.SetCaret(Point{2, 3}) {
		t.Error("first SetCaret reported no change")
	}
	if m.SetCaret(Point{2, 3}) {
		t.Error("repeated SetCaret reported a change")
	}
	if count != 1 {
		t.Errorf("got %d change events, want 1", count)
	}

	m.Null()
	m.Null()
	if count != 2 {
		t.Errorf("got %d change events after Null, want 2", count)
	}
}

func TestSetReversedSameRangeIsIdempotent(t *testing.T) {
	em := event.NewEmitter()
	count := 0
	_, _ = em.SubscribeFunc(TopicChanged, func(any) { count++ })
	m := New(testDoc(), WithEmitter(em))

	m.Set(Point{0, 1}, Point{0, 3})
	if m.Set(Point{0, 3}, Point{0, 1}) {
		t.Error("reversed Set over the same range reported a change")
	}
	if count != 1 {
		t.Errorf("got %d change events, want 1", count)
	}
	if m.Start() != (Point{0, 1}) || m.End() != (Point{0, 3}) {
		t.Errorf("selection = %v..%v", m.Start(), m.End())
	}
	if !m.Backward() {
		t.Error("Backward should follow the last Set")
	}
}

func TestChangedPayload(t *testing.T) {
	em := event.NewEmitter()
	var got []Changed
	_, _ = em.Subscribe(TopicChanged, event.PayloadHandler(func(c Changed) { got = append(got, c) }))
	m := New(testDoc(), WithEmitter(em))

	m.Set(Point{0, 1}, Point{2, 4})

	want := []Changed{{
		Old: Selection{Kind: Null},
		New: Selection{Kind: Range, Start: Point{0, 1}, End: Point{2, 4}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
}

func TestBackwardNormalized(t *testing.T) {
	m := New(testDoc())
	m.Set(Point{2, 4}, Point{0, 1})

	if m.Start() != (Point{0, 1}) || m.End() != (Point{2, 4}) {
		t.Errorf("normalized = %v..%v", m.Start(), m.End())
	}
	if !m.Backward() {
		t.Error("Backward should record the drag direction")
	}
	if !m.SpansBlocks() {
		t.Error("normalized selection should span blocks")
	}

	m.Set(Point{0, 4}, Point{0, 1})
	if m.Start() != (Point{0, 1}) || m.End() != (Point{0, 4}) {
		t.Errorf("same-block normalized = %v..%v", m.Start(), m.End())
	}
}

func TestBackwardPreserved(t *testing.T) {
	m := New(testDoc(), WithNormalize(false))
	m.Set(Point{2, 4}, Point{0, 1})

	if m.Start() != (Point{2, 4}) || m.End() != (Point{0, 1}) {
		t.Errorf("raw = %v..%v", m.Start(), m.End())
	}
	if m.SpansBlocks() {
		t.Error("raw backward selection does not span forward")
	}
	if m.Kind() != Range {
		t.Errorf("Kind = %v, want range", m.Kind())
	}
	if got := len(m.Blocks()); got != 3 {
		t.Errorf("Blocks() = %d blocks, want 3", got)
	}

	lo, hi := m.Snapshot().Ordered()
	if lo != (Point{0, 1}) || hi != (Point{2, 4}) {
		t.Errorf("Ordered() = %v, %v", lo, hi)
	}

	m.Collapse(true)
	if m.Start() != (Point{0, 1}) {
		t.Errorf("Collapse(true) = %v, want 0:1", m.Start())
	}
}

func TestDerivedQueries(t *testing.T) {
	m := New(testDoc())
	if m.WithinOneBlock() || m.SpansBlocks() || m.EntireBlock() {
		t.Error("null selection should answer false")
	}
	if m.StartBlock() != nil || m.EndBlock() != nil {
		t.Error("null selection should have no blocks")
	}

	m.Set(Point{0, 0}, Point{0, 5})
	if !m.WithinOneBlock() || !m.EntireBlock() || m.SpansBlocks() {
		t.Error("whole first block should be entire and within one block")
	}
	if m.StartBlock().Text() != "hello" || m.EndBlock() != m.StartBlock() {
		t.Error("unexpected start/end blocks")
	}

	m.Set(Point{0, 0}, Point{0, 4})
	if m.EntireBlock() {
		t.Error("partial selection is not the entire block")
	}

	m.Set(Point{0, 3}, Point{2, 2})
	if m.WithinOneBlock() || !m.SpansBlocks() {
		t.Error("expected a multi-block selection")
	}
	if m.EndBlock().Text() != "world wide" {
		t.Errorf("EndBlock = %v", m.EndBlock())
	}
	if got := len(m.Blocks()); got != 3 {
		t.Errorf("Blocks() = %d, want 3", got)
	}

	m.Collapse(false)
	if m.Kind() != Caret || m.Start() != (Point{2, 2}) {
		t.Errorf("Collapse(false) = %v at %v", m.Kind(), m.Start())
	}
}

func TestPointCompare(t *testing.T) {
	tests := []struct {
		p, q Point
		want int
	}{
		{Point{0, 1}, Point{0, 2}, -1},
		{Point{1, 0}, Point{0, 9}, 1},
		{Point{2, 3}, Point{2, 3}, 0},
	}
	for _, tt := range tests {
		if got := tt.p.Compare(tt.q); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.p, tt.q, got, tt.want)
		}
	}
}
