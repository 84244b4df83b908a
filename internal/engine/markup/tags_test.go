package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type tagKey struct {
	Offset int
	Close  bool
	Name   string
}

func keys(tags []Tag) []tagKey {
	out := make([]tagKey, len(tags))
	for i, tg := range tags {
		out[i] = tagKey{tg.Offset, tg.Close, tg.Name()}
	}
	return out
}

func TestTagsOrder(t *testing.T) {
	tests := []struct {
		name string
		c    *Collection
		want []tagKey
	}{
		{
			name: "outer opens first",
			c:    collectionOf(MustNew(Emphasis, 0, 3, ""), strong(0, 5)),
			want: []tagKey{{0, false, "strong"}, {0, false, "em"}, {3, true, "em"}, {5, true, "strong"}},
		},
		{
			name: "closes precede opens",
			c:    collectionOf(strong(0, 3), MustNew(Emphasis, 3, 6, "")),
			want: []tagKey{{0, false, "strong"}, {3, true, "strong"}, {3, false, "em"}, {6, true, "em"}},
		},
		{
			name: "equal ranges by tag name",
			c:    collectionOf(strong(1, 4), MustNew(Emphasis, 1, 4, ""), link(1, 4, "x")),
			want: []tagKey{
				{1, false, "a"}, {1, false, "em"}, {1, false, "strong"},
				{4, true, "strong"}, {4, true, "em"}, {4, true, "a"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, keys(tt.c.Tags())); diff != "" {
				t.Errorf("Tags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
