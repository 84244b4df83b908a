package dom

import "testing"

func TestHTML(t *testing.T) {
	root := Element("section", map[string]string{"class": "full", "data-x": `a"b`}).Append(
		Element("p", nil).Append(Text("a < b"), Element("strong", nil).Append(Text("\u00a0c"))),
		Element("hr", nil),
		Element("figure", nil).Append(Element("img", map[string]string{"src": "x.png"})),
	)
	want := `<section class="full" data-x="a&#34;b"><p>a &lt; b<strong>&nbsp;c</strong></p><hr><figure><img src="x.png"></figure></section>`
	if got := root.HTML(); got != want {
		t.Errorf("HTML =\n%s\nwant\n%s", got, want)
	}
	if got, want := root.FirstChild.InnerHTML(), "a &lt; b<strong>&nbsp;c</strong>"; got != want {
		t.Errorf("InnerHTML = %q, want %q", got, want)
	}
}

func TestIsVoid(t *testing.T) {
	for _, tag := range []string{"br", "hr", "img"} {
		if !IsVoid(tag) {
			t.Errorf("IsVoid(%q) = false", tag)
		}
	}
	if IsVoid("p") {
		t.Error("IsVoid(p) = true")
	}
}
