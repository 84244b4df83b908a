// Package exchange converts documents to and from JSON.
//
// The format is
//
//	{
//	  "version": 1,
//	  "blocks": [
//	    {"id": "...", "kind": "paragraph", "text": "...",
//	     "markups": [{"type": "strong", "start": 0, "end": 4}]},
//	    {"id": "...", "kind": "image", "layout": "full",
//	     "metadata": {"src": "a.png", "caption": "..."}}
//	  ]
//	}
//
// Offsets are UTF-16 code units. Fields a kind does not support are
// omitted on output and ignored on input.
package exchange

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/markup"
)

// Version is the format version written by Marshal.
const Version = 1

var (
	// ErrInvalidJSON indicates input that is not JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrUnsupportedVersion indicates a format version this package cannot read.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrInvalidBlock indicates a block entry that cannot be restored.
	ErrInvalidBlock = errors.New("invalid block")
)

// Marshal encodes d.
func Marshal(d *block.Document) ([]byte, error) {
	out := []byte(`{}`)
	out, err := sjson.SetBytes(out, "version", Version)
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetRawBytes(out, "blocks", []byte(`[]`))
	if err != nil {
		return nil, err
	}
	for i, b := range d.Blocks() {
		raw, err := marshalBlock(b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if out, err = sjson.SetRawBytes(out, "blocks.-1", raw); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
	}
	return out, nil
}

// MarshalIndent encodes d as indented JSON.
func MarshalIndent(d *block.Document) ([]byte, error) {
	out, err := Marshal(d)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(out), nil
}

func marshalBlock(b *block.Block) ([]byte, error) {
	k := b.Kind()
	fields := []struct {
		path  string
		value any
		keep  bool
	}{
		{"id", b.ID(), true},
		{"kind", k.String(), true},
		{"text", b.Text(), k.SupportsText()},
		{"layout", b.Layout(), k.SupportsLayout() && b.Layout() != ""},
	}

	out := []byte(`{}`)
	var err error
	for _, f := range fields {
		if !f.keep {
			continue
		}
		if out, err = sjson.SetBytes(out, f.path, f.value); err != nil {
			return nil, err
		}
	}

	if ms := b.Markups(); ms != nil && ms.Len() > 0 {
		for i, m := range ms.All() {
			prefix := fmt.Sprintf("markups.%d.", i)
			if out, err = sjson.SetBytes(out, prefix+"type", m.Type.String()); err != nil {
				return nil, err
			}
			if out, err = sjson.SetBytes(out, prefix+"start", m.Start); err != nil {
				return nil, err
			}
			if out, err = sjson.SetBytes(out, prefix+"end", m.End); err != nil {
				return nil, err
			}
			if m.Type == markup.Anchor {
				if out, err = sjson.SetBytes(out, prefix+"href", m.Href); err != nil {
					return nil, err
				}
			}
		}
	}

	if meta := b.MetadataMap(); meta != nil {
		if out, err = sjson.SetRawBytes(out, "metadata", []byte(`{}`)); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, key := range keys {
			if out, err = sjson.SetBytes(out, "metadata."+EscapePath(key), meta[key]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// EscapePath escapes the characters gjson and sjson treat as path syntax.
func EscapePath(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '!', '\\', '=', '<', '>', '%', ':':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Unmarshal decodes a document. An empty block list yields the default
// document holding one empty paragraph.
func Unmarshal(data []byte) (*block.Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if v := root.Get("version"); v.Exists() && v.Int() != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v.Int())
	}

	blocks, err := UnmarshalBlocks(root.Get("blocks"))
	if err != nil {
		return nil, err
	}
	return block.NewDocument(block.WithBlocks(blocks...)), nil
}

// UnmarshalBlocks decodes a JSON array of block objects.
func UnmarshalBlocks(arr gjson.Result) ([]*block.Block, error) {
	if arr.Exists() && !arr.IsArray() {
		return nil, fmt.Errorf("%w: blocks is %s, want array", ErrInvalidBlock, arr.Type)
	}
	var blocks []*block.Block
	var err error
	arr.ForEach(func(_, v gjson.Result) bool {
		var b *block.Block
		b, err = UnmarshalBlock(v)
		if err != nil {
			err = fmt.Errorf("block %d: %w", len(blocks), err)
			return false
		}
		blocks = append(blocks, b)
		return true
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// UnmarshalBlock decodes one block object.
func UnmarshalBlock(v gjson.Result) (*block.Block, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("%w: want object, got %s", ErrInvalidBlock, v.Type)
	}
	k, err := block.ParseKind(v.Get("kind").String())
	if err != nil {
		return nil, err
	}

	attrs := block.Attrs{
		Text:   v.Get("text").String(),
		Layout: v.Get("layout").String(),
	}
	if meta := v.Get("metadata"); meta.IsObject() {
		attrs.Metadata = make(map[string]string)
		meta.ForEach(func(key, value gjson.Result) bool {
			attrs.Metadata[key.String()] = value.String()
			return true
		})
	}
	b := block.New(k, attrs).WithID(v.Get("id").String())

	for i, m := range v.Get("markups").Array() {
		typ, err := markup.ParseType(m.Get("type").String())
		if err != nil {
			return nil, fmt.Errorf("markup %d: %w", i, err)
		}
		ok, err := b.AddMarkup(int(m.Get("start").Int()), int(m.Get("end").Int()), typ, m.Get("href").String())
		if err != nil {
			return nil, fmt.Errorf("markup %d: %w", i, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s does not accept %s", ErrInvalidBlock, k, typ)
		}
	}
	return b, nil
}
