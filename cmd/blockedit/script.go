package main

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/blockedit/internal/engine"
	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/markup"
)

var errScript = errors.New("invalid edit script")

// applyScript runs every operation of an edit script against ed in order.
// A script is a JSON array of operations, or an object holding that array
// under "ops". Each operation names its action in "op":
//
//	{"op":"text","block":0,"text":"new text"}
//	{"op":"select","start":[0,2],"end":[1,4]}
//	{"op":"collapse","to_start":true}
//	{"op":"toggle","markup":"strong"}
//	{"op":"toggle","markup":"anchor","href":"https://example.com"}
//	{"op":"insert","block":1,"kind":"quote","text":"...","layout":"pull"}
//	{"op":"remove","block":1}
//	{"op":"split","block":0,"offset":5}
//	{"op":"merge","block":0}
//	{"op":"type","block":0,"kind":"heading2"}
//	{"op":"meta","block":2,"key":"caption","value":"..."}
func applyScript(ed *engine.Editor, script []byte) error {
	if !gjson.ValidBytes(script) {
		return fmt.Errorf("%w: malformed JSON", errScript)
	}
	root := gjson.ParseBytes(script)
	if root.IsObject() {
		root = root.Get("ops")
	}
	if !root.IsArray() {
		return fmt.Errorf("%w: expected an array of operations", errScript)
	}

	var err error
	root.ForEach(func(i, op gjson.Result) bool {
		if err = applyOp(ed, op); err != nil {
			err = fmt.Errorf("op %d (%s): %w", i.Int(), op.Get("op").String(), err)
			return false
		}
		return true
	})
	return err
}

func applyOp(ed *engine.Editor, op gjson.Result) error {
	ix := int(op.Get("block").Int())
	switch name := op.Get("op").String(); name {
	case "text":
		_, err := ed.ApplyText(ix, op.Get("text").String())
		return err
	case "select":
		start, err := point(op.Get("start"))
		if err != nil {
			return err
		}
		end := start
		if v := op.Get("end"); v.Exists() {
			if end, err = point(v); err != nil {
				return err
			}
		}
		ed.Select(start, end)
		return nil
	case "clear":
		ed.ClearSelection()
		return nil
	case "collapse":
		ed.Collapse(op.Get("to_start").Bool())
		return nil
	case "toggle":
		typ, err := markup.ParseType(op.Get("markup").String())
		if err != nil {
			return err
		}
		_, err = ed.ToggleMarkup(typ, op.Get("href").String())
		return err
	case "insert":
		k, err := block.ParseKind(op.Get("kind").String())
		if err != nil {
			return err
		}
		_, err = ed.InsertBlock(ix, k, attrs(op))
		return err
	case "remove":
		return ed.RemoveBlock(ix)
	case "split":
		_, err := ed.SplitBlock(ix, int(op.Get("offset").Int()))
		return err
	case "merge":
		return ed.MergeBlocks(ix)
	case "type":
		k, err := block.ParseKind(op.Get("kind").String())
		if err != nil {
			return err
		}
		_, err = ed.SetBlockType(ix, k, attrs(op))
		return err
	case "meta":
		return ed.SetMetadata(ix, op.Get("key").String(), op.Get("value").String())
	default:
		return fmt.Errorf("%w: unknown op %q", errScript, name)
	}
}

// point reads a [block, offset] pair.
func point(v gjson.Result) (engine.Position, error) {
	arr := v.Array()
	if len(arr) != 2 {
		return engine.Position{}, fmt.Errorf("%w: position must be [block, offset]", errScript)
	}
	return engine.Position{Block: int(arr[0].Int()), Offset: int(arr[1].Int())}, nil
}

func attrs(op gjson.Result) block.Attrs {
	a := block.Attrs{
		Text:   op.Get("text").String(),
		Layout: op.Get("layout").String(),
	}
	if meta := op.Get("metadata"); meta.IsObject() {
		a.Metadata = make(map[string]string)
		meta.ForEach(func(k, v gjson.Result) bool {
			a.Metadata[k.String()] = v.String()
			return true
		})
	}
	return a
}
