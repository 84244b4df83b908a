// Package engine provides the editor core behind a single facade.
//
// An Editor owns a block document, the selection over it and the emitter
// both publish on. Every mutation goes through the Editor so that the
// selection stays valid when blocks are inserted, removed, split, merged
// or retyped, and so that text edits shift both markups and selection.
//
// # Architecture
//
//	┌──────────────────────────────────────────┐
//	│                  Editor                  │
//	├──────────┬───────────┬───────────────────┤
//	│ Document │ Selection │ Emitter           │
//	├──────────┴───────────┴───────────────────┤
//	│ block · markup · diff · selection        │
//	├──────────────────────────────────────────┤
//	│ mapping ⇄ rendered dom tree              │
//	└──────────────────────────────────────────┘
//
// Sub-packages:
//
//   - text16: UTF-16 offsets over Go strings
//   - diff: single-region text diffs
//   - markup: inline markups and their normalized collection
//   - block: blocks and the document sequence
//   - selection: the selection model in block/offset space
//   - mapping: conversions between model and node positions
//
// # Typing flow
//
// A surface reports an edit by handing back the rendered tree. SyncDOM
// reads the block's text from it, diffs it against the model, shifts the
// block's markups and the selection, and the caller re-renders and calls
// RestoreDOMSelection to put the caret back.
//
//	e := engine.New(engine.WithBlocks(blocks...))
//	root := e.Tree()
//	// ... the user types into root ...
//	e.SyncDOM(root, 0)
//	root = e.Tree()
//	anchor, focus, _ := e.RestoreDOMSelection(root)
//
// # Thread Safety
//
// All Editor methods are safe for concurrent use. Events raised by a
// mutation are published after the Editor's lock is released, in the order
// they were raised, so handlers may read the Editor back.
package engine
