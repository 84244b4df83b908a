package engine

import (
	"github.com/dshills/blockedit/internal/config"
	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/event"
	"github.com/dshills/blockedit/internal/logging"
	"github.com/dshills/blockedit/internal/render"
)

// Option configures an Editor during creation.
type Option func(*Editor)

// WithBlocks sets the initial content. Without it the document holds one
// empty paragraph.
func WithBlocks(blocks ...*block.Block) Option {
	return func(e *Editor) {
		e.initBlocks = blocks
	}
}

// WithEmitter publishes document and selection events on em.
func WithEmitter(em *event.Emitter) Option {
	return func(e *Editor) {
		e.emitter = em
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithNormalize controls whether backward selections are stored
// start-first.
func WithNormalize(on bool) Option {
	return func(e *Editor) {
		e.normalize = on
	}
}

// WithRenderer sets the renderer used by Render, Tree and InnerHTML.
func WithRenderer(r *render.Renderer) Option {
	return func(e *Editor) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithConfig applies the selection and render sections of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(e *Editor) {
		if cfg == nil {
			return
		}
		e.normalize = cfg.Selection.Normalize
		e.renderer = render.New(render.WithEscapeSpaces(cfg.Render.EscapeSpaces))
	}
}

// WithReadOnly creates a read-only editor.
// Mutations return ErrReadOnly; selection changes are still allowed.
func WithReadOnly() Option {
	return func(e *Editor) {
		e.readOnly = true
	}
}
