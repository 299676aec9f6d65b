package transform

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cameronsjo/stackform/internal/document"
)

const (
	// PlaceholderType marks a resource as a transform placeholder.
	PlaceholderType = "Stack::Transform"

	// StrategyMerge splices the fragment into the parent template.
	StrategyMerge = "merge"

	// DefaultMaxDepth bounds how many rounds of nested placeholders a
	// single Transform call expands.
	DefaultMaxDepth = 8
)

// Engine expands transform placeholders in templates.
type Engine struct {
	locator  Locator
	renderer Renderer
	logger   *slog.Logger
	maxDepth int
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for stage transitions and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxDepth sets the nested transform limit.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// New creates an Engine that loads fragments through locator and renderer.
func New(locator Locator, renderer Renderer, opts ...Option) *Engine {
	e := &Engine{
		locator:  locator,
		renderer: renderer,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Transform expands every placeholder in doc and returns the merged
// template projected onto the recognized sections. doc itself is never
// modified; on error nothing is returned.
func (e *Engine) Transform(ctx context.Context, doc map[string]any) (map[string]any, error) {
	r := &run{
		engine: e,
		doc:    document.Clone(doc),
		logger: e.logger.With("run", uuid.NewString()),
	}

	for depth := 0; ; depth++ {
		fragments, err := r.discover(ctx)
		if err != nil {
			return nil, err
		}
		if len(fragments) == 0 {
			break
		}
		if depth >= e.maxDepth {
			return nil, fmt.Errorf("%w: placeholders remain after %d rounds", ErrNestingTooDeep, e.maxDepth)
		}

		r.logger.Debug("expanding transforms", "round", depth+1, "count", len(fragments))
		if err := r.expand(fragments); err != nil {
			return nil, err
		}
	}

	return document.Assemble(r.doc), nil
}

// run holds the working copy of one Transform call.
type run struct {
	engine *Engine
	doc    map[string]any
	logger *slog.Logger
}

// expand runs the three stages stage-major: every fragment finishes a stage
// before any fragment starts the next.
func (r *run) expand(fragments []*fragment) error {
	r.logger.Debug("renaming output references")
	for _, f := range fragments {
		r.renameOutputReferences(f)
	}

	r.logger.Debug("preparing fragments")
	for _, f := range fragments {
		if err := r.prepare(f); err != nil {
			return err
		}
	}

	r.logger.Debug("merging fragments")
	for i, f := range fragments {
		if err := r.merge(f, fragments[i+1:]); err != nil {
			return err
		}
	}
	return nil
}
