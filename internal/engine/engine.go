// Package engine is the session orchestrator: it owns no learner state of
// its own, loading the record at the start of each operation, delegating
// to the domain packages, and saving the mutated record before returning.
// Learners are fully independent; there is no cross-learner state.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/learnai/internal/assets"
	"github.com/abhisek/learnai/internal/clarify"
	"github.com/abhisek/learnai/internal/content"
	"github.com/abhisek/learnai/internal/evaluate"
	"github.com/abhisek/learnai/internal/learner"
	"github.com/abhisek/learnai/internal/memory"
	"github.com/abhisek/learnai/internal/reasoning"
	"go.uber.org/zap"
)

// Engine coordinates one learning session operation at a time.
type Engine struct {
	store     learner.Store
	library   *content.Library
	runner    *reasoning.Runner
	evaluator *evaluate.Evaluator
	clarifier *clarify.Manager
	memory    memory.Client
	assets    assets.Client
	log       *zap.Logger
}

// Options configures an Engine. Store is required; everything else has a
// working default (nop clients, fallback-only reasoning).
type Options struct {
	Store     learner.Store
	Library   *content.Library
	Runner    *reasoning.Runner
	Evaluator *evaluate.Evaluator
	Clarifier *clarify.Manager
	Memory    memory.Client
	Assets    assets.Client
	Logger    *zap.Logger
}

// New creates an Engine from opts, filling in defaults.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("engine: store is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Library == nil {
		opts.Library = content.NewLibrary(content.DefaultDir())
	}
	if opts.Runner == nil {
		opts.Runner = reasoning.NewRunner(nil, log)
	}
	if opts.Evaluator == nil {
		opts.Evaluator = evaluate.New(nil, log)
	}
	if opts.Clarifier == nil {
		opts.Clarifier = clarify.New(opts.Runner, log)
	}
	if opts.Memory == nil {
		opts.Memory = memory.Nop{}
	}
	if opts.Assets == nil {
		opts.Assets = assets.Nop{}
	}

	return &Engine{
		store:     opts.Store,
		library:   opts.Library,
		runner:    opts.Runner,
		evaluator: opts.Evaluator,
		clarifier: opts.Clarifier,
		memory:    opts.Memory,
		assets:    opts.Assets,
		log:       log,
	}, nil
}

// loadOrCreate fetches the learner's record, initializing a fresh one for
// a learner seen for the first time.
func (e *Engine) loadOrCreate(ctx context.Context, learnerID string) (*learner.Record, error) {
	if learnerID == "" {
		return nil, errors.New("engine: learner id is required")
	}

	rec, err := e.store.Load(ctx, learnerID)
	if errors.Is(err, learner.ErrNotFound) {
		rec = learner.NewRecord(learnerID)
		e.memory.Register(ctx, learnerID, nil)
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load learner %s: %w", learnerID, err)
	}
	return rec, nil
}

// save persists the record; every mutating operation ends here.
func (e *Engine) save(ctx context.Context, rec *learner.Record) error {
	if err := e.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("save learner %s: %w", rec.LearnerID, err)
	}
	return nil
}

// Reset reinitializes the learner's record in place. Resetting a learner
// that has no record yet is a no-op that leaves a fresh record behind.
func (e *Engine) Reset(ctx context.Context, learnerID string) error {
	rec, err := e.loadOrCreate(ctx, learnerID)
	if err != nil {
		return err
	}
	rec.Reset()
	return e.save(ctx, rec)
}
