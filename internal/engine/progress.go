package engine

import (
	"context"
	"strings"

	"github.com/abhisek/learnai/internal/clarify"
	"github.com/abhisek/learnai/internal/learner"
	"github.com/abhisek/learnai/internal/progression"
	"github.com/abhisek/learnai/internal/reasoning"
)

// AdvancePage moves the learner to the next page, or the next module when
// the current page is the last. A refused advance (gated or terminal)
// leaves the record untouched.
func (e *Engine) AdvancePage(ctx context.Context, learnerID string) (progression.Result, error) {
	rec, err := e.loadOrCreate(ctx, learnerID)
	if err != nil {
		return progression.Result{}, err
	}

	before := rec.CurrentModule
	result := progression.AdvancePage(rec, e.library)
	if result.Advanced && rec.CurrentModule != before {
		e.memory.IngestEvent(ctx, learnerID, "module_completed", map[string]any{
			"module": before,
			"next":   rec.CurrentModule,
		})
	}

	if err := e.save(ctx, rec); err != nil {
		return progression.Result{}, err
	}
	return result, nil
}

// AdvanceModule skips the rest of the current module and moves to the
// next one in the sequence.
func (e *Engine) AdvanceModule(ctx context.Context, learnerID string) (progression.Result, error) {
	rec, err := e.loadOrCreate(ctx, learnerID)
	if err != nil {
		return progression.Result{}, err
	}

	before := rec.CurrentModule
	result := progression.AdvanceModule(rec)
	if result.Advanced {
		e.memory.IngestEvent(ctx, learnerID, "module_completed", map[string]any{
			"module": before,
			"next":   rec.CurrentModule,
		})
	}

	if err := e.save(ctx, rec); err != nil {
		return progression.Result{}, err
	}
	return result, nil
}

// PendingClarifications lists the learner's clarification queue in
// arrival order.
func (e *Engine) PendingClarifications(ctx context.Context, learnerID string) ([]learner.Clarification, error) {
	rec, err := e.loadOrCreate(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	return clarify.Pending(rec), nil
}

// CompleteClarification removes a clarification by id. Completing an id
// that is not in the queue reports false without touching state.
func (e *Engine) CompleteClarification(ctx context.Context, learnerID, clarificationID string) (bool, error) {
	rec, err := e.loadOrCreate(ctx, learnerID)
	if err != nil {
		return false, err
	}

	if !clarify.Complete(rec, clarificationID) {
		return false, nil
	}
	if err := e.save(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

// RunCapstone generates the learner's final todo-agent project and moves
// the record to the terminal state. The project brief is enriched with
// the learner's memory profile when the service is reachable.
func (e *Engine) RunCapstone(ctx context.Context, learnerID, taskDescription string) (*reasoning.CapstoneResult, error) {
	rec, err := e.loadOrCreate(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	brief := taskDescription
	if memories := e.memory.Retrieve(ctx, learnerID,
		"What are this learner's preferences and strengths?", 3); len(memories) > 0 {
		notes := make([]string, 0, 2)
		for _, m := range memories {
			if m.Text != "" {
				notes = append(notes, m.Text)
			}
			if len(notes) == 2 {
				break
			}
		}
		if len(notes) > 0 {
			brief += "\nLearner profile: " + strings.Join(notes, ", ")
		}
	}

	e.memory.IngestEvent(ctx, learnerID, "capstone_request", map[string]any{
		"task_description":  taskDescription,
		"completed_modules": rec.CompletedModules,
	})

	result := e.runner.Capstone(ctx, brief)

	progression.CompleteCapstone(rec)
	if err := e.save(ctx, rec); err != nil {
		return nil, err
	}
	return result, nil
}
