package engine

import (
	"context"

	"github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/progression"
)

// DiagnosticQuestion returns the shuffled presentation of the calibration
// question at index. The second return is false past the last question.
func (e *Engine) DiagnosticQuestion(index int) (diagnostic.Presentation, bool) {
	return diagnostic.Present(index)
}

// SubmitDiagnostic scores a complete calibration batch, assigns the
// learner's starting difficulty, and moves them out of the diagnostic
// sentinel into the first module.
func (e *Engine) SubmitDiagnostic(ctx context.Context, learnerID string, answers []diagnostic.Answer) (*diagnostic.Assessment, error) {
	rec, err := e.loadOrCreate(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	assessment := diagnostic.Score(answers)
	rec.SetDifficulty(assessment.Level)
	progression.EnsureStarted(rec)

	e.memory.IngestEvent(ctx, learnerID, "diagnostic_completed", map[string]any{
		"assessed_level": assessment.Level,
		"all_correct":    assessment.AllCorrect,
		"all_unsure":     assessment.AllUnsure,
		"answers":        len(answers),
	})

	if err := e.save(ctx, rec); err != nil {
		return nil, err
	}
	return &assessment, nil
}
