// Package clarify manages the queue of remedial clarification modules
// generated when a learner answers a check question incorrectly.
package clarify

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/learnai/internal/learner"
	"go.uber.org/zap"
)

// Request carries everything needed to build one clarification.
type Request struct {
	QuestionID    string
	Question      string
	LearnerAnswer string
	CorrectAnswer string
	SourceModule  string
}

// ContentGenerator produces clarification lesson content. Implementations
// may fail or return empty content; the manager then falls back to a
// deterministic template.
type ContentGenerator interface {
	ClarificationContent(ctx context.Context, req Request) (string, error)
}

// Manager enqueues, lists, and completes pending clarifications on a
// learner record. It never blocks the main lesson flow: generation
// failures degrade to the template.
type Manager struct {
	gen ContentGenerator
	log *zap.Logger
	now func() time.Time
}

// New creates a Manager. gen may be nil, in which case every
// clarification uses the template.
func New(gen ContentGenerator, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{gen: gen, log: log, now: time.Now}
}

// Enqueue builds a clarification for an incorrect answer and appends it
// to the record's pending queue. The returned value is the enqueued entry.
func (m *Manager) Enqueue(ctx context.Context, rec *learner.Record, req Request) learner.Clarification {
	now := m.now()

	content := ""
	if m.gen != nil {
		var err error
		content, err = m.gen.ClarificationContent(ctx, req)
		if err != nil {
			m.log.Debug("clarification generation failed, using template",
				zap.String("question_id", req.QuestionID), zap.Error(err))
			content = ""
		}
	}
	if content == "" {
		content = templateContent(req)
	}

	c := learner.Clarification{
		ID:           fmt.Sprintf("clarification_%s_%d", req.QuestionID, now.Unix()),
		QuestionID:   req.QuestionID,
		Question:     req.Question,
		Content:      content,
		SourceModule: req.SourceModule,
		CreatedAt:    now,
	}
	rec.PendingClarifications = append(rec.PendingClarifications, c)
	return c
}

// Next returns the oldest pending clarification, FIFO.
func Next(rec *learner.Record) (learner.Clarification, bool) {
	if len(rec.PendingClarifications) == 0 {
		return learner.Clarification{}, false
	}
	return rec.PendingClarifications[0], true
}

// Pending returns the queue in arrival order.
func Pending(rec *learner.Record) []learner.Clarification {
	return rec.PendingClarifications
}

// Complete removes the clarification with the given id. It reports
// whether an entry was removed; completing the same id twice returns
// false the second time.
func Complete(rec *learner.Record, id string) bool {
	for i, c := range rec.PendingClarifications {
		if c.ID == id {
			rec.PendingClarifications = append(
				rec.PendingClarifications[:i], rec.PendingClarifications[i+1:]...)
			return true
		}
	}
	return false
}

// templateContent is the deterministic fallback shown when no generator
// is reachable. It names the learner's answer and the correct one so the
// clarification is still actionable.
func templateContent(req Request) string {
	return fmt.Sprintf(`## Clarification: Understanding %s

You answered: **%s**

The correct answer is: **%s**

### Why this is important:

This concept is fundamental to understanding %s. Review the difference between your answer and the correct one.

### Key Concept:

%s is the correct answer because it accurately represents the concept being tested.

### Moving Forward:

Once you understand this clarification, you can continue with the main lesson.`,
		req.QuestionID, req.LearnerAnswer, req.CorrectAnswer, req.SourceModule, req.CorrectAnswer)
}
