package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/abhisek/learnai/internal/adapt"
	"github.com/abhisek/learnai/internal/clarify"
	"github.com/abhisek/learnai/internal/evaluate"
	"github.com/abhisek/learnai/internal/learner"
	"go.uber.org/zap"
)

// AnswerSubmission is one answer to a check question.
//
// Selection answers set IsSelection and the option indices; free-text
// answers leave IsSelection false and fill Answer. InClarification marks
// answers given inside a clarification lesson, which never spawn further
// clarifications.
type AnswerSubmission struct {
	QuestionID        string
	Question          string
	Answer            string
	CorrectAnswer     string
	SelectedOption    int
	CorrectOption     int
	IsSelection       bool
	InClarification   bool
	HesitationSeconds float64
}

// AnswerFeedback is the outcome of a submission: the verdict, the
// difficulty transition, and the adaptation signals for the caller's UI.
type AnswerFeedback struct {
	Correct                bool
	Confused               bool
	Confidence             float64
	Reasoning              string
	SuggestedAction        string
	PreviousDifficulty     int
	NewDifficulty          int
	Duplicate              bool
	ClarificationQueued    bool
	ShouldSwitchToExamples bool
	ShouldSimplify         bool
}

// SubmitAnswer evaluates one answer and folds the outcome into the
// learner's record.
//
// A question id that was already answered is not re-recorded and does not
// move the difficulty rule, but a confused verdict still applies its side
// effects (one level easier, examples-first style). On a newly recorded
// attempt the memory service's difficulty prediction is consulted first;
// a confident prediction takes precedence over the sliding-window rule.
// Incorrect free-text answers outside a clarification queue a new
// clarification.
func (e *Engine) SubmitAnswer(ctx context.Context, learnerID string, sub AnswerSubmission) (*AnswerFeedback, error) {
	rec, err := e.loadOrCreate(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	verdict := e.evaluateSubmission(ctx, rec, sub)
	duplicate := rec.HasAnswered(sub.QuestionID)
	previous := rec.DifficultyLevel

	if !duplicate {
		rec.RecordAttempt(sub.QuestionID, verdict.IsCorrect, sub.HesitationSeconds, time.Now())
		if !e.applyPredictedDifficulty(ctx, rec) {
			adapt.Apply(rec)
		}
	}

	// Confusion adapts immediately, even on a duplicate submission.
	if verdict.IsConfused {
		if rec.DifficultyLevel > learner.MinDifficulty {
			rec.SetDifficulty(rec.DifficultyLevel - 1)
		}
		rec.SetLearningStyle(learner.StyleExamples)
	}

	queued := false
	if !verdict.IsCorrect && !sub.IsSelection && !sub.InClarification && !duplicate {
		question := sub.Question
		if question == "" {
			question = sub.QuestionID
		}
		e.clarifier.Enqueue(ctx, rec, clarify.Request{
			QuestionID:    sub.QuestionID,
			Question:      question,
			LearnerAnswer: sub.Answer,
			CorrectAnswer: sub.CorrectAnswer,
			SourceModule:  rec.CurrentModule,
		})
		queued = true
	}

	if !duplicate {
		e.memory.IngestEvent(ctx, learnerID, "quiz_attempt", map[string]any{
			"question_id":        sub.QuestionID,
			"correct":            verdict.IsCorrect,
			"confused":           verdict.IsConfused,
			"hesitation_seconds": sub.HesitationSeconds,
			"difficulty_level":   rec.DifficultyLevel,
		})
	}

	if err := e.save(ctx, rec); err != nil {
		return nil, err
	}

	return &AnswerFeedback{
		Correct:                verdict.IsCorrect,
		Confused:               verdict.IsConfused,
		Confidence:             verdict.Confidence,
		Reasoning:              verdict.Reasoning,
		SuggestedAction:        verdict.SuggestedAction,
		PreviousDifficulty:     previous,
		NewDifficulty:          rec.DifficultyLevel,
		Duplicate:              duplicate,
		ClarificationQueued:    queued,
		ShouldSwitchToExamples: shouldSwitchToExamples(rec) || verdict.IsConfused,
		ShouldSimplify:         shouldSimplify(rec) || verdict.IsConfused,
	}, nil
}

// predictionConfidenceFloor is the minimum confidence at which a memory
// service difficulty prediction overrides the sliding-window rule.
const predictionConfidenceFloor = 0.7

// applyPredictedDifficulty consults the memory service for a difficulty
// prediction after an attempt is recorded. It reports whether a confident
// prediction decided the level, in which case the sliding-window rule is
// skipped for this attempt.
func (e *Engine) applyPredictedDifficulty(ctx context.Context, rec *learner.Record) bool {
	pred, ok := e.memory.Predict(ctx, rec.LearnerID, map[string]any{
		"decision":   "difficulty_level",
		"module":     rec.CurrentModule,
		"difficulty": rec.DifficultyLevel,
	})
	if !ok || pred.Confidence < predictionConfidenceFloor {
		return false
	}
	level, err := strconv.Atoi(pred.Decision)
	if err != nil {
		return false
	}
	if adapt.ApplyRecommended(rec, level) {
		e.log.Debug("applied predicted difficulty",
			zap.String("learner", rec.LearnerID), zap.Int("level", rec.DifficultyLevel))
	}
	return true
}

// evaluateSubmission picks the evaluation mode. Selection answers never
// reach the semantic path; free-text answers get the current lesson text
// as context when it loads cleanly.
func (e *Engine) evaluateSubmission(ctx context.Context, rec *learner.Record, sub AnswerSubmission) evaluate.Verdict {
	if sub.IsSelection {
		return e.evaluator.EvaluateSelection(sub.SelectedOption, sub.CorrectOption)
	}

	lessonContext := ""
	if text, err := e.library.Load(rec.CurrentModule, rec.CurrentPage); err == nil {
		lessonContext = text
	}

	question := sub.Question
	if question == "" {
		question = sub.QuestionID
	}
	return e.evaluator.EvaluateFreeText(ctx, question, sub.Answer, lessonContext)
}

// shouldSwitchToExamples fires when both of the last two attempts were
// incorrect.
func shouldSwitchToExamples(rec *learner.Record) bool {
	recent := rec.RecentAttempts(2)
	if len(recent) < 2 {
		return false
	}
	incorrect := 0
	for _, a := range recent {
		if !a.Correct {
			incorrect++
		}
	}
	return incorrect >= 2
}

// shouldSimplify fires when both of the last two hesitations exceeded the
// adapter's threshold.
func shouldSimplify(rec *learner.Record) bool {
	n := len(rec.HesitationHistory)
	if n < 2 {
		return false
	}
	for _, h := range rec.HesitationHistory[n-2:] {
		if h <= adapt.HesitationThresholdSeconds {
			return false
		}
	}
	return true
}
