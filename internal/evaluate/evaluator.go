// Package evaluate judges learner answers.
//
// Two mutually exclusive modes exist per submission: selection answers
// (multiple choice) are decided by integer equality only, while free-text
// answers go through confusion detection, then an optional semantic
// evaluator, then a deterministic length/keyword heuristic.
package evaluate

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Suggested follow-up actions attached to a verdict.
const (
	ActionContinue        = "continue"
	ActionSimplify        = "simplify_and_examples"
	ActionProvideExamples = "provide_examples"
)

// Verdict is the outcome of evaluating one answer.
type Verdict struct {
	IsCorrect       bool
	IsConfused      bool
	Confidence      float64
	Reasoning       string
	SuggestedAction string
}

// SemanticEvaluator judges free-text answers with natural-language
// understanding. Implementations may be unavailable; callers fall through
// to the heuristic on any error or nil verdict.
type SemanticEvaluator interface {
	Available() bool
	Evaluate(ctx context.Context, question, answer, lessonContext string) (*Verdict, error)
}

// defaultSemanticTimeout bounds a single semantic evaluation. An
// unresponsive backend must degrade to the heuristic, never block the
// answer submission.
const defaultSemanticTimeout = 15 * time.Second

// Evaluator is the dual-path answer evaluator.
type Evaluator struct {
	semantic SemanticEvaluator
	timeout  time.Duration
	log      *zap.Logger
}

// New creates an Evaluator. semantic may be nil, in which case free-text
// evaluation is purely heuristic.
func New(semantic SemanticEvaluator, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{semantic: semantic, timeout: defaultSemanticTimeout, log: log}
}

// SetTimeout overrides the bound on a single semantic evaluation.
// Non-positive values are ignored.
func (e *Evaluator) SetTimeout(d time.Duration) {
	if d > 0 {
		e.timeout = d
	}
}

// EvaluateSelection decides a multiple-choice answer by integer equality.
// No semantic judgment happens and the verdict never carries confusion.
func (e *Evaluator) EvaluateSelection(selected, correct int) Verdict {
	if selected == correct {
		return Verdict{IsCorrect: true, Confidence: 1.0, SuggestedAction: ActionContinue}
	}
	return Verdict{Confidence: 1.0, SuggestedAction: ActionContinue}
}

// EvaluateFreeText judges a free-text answer.
//
// Confusion phrases short-circuit everything: the verdict is incorrect,
// confused, confidence zero. Otherwise the semantic evaluator is consulted
// when reachable; its confusion flag is OR-ed with the local detection so
// confusion is never downgraded. The semantic call runs under a deadline;
// on unavailability, error, or timeout the deterministic heuristic decides.
func (e *Evaluator) EvaluateFreeText(ctx context.Context, question, answer, lessonContext string) Verdict {
	trimmed := strings.TrimSpace(answer)
	lower := strings.ToLower(trimmed)

	localConfused := containsConfusionPhrase(lower)
	if localConfused {
		return Verdict{
			IsConfused:      true,
			Confidence:      0.0,
			Reasoning:       "Learner expressed confusion or frustration",
			SuggestedAction: ActionSimplify,
		}
	}

	if e.semantic != nil && e.semantic.Available() && trimmed != "" {
		sctx, cancel := context.WithTimeout(ctx, e.timeout)
		v, err := e.semantic.Evaluate(sctx, question, answer, lessonContext)
		cancel()
		if err == nil && v != nil {
			v.IsConfused = v.IsConfused || localConfused
			return *v
		}
		if err != nil {
			e.log.Debug("semantic evaluation failed, using heuristic", zap.Error(err))
		}
	}

	return heuristicVerdict(trimmed, lower)
}

// heuristicVerdict is the deterministic fallback when no semantic
// evaluator is reachable. Thresholds: under 10 characters is treated as
// confusion; correctness needs 20+ characters plus either a domain keyword
// or 50+ characters of detail.
func heuristicVerdict(trimmed, lower string) Verdict {
	length := len(trimmed)

	if length < 10 {
		return Verdict{
			IsConfused:      true,
			Confidence:      0.2,
			Reasoning:       "Answer too short, likely indicates confusion",
			SuggestedAction: ActionSimplify,
		}
	}

	hasKeyword := false
	for _, kw := range understandingKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}

	isCorrect := length >= 20 && (hasKeyword || length >= 50)

	confidence := 0.3
	if isCorrect {
		confidence = 0.5
		if length > 40 {
			confidence = 0.7
		}
	}

	reasoning := "Answer could be more detailed. Try to explain your understanding more fully."
	if isCorrect {
		reasoning = "Evaluated based on answer length and content"
	}

	return Verdict{
		IsCorrect:       isCorrect,
		IsConfused:      length < 15,
		Confidence:      confidence,
		Reasoning:       reasoning,
		SuggestedAction: ActionContinue,
	}
}

func containsConfusionPhrase(lower string) bool {
	for _, phrase := range confusionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
