package engine

import (
	"context"
	"strings"

	"github.com/abhisek/learnai/internal/learner"
)

// Trend summarizes the trailing three attempts.
type Trend struct {
	Accuracy      float64
	AvgHesitation float64
}

// Adaptations is the engine's current read on how to present material.
type Adaptations struct {
	CurrentDifficulty int
	RecommendedStyle  string
	ShouldUseExamples bool
	ShouldSimplify    bool
}

// Summary is the learner's progress report.
type Summary struct {
	LearnerID             string
	CurrentModule         string
	CurrentPage           int
	CompletedModules      []string
	DifficultyLevel       int
	TotalQuestions        int
	CorrectAnswers        int
	Accuracy              float64
	PreferredStyle        string
	PendingClarifications int
	Adaptations           Adaptations
	// RecentTrend is nil until three attempts exist.
	RecentTrend *Trend
}

// Summary builds the progress report for a learner. Read-only: the
// record is not saved.
func (e *Engine) Summary(ctx context.Context, learnerID string) (*Summary, error) {
	rec, err := e.loadOrCreate(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	total := len(rec.QuizPerformance)
	correct := 0
	for _, a := range rec.QuizPerformance {
		if a.Correct {
			correct++
		}
	}

	s := &Summary{
		LearnerID:             rec.LearnerID,
		CurrentModule:         rec.CurrentModule,
		CurrentPage:           rec.CurrentPage,
		CompletedModules:      rec.CompletedModules,
		DifficultyLevel:       rec.DifficultyLevel,
		TotalQuestions:        total,
		CorrectAnswers:        correct,
		PreferredStyle:        rec.PreferredLearningStyle,
		PendingClarifications: len(rec.PendingClarifications),
		Adaptations: Adaptations{
			CurrentDifficulty: rec.DifficultyLevel,
			RecommendedStyle:  e.recommendedStyle(ctx, rec),
			ShouldUseExamples: shouldSwitchToExamples(rec),
			ShouldSimplify:    shouldSimplify(rec),
		},
	}
	if total > 0 {
		s.Accuracy = float64(correct) / float64(total)
	}

	if total >= 3 {
		recent := rec.RecentAttempts(3)
		t := &Trend{}
		for _, a := range recent {
			if a.Correct {
				t.Accuracy++
			}
			t.AvgHesitation += a.HesitationSeconds
		}
		t.Accuracy /= float64(len(recent))
		t.AvgHesitation /= float64(len(recent))
		s.RecentTrend = t
	}

	return s, nil
}

// recommendedStyle resolves the content style for the learner. An explicit
// preference wins; otherwise the struggle heuristics decide, with an
// advisory override from the memory service when one clearly names a
// style.
func (e *Engine) recommendedStyle(ctx context.Context, rec *learner.Record) string {
	if insight, ok := e.memory.Query(ctx, rec.LearnerID,
		"What learning style does this learner prefer? text, visual, or examples?"); ok {
		answer := strings.ToLower(insight.Answer)
		switch {
		case strings.Contains(answer, "visual"):
			return learner.StyleVisual
		case strings.Contains(answer, "example"):
			return learner.StyleExamples
		case strings.Contains(answer, "text"):
			return learner.StyleText
		}
	}

	if rec.PreferredLearningStyle != "" {
		return rec.PreferredLearningStyle
	}
	if shouldSwitchToExamples(rec) {
		return learner.StyleExamples
	}
	if shouldSimplify(rec) {
		return learner.StyleVisual
	}
	return learner.StyleText
}
