// Package adapt implements the rolling-performance difficulty rule.
//
// After every recorded attempt the adapter inspects the two most recent
// attempts: two quick correct answers raise the level, two misses or two
// slow answers lower it. The level is always clamped to the 0–3 range.
package adapt

import (
	"github.com/abhisek/learnai/internal/learner"
)

// WindowSize is the number of trailing attempts the rule considers.
const WindowSize = 2

// HesitationThresholdSeconds separates a confident answer from a slow one.
// Strictly-less counts as fast for the increase rule; strictly-greater
// counts as slow for the decrease rule.
const HesitationThresholdSeconds = 10.0

// Next computes the difficulty that should follow the given window of
// recent attempts. The window is expected to hold WindowSize attempts;
// shorter windows leave the level unchanged.
//
// The increase check runs before the decrease check. On a 2-item window the
// two can never both fire, but the order is part of the documented behavior
// and must be preserved if the window ever grows.
func Next(recent []learner.QuizAttempt, current int) int {
	if len(recent) < WindowSize {
		return learner.ClampDifficulty(current)
	}

	allCorrectAndFast := true
	incorrect := 0
	slow := 0
	for _, a := range recent {
		if !a.Correct || a.HesitationSeconds >= HesitationThresholdSeconds {
			allCorrectAndFast = false
		}
		if !a.Correct {
			incorrect++
		}
		if a.HesitationSeconds > HesitationThresholdSeconds {
			slow++
		}
	}

	if allCorrectAndFast {
		return learner.ClampDifficulty(current + 1)
	}
	if incorrect >= 2 || slow >= 2 {
		return learner.ClampDifficulty(current - 1)
	}
	return learner.ClampDifficulty(current)
}

// Apply runs the rule against the record's trailing attempts and mutates
// its difficulty. Returns the levels before and after; they are equal when
// fewer than WindowSize attempts exist or no rule fired.
func Apply(rec *learner.Record) (before, after int) {
	before = rec.DifficultyLevel
	after = Next(rec.RecentAttempts(WindowSize), before)
	rec.DifficultyLevel = after
	return before, after
}

// ApplyRecommended overrides the rule with an advisory level from an
// external predictor, still clamped to the valid range. Returns false when
// the clamped recommendation equals the current level and nothing changed.
func ApplyRecommended(rec *learner.Record, recommended int) bool {
	clamped := learner.ClampDifficulty(recommended)
	if clamped == rec.DifficultyLevel {
		return false
	}
	rec.DifficultyLevel = clamped
	return true
}
