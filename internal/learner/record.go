package learner

import (
	"time"
)

// Difficulty bounds. Levels run from 0 (beginner) to 3 (expert).
const (
	MinDifficulty = 0
	MaxDifficulty = 3
)

// DefaultDifficulty is the level assigned before any diagnostic has run.
const DefaultDifficulty = 1

// Learning style values for Record.PreferredLearningStyle.
const (
	StyleText     = "text"
	StyleVisual   = "visual"
	StyleExamples = "examples"
)

// ModuleDiagnostic is the initial module every new learner starts in.
const ModuleDiagnostic = "diagnostic"

// ModuleCapstoneCompleted is the terminal module, reached only through the
// capstone flow.
const ModuleCapstoneCompleted = "capstone_completed"

// QuizAttempt is a single recorded answer. Attempts are owned exclusively
// by the learner record and are never shared between records.
type QuizAttempt struct {
	QuestionID        string    `json:"question_id"`
	Correct           bool      `json:"correct"`
	HesitationSeconds float64   `json:"hesitation_seconds"`
	DifficultyLevel   int       `json:"difficulty_level"`
	Timestamp         time.Time `json:"timestamp"`
}

// Clarification is a remediation unit queued after an incorrect answer.
// It stays in the pending list until completed by id.
type Clarification struct {
	ID           string    `json:"id"`
	QuestionID   string    `json:"question_id"`
	Question     string    `json:"question"`
	Content      string    `json:"content"`
	SourceModule string    `json:"source_module"`
	CreatedAt    time.Time `json:"created_at"`
}

// LessonView remembers the last lesson event that was recorded, used to
// deduplicate repeated views of the same page.
type LessonView struct {
	Module    string    `json:"module"`
	Page      int       `json:"page"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is the durable per-learner state. One record exists per learner id.
//
// QuizPerformance and HesitationHistory are append-only and parallel: every
// recorded attempt appends to both, and neither is ever reordered or
// truncated. DifficultyLevel on an attempt is the level in effect when the
// attempt was made, never edited retroactively.
type Record struct {
	LearnerID              string          `json:"learner_id"`
	CurrentModule          string          `json:"current_module"`
	CurrentPage            int             `json:"current_page"`
	DifficultyLevel        int             `json:"difficulty_level"`
	CompletedModules       []string        `json:"completed_modules"`
	QuizPerformance        []QuizAttempt   `json:"quiz_performance"`
	HesitationHistory      []float64       `json:"hesitation_history"`
	PreferredLearningStyle string          `json:"preferred_learning_style,omitempty"`
	PendingClarifications  []Clarification `json:"pending_clarifications"`
	LastLoggedLesson       *LessonView     `json:"last_logged_lesson,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	LastActive             time.Time       `json:"last_active"`
}

// NewRecord creates a fresh record for a learner who has not been seen before.
func NewRecord(learnerID string) *Record {
	now := time.Now()
	return &Record{
		LearnerID:             learnerID,
		CurrentModule:         ModuleDiagnostic,
		CurrentPage:           0,
		DifficultyLevel:       DefaultDifficulty,
		CompletedModules:      []string{},
		QuizPerformance:       []QuizAttempt{},
		HesitationHistory:     []float64{},
		PendingClarifications: []Clarification{},
		CreatedAt:             now,
		LastActive:            now,
	}
}

// Reset reinitializes the record in place, keeping the learner id and
// original creation time semantics of a brand new record.
func (r *Record) Reset() {
	fresh := NewRecord(r.LearnerID)
	*r = *fresh
}

// ClampDifficulty forces a level into the valid 0–3 range.
func ClampDifficulty(level int) int {
	if level < MinDifficulty {
		return MinDifficulty
	}
	if level > MaxDifficulty {
		return MaxDifficulty
	}
	return level
}

// SetDifficulty assigns a new difficulty level, clamped to the valid range.
func (r *Record) SetDifficulty(level int) {
	r.DifficultyLevel = ClampDifficulty(level)
}

// RecordAttempt appends an attempt to the performance log and its hesitation
// to the parallel history. The attempt's difficulty is stamped with the
// level in effect right now.
func (r *Record) RecordAttempt(questionID string, correct bool, hesitationSeconds float64, now time.Time) QuizAttempt {
	attempt := QuizAttempt{
		QuestionID:        questionID,
		Correct:           correct,
		HesitationSeconds: hesitationSeconds,
		DifficultyLevel:   r.DifficultyLevel,
		Timestamp:         now,
	}
	r.QuizPerformance = append(r.QuizPerformance, attempt)
	r.HesitationHistory = append(r.HesitationHistory, hesitationSeconds)
	return attempt
}

// HasAnswered reports whether an attempt for the question id already exists.
func (r *Record) HasAnswered(questionID string) bool {
	for _, a := range r.QuizPerformance {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}

// MarkCompleted appends a module to the completed list unless it is already
// present. Membership is checked so repeat advances never duplicate entries.
func (r *Record) MarkCompleted(module string) {
	for _, m := range r.CompletedModules {
		if m == module {
			return
		}
	}
	r.CompletedModules = append(r.CompletedModules, module)
}

// SetLearningStyle sets the preferred style if it is one of the known values.
// Unknown values are ignored rather than rejected.
func (r *Record) SetLearningStyle(style string) {
	switch style {
	case StyleText, StyleVisual, StyleExamples:
		r.PreferredLearningStyle = style
	}
}

// RecentAttempts returns the trailing n attempts (fewer if the log is shorter).
func (r *Record) RecentAttempts(n int) []QuizAttempt {
	if len(r.QuizPerformance) <= n {
		return r.QuizPerformance
	}
	return r.QuizPerformance[len(r.QuizPerformance)-n:]
}
