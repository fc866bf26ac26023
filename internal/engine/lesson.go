package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/learnai/internal/clarify"
	"github.com/abhisek/learnai/internal/learner"
	"github.com/abhisek/learnai/internal/progression"
	"github.com/abhisek/learnai/internal/reasoning"
)

// lessonEventWindow is how long a lesson view suppresses a repeat event
// for the same module and page.
const lessonEventWindow = 5 * time.Minute

// courseCompleteContent is shown after the capstone.
const courseCompleteContent = "## Course Complete\n\n" +
	"You have finished every module and built your own agent. " +
	"Use the progress command to review how far you have come."

// LessonQuestion is a check question as served to the learner, carrying
// the stable question id used for answer deduplication.
type LessonQuestion struct {
	ID            string
	Question      string
	Options       []string
	CorrectOption int
	OpenEnded     bool
}

// Lesson is the payload for one lesson view: content, pagination,
// at most one check question, and advisory extras.
type Lesson struct {
	Module          string
	Content         string
	Difficulty      int
	CurrentPage     int
	TotalPages      int
	IsPaginated     bool
	CheckQuestions  []LessonQuestion
	NextModule      string
	LearningStyle   string
	ImageURL        string
	IsClarification bool
	ClarificationID string
	QuestionID      string
	SourceModule    string
	// PersonalizationNote carries an advisory insight from the memory
	// service, empty when the service is unavailable.
	PersonalizationNote string
}

// NextLesson assembles the lesson for the learner's current position.
//
// With skipClarifications false, a pending clarification is served before
// any regular lesson, one difficulty level easier than the learner's
// current level. Otherwise the current module page is loaded, the lesson
// plan is drawn from the reasoning runner (falling back deterministically),
// and at most one unanswered check question is attached.
func (e *Engine) NextLesson(ctx context.Context, learnerID string, skipClarifications bool) (*Lesson, error) {
	rec, err := e.loadOrCreate(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	if !skipClarifications {
		if c, ok := clarify.Next(rec); ok {
			return &Lesson{
				Module:          "clarification",
				Content:         c.Content,
				Difficulty:      learner.ClampDifficulty(rec.DifficultyLevel - 1),
				CurrentPage:     0,
				TotalPages:      1,
				IsClarification: true,
				ClarificationID: c.ID,
				QuestionID:      c.QuestionID,
				SourceModule:    c.SourceModule,
			}, nil
		}
	}

	progression.EnsureStarted(rec)

	if rec.CurrentModule == learner.ModuleCapstoneCompleted {
		return &Lesson{
			Module:        rec.CurrentModule,
			Content:       courseCompleteContent,
			Difficulty:    rec.DifficultyLevel,
			TotalPages:    1,
			NextModule:    rec.CurrentModule,
			LearningStyle: rec.PreferredLearningStyle,
		}, nil
	}

	plan := e.runner.Lesson(ctx, reasoning.LessonInputs{
		Module:            rec.CurrentModule,
		Difficulty:        rec.DifficultyLevel,
		LearningStyle:     rec.PreferredLearningStyle,
		RecentPerformance: recentResults(rec, 5),
	})

	totalPages := e.library.PageCount(rec.CurrentModule)
	if rec.CurrentPage >= totalPages {
		rec.CurrentPage = totalPages - 1
	}

	text, err := e.library.Load(rec.CurrentModule, rec.CurrentPage)
	if err != nil {
		return nil, fmt.Errorf("load lesson content: %w", err)
	}

	lesson := &Lesson{
		Module:         rec.CurrentModule,
		Content:        text,
		Difficulty:     rec.DifficultyLevel,
		CurrentPage:    rec.CurrentPage,
		TotalPages:     totalPages,
		IsPaginated:    totalPages > 1,
		CheckQuestions: e.questionsForPage(rec, plan),
		NextModule:     plan.NextModule,
		LearningStyle:  plan.SuggestedStyle,
	}

	if url, ok := e.assets.ImageForConcept(ctx, plan.ImageSearch); ok {
		lesson.ImageURL = url
	}

	if insight, ok := e.memory.Query(ctx, learnerID,
		"What topics does this learner struggle with?"); ok && insight.Answer != "" {
		lesson.PersonalizationNote = insight.Answer
	}

	e.logLessonView(ctx, rec, lesson)

	if err := e.save(ctx, rec); err != nil {
		return nil, err
	}
	return lesson, nil
}

// questionsForPage filters the plan's check questions down to at most one
// unanswered question for the current page. The fundamentals module pins
// questions to pages 1 through 3; other modules serve the first question
// the learner has not answered yet.
func (e *Engine) questionsForPage(rec *learner.Record, plan *reasoning.LessonPlan) []LessonQuestion {
	qs := plan.CheckQuestions
	if len(qs) == 0 {
		return nil
	}

	pick := -1
	if rec.CurrentModule == progression.Sequence[0] {
		idx, ok := fundamentalsPageQuestion(rec.CurrentPage, len(qs))
		if !ok {
			return nil
		}
		if !rec.HasAnswered(questionID(rec.CurrentModule, qs[idx].GlobalIndex)) {
			pick = idx
		}
	} else {
		for i := range qs {
			if !rec.HasAnswered(questionID(rec.CurrentModule, qs[i].GlobalIndex)) {
				pick = i
				break
			}
		}
	}
	if pick < 0 {
		return nil
	}

	q := qs[pick]
	return []LessonQuestion{{
		ID:            questionID(rec.CurrentModule, q.GlobalIndex),
		Question:      q.Question,
		Options:       q.Options,
		CorrectOption: q.CorrectOption,
		OpenEnded:     q.OpenEnded(),
	}}
}

// fundamentalsPageQuestion maps a fundamentals page to its question index.
// Page 0 (intro) and pages past 3 carry no question; shorter question
// lists reuse the last available question.
func fundamentalsPageQuestion(page, n int) (int, bool) {
	if n == 0 {
		return 0, false
	}
	switch page {
	case 1:
		return 0, true
	case 2:
		return min(1, n-1), true
	case 3:
		return min(2, n-1), true
	}
	return 0, false
}

func questionID(module string, index int) string {
	return fmt.Sprintf("%s_q%d", module, index)
}

// logLessonView records a lesson view event unless the same module and
// page was logged within the dedup window.
func (e *Engine) logLessonView(ctx context.Context, rec *learner.Record, lesson *Lesson) {
	now := time.Now()
	last := rec.LastLoggedLesson
	if last != nil &&
		last.Module == lesson.Module &&
		last.Page == lesson.CurrentPage &&
		now.Sub(last.Timestamp) <= lessonEventWindow {
		return
	}

	e.memory.IngestEvent(ctx, rec.LearnerID, "lesson_viewed", map[string]any{
		"module":           lesson.Module,
		"page":             lesson.CurrentPage,
		"difficulty_level": lesson.Difficulty,
		"learning_style":   lesson.LearningStyle,
	})
	rec.LastLoggedLesson = &learner.LessonView{
		Module:    lesson.Module,
		Page:      lesson.CurrentPage,
		Timestamp: now,
	}
}

// recentResults returns the correctness of the trailing n attempts.
func recentResults(rec *learner.Record, n int) []bool {
	attempts := rec.RecentAttempts(n)
	out := make([]bool, len(attempts))
	for i, a := range attempts {
		out[i] = a.Correct
	}
	return out
}
