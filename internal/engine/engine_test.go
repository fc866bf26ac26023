package engine

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/abhisek/learnai/internal/content"
	"github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/evaluate"
	"github.com/abhisek/learnai/internal/learner"
	"github.com/abhisek/learnai/internal/memory"
)

// spyMemory records every call and serves canned insights, standing in for
// the external personalization service.
type spyMemory struct {
	registered []string
	events     []spyEvent
	insight    *memory.Insight
	memories   []memory.Memory
	prediction *memory.Prediction
}

type spyEvent struct {
	learnerID string
	eventType string
	content   map[string]any
}

func (s *spyMemory) Available() bool { return true }

func (s *spyMemory) Register(_ context.Context, learnerID string, _ map[string]string) bool {
	s.registered = append(s.registered, learnerID)
	return true
}

func (s *spyMemory) IngestEvent(_ context.Context, learnerID, eventType string, content map[string]any) bool {
	s.events = append(s.events, spyEvent{learnerID, eventType, content})
	return true
}

func (s *spyMemory) Query(_ context.Context, _, _ string) (*memory.Insight, bool) {
	if s.insight == nil {
		return nil, false
	}
	return s.insight, true
}

func (s *spyMemory) Retrieve(_ context.Context, _, _ string, _ int) []memory.Memory {
	return s.memories
}

func (s *spyMemory) Predict(_ context.Context, _ string, _ map[string]any) (*memory.Prediction, bool) {
	if s.prediction == nil {
		return nil, false
	}
	return s.prediction, true
}

func (s *spyMemory) eventsOfType(eventType string) []spyEvent {
	var out []spyEvent
	for _, ev := range s.events {
		if ev.eventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func newTestEngine(t *testing.T, mem memory.Client) *Engine {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"fundamentals_page1.md": "# Fundamentals intro",
		"fundamentals_page2.md": "# Patterns from examples",
		"fundamentals_page3.md": "# What an LLM is",
		"fundamentals_page4.md": "# Fundamentals recap",
		"transformers_llms.md":  "# Transformers",
		"agents.md":             "# Agents",
		"build_todo_agent.md":   "# Capstone",
	}
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	eng, err := New(Options{
		Store:   learner.NewMemoryStore(),
		Library: content.NewLibrary(dir),
		Memory:  mem,
	})
	if err != nil {
		t.Fatal(err)
	}
	return eng
}

// allCorrectBatch answers every calibration question correctly.
func allCorrectBatch(t *testing.T) []diagnostic.Answer {
	t.Helper()
	answers := make([]diagnostic.Answer, 0, diagnostic.QuestionCount)
	for i := range diagnostic.QuestionCount {
		p, ok := diagnostic.Present(i)
		if !ok {
			t.Fatalf("no presentation for question %d", i)
		}
		answers = append(answers, diagnostic.Answer{
			QuestionIndex:  i,
			SelectedOption: p.CorrectOption,
			CorrectOption:  p.CorrectOption,
		})
	}
	return answers
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error without a store")
	}
}

func TestDiagnosticAssignsLevelAndStartsCourse(t *testing.T) {
	mem := &spyMemory{}
	eng := newTestEngine(t, mem)
	ctx := t.Context()

	assessment, err := eng.SubmitDiagnostic(ctx, "a", allCorrectBatch(t))
	if err != nil {
		t.Fatal(err)
	}
	if assessment.Level != 3 || !assessment.AllCorrect {
		t.Errorf("assessment = %+v, want level 3 all-correct", assessment)
	}

	s, err := eng.Summary(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if s.CurrentModule != "fundamentals" {
		t.Errorf("module = %q, want fundamentals", s.CurrentModule)
	}
	if s.DifficultyLevel != 3 {
		t.Errorf("difficulty = %d, want 3", s.DifficultyLevel)
	}

	if len(mem.registered) != 1 || mem.registered[0] != "a" {
		t.Errorf("registered = %v, want [a]", mem.registered)
	}
	if got := mem.eventsOfType("diagnostic_completed"); len(got) != 1 {
		t.Errorf("diagnostic_completed events = %d, want 1", len(got))
	}
}

func TestNextLessonServesCurrentPage(t *testing.T) {
	eng := newTestEngine(t, &spyMemory{})
	ctx := t.Context()

	lesson, err := eng.NextLesson(ctx, "a", false)
	if err != nil {
		t.Fatal(err)
	}
	if lesson.Module != "fundamentals" || lesson.CurrentPage != 0 {
		t.Errorf("lesson at %s page %d, want fundamentals page 0", lesson.Module, lesson.CurrentPage)
	}
	if lesson.TotalPages != 4 || !lesson.IsPaginated {
		t.Errorf("pagination = %d/%v", lesson.TotalPages, lesson.IsPaginated)
	}
	if !strings.Contains(lesson.Content, "Fundamentals intro") {
		t.Errorf("content = %q", lesson.Content)
	}
	// The intro page carries no check question.
	if len(lesson.CheckQuestions) != 0 {
		t.Errorf("intro page has %d questions, want 0", len(lesson.CheckQuestions))
	}
}

func TestFundamentalsQuestionsPinnedToPages(t *testing.T) {
	eng := newTestEngine(t, &spyMemory{})
	ctx := t.Context()

	if _, err := eng.NextLesson(ctx, "a", false); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AdvancePage(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	lesson, err := eng.NextLesson(ctx, "a", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(lesson.CheckQuestions) != 1 {
		t.Fatalf("page 1 questions = %d, want 1", len(lesson.CheckQuestions))
	}
	q := lesson.CheckQuestions[0]
	if q.ID != "fundamentals_q0" {
		t.Errorf("question id = %q, want fundamentals_q0", q.ID)
	}
	if q.OpenEnded {
		t.Error("first fundamentals question should be multiple choice")
	}

	// Answering it removes it from subsequent views of the same page.
	_, err = eng.SubmitAnswer(ctx, "a", AnswerSubmission{
		QuestionID:     q.ID,
		IsSelection:    true,
		SelectedOption: q.CorrectOption,
		CorrectOption:  q.CorrectOption,
	})
	if err != nil {
		t.Fatal(err)
	}
	lesson, err = eng.NextLesson(ctx, "a", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(lesson.CheckQuestions) != 0 {
		t.Errorf("answered question served again: %+v", lesson.CheckQuestions)
	}
}

func TestSubmitAnswerDuplicateDoesNotReRecord(t *testing.T) {
	eng := newTestEngine(t, &spyMemory{})
	ctx := t.Context()

	sub := AnswerSubmission{
		QuestionID:        "fundamentals_q0",
		IsSelection:       true,
		SelectedOption:    1,
		CorrectOption:     1,
		HesitationSeconds: 2,
	}

	first, err := eng.SubmitAnswer(ctx, "a", sub)
	if err != nil {
		t.Fatal(err)
	}
	if first.Duplicate || !first.Correct {
		t.Errorf("first feedback = %+v", first)
	}

	second, err := eng.SubmitAnswer(ctx, "a", sub)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Duplicate {
		t.Error("repeat submission not flagged as duplicate")
	}

	s, err := eng.Summary(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalQuestions != 1 {
		t.Errorf("attempts recorded = %d, want 1", s.TotalQuestions)
	}
}

func TestConfusedAnswerAdaptsEvenOnDuplicate(t *testing.T) {
	mem := &spyMemory{}
	eng := newTestEngine(t, mem)
	ctx := t.Context()

	// Start at level 2 so there is room to drop twice.
	batch := allCorrectBatch(t)
	batch[0].SelectedOption = (batch[0].CorrectOption + 1) % 4
	batch[1].SelectedOption = (batch[1].CorrectOption + 1) % 4
	if _, err := eng.SubmitDiagnostic(ctx, "a", batch); err != nil {
		t.Fatal(err)
	}
	s, _ := eng.Summary(ctx, "a")
	start := s.DifficultyLevel

	sub := AnswerSubmission{
		QuestionID:      "fundamentals_q1",
		Question:        "What is a token?",
		Answer:          "I don't understand any of this",
		InClarification: true,
	}

	fb, err := eng.SubmitAnswer(ctx, "a", sub)
	if err != nil {
		t.Fatal(err)
	}
	if !fb.Confused {
		t.Fatal("confusion phrase not detected")
	}
	if fb.NewDifficulty != start-1 {
		t.Errorf("difficulty = %d, want %d", fb.NewDifficulty, start-1)
	}
	if !fb.ShouldSimplify || !fb.ShouldSwitchToExamples {
		t.Errorf("adaptation flags = %+v", fb)
	}

	// The duplicate still applies the confusion side effects.
	fb, err = eng.SubmitAnswer(ctx, "a", sub)
	if err != nil {
		t.Fatal(err)
	}
	if !fb.Duplicate {
		t.Error("repeat not flagged duplicate")
	}
	if fb.NewDifficulty != start-2 {
		t.Errorf("difficulty after duplicate = %d, want %d", fb.NewDifficulty, start-2)
	}

	s, _ = eng.Summary(ctx, "a")
	if s.PreferredStyle != learner.StyleExamples {
		t.Errorf("style = %q, want examples", s.PreferredStyle)
	}
}

func TestIncorrectFreeTextQueuesClarification(t *testing.T) {
	eng := newTestEngine(t, &spyMemory{})
	ctx := t.Context()

	// Move out of the diagnostic sentinel first so the clarification is
	// attributed to a real module.
	if _, err := eng.NextLesson(ctx, "a", false); err != nil {
		t.Fatal(err)
	}

	fb, err := eng.SubmitAnswer(ctx, "a", AnswerSubmission{
		QuestionID:    "fundamentals_q0",
		Question:      "How does an LLM produce text?",
		Answer:        "it is a kind of clever computer thing",
		CorrectAnswer: "it predicts the next token from learned patterns",
	})
	if err != nil {
		t.Fatal(err)
	}
	if fb.Correct || !fb.ClarificationQueued {
		t.Fatalf("feedback = %+v, want incorrect with clarification queued", fb)
	}

	pending, err := eng.PendingClarifications(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].SourceModule != "fundamentals" {
		t.Fatalf("pending = %+v", pending)
	}

	// The clarification is served before the regular lesson, one level
	// easier than the learner's current difficulty.
	lesson, err := eng.NextLesson(ctx, "a", false)
	if err != nil {
		t.Fatal(err)
	}
	if !lesson.IsClarification || lesson.ClarificationID != pending[0].ID {
		t.Fatalf("lesson = %+v, want the pending clarification", lesson)
	}
	if lesson.Difficulty != learner.ClampDifficulty(learner.DefaultDifficulty-1) {
		t.Errorf("clarification difficulty = %d", lesson.Difficulty)
	}

	// skipClarifications bypasses the queue without consuming it.
	lesson, err = eng.NextLesson(ctx, "a", true)
	if err != nil {
		t.Fatal(err)
	}
	if lesson.IsClarification {
		t.Error("skip flag still served a clarification")
	}

	ok, err := eng.CompleteClarification(ctx, "a", pending[0].ID)
	if err != nil || !ok {
		t.Fatalf("complete = %v, %v", ok, err)
	}
	ok, err = eng.CompleteClarification(ctx, "a", pending[0].ID)
	if err != nil || ok {
		t.Errorf("second completion = %v, want false", ok)
	}
}

func TestAdvanceThroughFundamentals(t *testing.T) {
	mem := &spyMemory{}
	eng := newTestEngine(t, mem)
	ctx := t.Context()

	if _, err := eng.NextLesson(ctx, "a", false); err != nil {
		t.Fatal(err)
	}

	// Three page advances walk to the last page; the fourth rolls into the
	// next module.
	for range 3 {
		res, err := eng.AdvancePage(ctx, "a")
		if err != nil {
			t.Fatal(err)
		}
		if !res.Advanced {
			t.Fatalf("page advance refused: %+v", res)
		}
	}
	res, err := eng.AdvancePage(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Advanced {
		t.Fatalf("module rollover refused: %+v", res)
	}

	s, _ := eng.Summary(ctx, "a")
	if s.CurrentModule != "transformers_llms" || s.CurrentPage != 0 {
		t.Errorf("position = %s page %d", s.CurrentModule, s.CurrentPage)
	}
	if got := mem.eventsOfType("module_completed"); len(got) != 1 {
		t.Errorf("module_completed events = %d, want 1", len(got))
	}
}

func TestGatedModuleRefusesAdvance(t *testing.T) {
	eng := newTestEngine(t, &spyMemory{})
	ctx := t.Context()

	if _, err := eng.NextLesson(ctx, "a", false); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AdvanceModule(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	res, err := eng.AdvanceModule(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if res.Advanced || !res.ComingSoon || res.Message == "" {
		t.Errorf("gated advance = %+v", res)
	}

	s, _ := eng.Summary(ctx, "a")
	if s.CurrentModule != "transformers_llms" {
		t.Errorf("gated advance moved the learner to %q", s.CurrentModule)
	}
}

func TestRunCapstoneReachesTerminalState(t *testing.T) {
	mem := &spyMemory{memories: []memory.Memory{
		{Text: "prefers worked examples", Score: 0.9},
		{Text: "strong on fundamentals", Score: 0.8},
	}}
	eng := newTestEngine(t, mem)
	ctx := t.Context()

	result, err := eng.RunCapstone(ctx, "a", "organize my study schedule")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.AgentCode, "package main") {
		t.Error("capstone code missing")
	}
	if got := mem.eventsOfType("capstone_request"); len(got) != 1 {
		t.Errorf("capstone_request events = %d, want 1", len(got))
	}

	lesson, err := eng.NextLesson(ctx, "a", false)
	if err != nil {
		t.Fatal(err)
	}
	if lesson.Module != learner.ModuleCapstoneCompleted {
		t.Errorf("module = %q, want %q", lesson.Module, learner.ModuleCapstoneCompleted)
	}
	if !strings.Contains(lesson.Content, "Course Complete") {
		t.Errorf("content = %q", lesson.Content)
	}
}

func TestSummaryTrendAppearsAfterThreeAttempts(t *testing.T) {
	eng := newTestEngine(t, &spyMemory{})
	ctx := t.Context()

	subs := []AnswerSubmission{
		{QuestionID: "q1", IsSelection: true, SelectedOption: 0, CorrectOption: 0, HesitationSeconds: 2},
		{QuestionID: "q2", IsSelection: true, SelectedOption: 1, CorrectOption: 0, HesitationSeconds: 4},
	}
	for _, sub := range subs {
		if _, err := eng.SubmitAnswer(ctx, "a", sub); err != nil {
			t.Fatal(err)
		}
	}

	s, err := eng.Summary(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if s.RecentTrend != nil {
		t.Error("trend should be nil before three attempts")
	}
	if s.TotalQuestions != 2 || s.CorrectAnswers != 1 || s.Accuracy != 0.5 {
		t.Errorf("totals = %d/%d accuracy %v", s.CorrectAnswers, s.TotalQuestions, s.Accuracy)
	}

	_, err = eng.SubmitAnswer(ctx, "a", AnswerSubmission{
		QuestionID: "q3", IsSelection: true, SelectedOption: 0, CorrectOption: 0, HesitationSeconds: 6,
	})
	if err != nil {
		t.Fatal(err)
	}

	s, err = eng.Summary(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if s.RecentTrend == nil {
		t.Fatal("trend missing after three attempts")
	}
	if got := s.RecentTrend.Accuracy; got < 0.66 || got > 0.67 {
		t.Errorf("trend accuracy = %v, want 2/3", got)
	}
	if s.RecentTrend.AvgHesitation != 4 {
		t.Errorf("avg hesitation = %v, want 4", s.RecentTrend.AvgHesitation)
	}
}

func TestRecommendedStyleFromMemoryInsight(t *testing.T) {
	mem := &spyMemory{insight: &memory.Insight{Answer: "This learner responds best to visual material", Confidence: 0.9}}
	eng := newTestEngine(t, mem)

	s, err := eng.Summary(t.Context(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if s.Adaptations.RecommendedStyle != learner.StyleVisual {
		t.Errorf("recommended style = %q, want visual", s.Adaptations.RecommendedStyle)
	}
}

func TestPredictedDifficultyAppliedOnAttempt(t *testing.T) {
	mem := &spyMemory{prediction: &memory.Prediction{Decision: "3", Confidence: 0.9}}
	eng := newTestEngine(t, mem)

	fb, err := eng.SubmitAnswer(t.Context(), "a", AnswerSubmission{
		QuestionID:     "fundamentals_q0",
		IsSelection:    true,
		SelectedOption: 1,
		CorrectOption:  1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if fb.NewDifficulty != 3 {
		t.Errorf("difficulty = %d, want predicted 3", fb.NewDifficulty)
	}
}

func TestLowConfidencePredictionIgnored(t *testing.T) {
	mem := &spyMemory{prediction: &memory.Prediction{Decision: "3", Confidence: 0.5}}
	eng := newTestEngine(t, mem)

	fb, err := eng.SubmitAnswer(t.Context(), "a", AnswerSubmission{
		QuestionID:     "fundamentals_q0",
		IsSelection:    true,
		SelectedOption: 1,
		CorrectOption:  1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if fb.NewDifficulty != learner.DefaultDifficulty {
		t.Errorf("difficulty = %d, want default", fb.NewDifficulty)
	}
}

func TestConfidentPredictionOverridesWindowRule(t *testing.T) {
	// A confident prediction of the current level pins the difficulty even
	// when two fast correct answers would raise it under the window rule.
	mem := &spyMemory{prediction: &memory.Prediction{
		Decision:   strconv.Itoa(learner.DefaultDifficulty),
		Confidence: 0.9,
	}}
	eng := newTestEngine(t, mem)
	ctx := t.Context()

	for _, qid := range []string{"fundamentals_q0", "fundamentals_q1"} {
		fb, err := eng.SubmitAnswer(ctx, "a", AnswerSubmission{
			QuestionID:        qid,
			IsSelection:       true,
			SelectedOption:    1,
			CorrectOption:     1,
			HesitationSeconds: 1,
		})
		if err != nil {
			t.Fatal(err)
		}
		if fb.NewDifficulty != learner.DefaultDifficulty {
			t.Errorf("after %s: difficulty = %d, want pinned %d",
				qid, fb.NewDifficulty, learner.DefaultDifficulty)
		}
	}
}

// deadlineSemantic records whether the semantic evaluation ran under a
// deadline.
type deadlineSemantic struct {
	hasDeadline bool
}

func (d *deadlineSemantic) Available() bool { return true }

func (d *deadlineSemantic) Evaluate(ctx context.Context, _, _, _ string) (*evaluate.Verdict, error) {
	_, d.hasDeadline = ctx.Deadline()
	return &evaluate.Verdict{IsCorrect: true, Confidence: 0.9}, nil
}

func TestSubmitAnswerBoundsSemanticEvaluation(t *testing.T) {
	sem := &deadlineSemantic{}
	eng, err := New(Options{
		Store:     learner.NewMemoryStore(),
		Evaluator: evaluate.New(sem, nil),
		Memory:    &spyMemory{},
	})
	if err != nil {
		t.Fatal(err)
	}

	// A plain background context carries no deadline of its own; the
	// evaluator must add one.
	_, err = eng.SubmitAnswer(context.Background(), "a", AnswerSubmission{
		QuestionID: "fundamentals_q1",
		Question:   "What is a token?",
		Answer:     "tokens are chunks of text the model predicts",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !sem.hasDeadline {
		t.Error("semantic evaluation ran without a deadline")
	}
}

func TestLessonViewEventDeduped(t *testing.T) {
	mem := &spyMemory{}
	eng := newTestEngine(t, mem)
	ctx := t.Context()

	for range 3 {
		if _, err := eng.NextLesson(ctx, "a", false); err != nil {
			t.Fatal(err)
		}
	}
	if got := mem.eventsOfType("lesson_viewed"); len(got) != 1 {
		t.Errorf("lesson_viewed events = %d, want 1 within the dedup window", len(got))
	}

	// A different page is a fresh event.
	if _, err := eng.AdvancePage(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.NextLesson(ctx, "a", false); err != nil {
		t.Fatal(err)
	}
	if got := mem.eventsOfType("lesson_viewed"); len(got) != 2 {
		t.Errorf("lesson_viewed events = %d, want 2 after page change", len(got))
	}
}

func TestResetReturnsLearnerToDiagnostic(t *testing.T) {
	eng := newTestEngine(t, &spyMemory{})
	ctx := t.Context()

	if _, err := eng.NextLesson(ctx, "a", false); err != nil {
		t.Fatal(err)
	}
	if err := eng.Reset(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	s, err := eng.Summary(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if s.CurrentModule != learner.ModuleDiagnostic {
		t.Errorf("module after reset = %q", s.CurrentModule)
	}
	if s.TotalQuestions != 0 {
		t.Errorf("history survived reset: %d attempts", s.TotalQuestions)
	}
}
