// Package reasoning runs the engine's AI agents: lesson planning,
// clarification authoring, and the capstone project generator.
//
// Every agent degrades to a deterministic fallback when no provider is
// configured or the provider fails, so the learning flow never stalls
// on a model outage.
package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/learnai/internal/clarify"
	"github.com/abhisek/learnai/internal/llm"
	"go.uber.org/zap"
)

// CheckQuestion is one comprehension question attached to a lesson.
// Multiple choice questions carry options and the correct index;
// open-ended questions carry only the prompt.
type CheckQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectOption int      `json:"correct_answer"`
	GlobalIndex   int      `json:"global_index"`
}

// OpenEnded reports whether the question expects a free-text answer.
func (q CheckQuestion) OpenEnded() bool {
	return len(q.Options) == 0
}

// LessonPlan is the lesson agent's output for a module.
type LessonPlan struct {
	ModuleFile     string
	DifficultyTag  int
	ImageSearch    string
	CheckQuestions []CheckQuestion
	SuggestedStyle string
	NextModule     string
}

// LessonInputs describes the learner state the lesson agent plans for.
type LessonInputs struct {
	Module            string
	Difficulty        int
	LearningStyle     string
	RecentPerformance []bool
}

// CapstoneResult is the capstone agent's output.
type CapstoneResult struct {
	AgentCode   string
	Description string
	NextSteps   []string
}

// Runner executes agents against an llm.Provider. A nil provider means
// every call answers from the fallback tables.
type Runner struct {
	provider llm.Provider
	log      *zap.Logger
	timeout  time.Duration
}

// NewRunner creates a Runner. provider may be nil.
func NewRunner(provider llm.Provider, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{provider: provider, log: log, timeout: 20 * time.Second}
}

// Available reports whether a provider is configured.
func (r *Runner) Available() bool {
	return r != nil && r.provider != nil
}

// Lesson plans the lesson for a module: content file, check questions,
// image search term, style suggestion. Never returns an error; provider
// failures fall back to the predefined plan.
func (r *Runner) Lesson(ctx context.Context, in LessonInputs) *LessonPlan {
	if !r.Available() {
		return fallbackLessonPlan(in)
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, "lesson-plan"), r.timeout)
	defer cancel()

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      lessonSystemPrompt,
		Prompt:      buildLessonPrompt(in),
		Schema:      lessonPlanSchema,
		MaxTokens:   1200,
		Temperature: 0.7,
	})
	if err != nil {
		r.log.Debug("lesson agent failed, using fallback plan",
			zap.String("module", in.Module), zap.Error(err))
		return fallbackLessonPlan(in)
	}

	var out lessonPlanOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil || len(out.CheckQuestions) == 0 {
		r.log.Debug("lesson agent returned unusable plan, using fallback",
			zap.String("module", in.Module), zap.Error(err))
		return fallbackLessonPlan(in)
	}

	plan := out.toPlan(in)
	for i := range plan.CheckQuestions {
		plan.CheckQuestions[i].GlobalIndex = i
	}
	return plan
}

// ClarificationContent authors a remedial lesson for an incorrectly
// answered question. Implements clarify.ContentGenerator.
func (r *Runner) ClarificationContent(ctx context.Context, req clarify.Request) (string, error) {
	if !r.Available() {
		return "", &llm.UnavailableError{}
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, "clarification"), r.timeout)
	defer cancel()

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      clarificationSystemPrompt,
		Prompt:      buildClarificationPrompt(req),
		MaxTokens:   900,
		Temperature: 0.5,
	})
	if err != nil {
		return "", fmt.Errorf("clarification agent: %w", err)
	}
	return string(resp.Content), nil
}

// Capstone generates the final todo-agent project for the given task
// description. Provider failures fall back to the code template.
func (r *Runner) Capstone(ctx context.Context, taskDescription string) *CapstoneResult {
	if taskDescription == "" {
		taskDescription = "manage daily tasks"
	}
	if !r.Available() {
		return fallbackCapstone(taskDescription)
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, "capstone"), r.timeout)
	defer cancel()

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      capstoneSystemPrompt,
		Prompt:      fmt.Sprintf("Generate a todo agent for this task: %s", taskDescription),
		Schema:      capstoneSchema,
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	if err != nil {
		r.log.Debug("capstone agent failed, using template", zap.Error(err))
		return fallbackCapstone(taskDescription)
	}

	var out capstoneOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil || out.AgentCode == "" {
		return fallbackCapstone(taskDescription)
	}
	return &CapstoneResult{
		AgentCode:   out.AgentCode,
		Description: out.Description,
		NextSteps:   out.NextSteps,
	}
}

const (
	lessonSystemPrompt = "You are a lesson planning agent for an AI literacy course. " +
		"Plan the lesson for the learner's current module and generate comprehension check questions: " +
		"one multiple-choice question with 4 options, and one open-ended question requiring explanation."

	clarificationSystemPrompt = "You are a patient tutor. Write a brief, focused clarification lesson " +
		"in markdown that explains why the correct answer is correct, addresses the learner's " +
		"misconception, and gives clear examples in simple, beginner-friendly language. Keep it concise."

	capstoneSystemPrompt = "You are a coding instructor. Generate a complete, runnable Go program " +
		"implementing a simple todo agent for the learner's task, with a short description and next steps."
)

func buildLessonPrompt(in LessonInputs) string {
	msg := fmt.Sprintf(
		"Plan a lesson.\n\nModule: %s\nDifficulty level: %d (0=beginner, 3=expert)\nPreferred learning style: %s\n",
		in.Module, in.Difficulty, in.LearningStyle)
	if len(in.RecentPerformance) > 0 {
		correct := 0
		for _, ok := range in.RecentPerformance {
			if ok {
				correct++
			}
		}
		msg += fmt.Sprintf("\nRecent quiz performance: %d of %d correct.\n", correct, len(in.RecentPerformance))
	}
	return msg
}

func buildClarificationPrompt(req clarify.Request) string {
	return fmt.Sprintf(
		"Question: %s\nLearner's answer: %s\nCorrect answer: %s\nCurrent module: %s\n",
		req.Question, req.LearnerAnswer, req.CorrectAnswer, req.SourceModule)
}

type lessonPlanOutput struct {
	ModuleFile     string          `json:"module_file"`
	DifficultyTag  *int            `json:"difficulty_tag"`
	ImageSearch    string          `json:"image_search"`
	CheckQuestions []CheckQuestion `json:"check_questions"`
	SuggestedStyle string          `json:"suggested_style"`
	NextModule     string          `json:"next_module"`
}

func (o *lessonPlanOutput) toPlan(in LessonInputs) *LessonPlan {
	plan := &LessonPlan{
		ModuleFile:     o.ModuleFile,
		DifficultyTag:  in.Difficulty,
		ImageSearch:    o.ImageSearch,
		CheckQuestions: o.CheckQuestions,
		SuggestedStyle: o.SuggestedStyle,
		NextModule:     o.NextModule,
	}
	if o.DifficultyTag != nil {
		plan.DifficultyTag = *o.DifficultyTag
	}
	if plan.ModuleFile == "" {
		plan.ModuleFile = in.Module + ".md"
	}
	if plan.SuggestedStyle == "" {
		plan.SuggestedStyle = in.LearningStyle
	}
	if plan.ImageSearch == "" {
		plan.ImageSearch = imageSearchTerm(in.Module)
	}
	if plan.NextModule == "" {
		plan.NextModule = nextInSequence(in.Module)
	}
	return plan
}

type capstoneOutput struct {
	AgentCode   string   `json:"agent_code"`
	Description string   `json:"agent_description"`
	NextSteps   []string `json:"next_steps"`
}

var lessonPlanSchema = &llm.Schema{
	Name:        "lesson-plan",
	Description: "Lesson plan with comprehension check questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"module_file":     map[string]any{"type": "string"},
			"difficulty_tag":  map[string]any{"type": "integer"},
			"image_search":    map[string]any{"type": "string"},
			"suggested_style": map[string]any{"type": "string"},
			"next_module":     map[string]any{"type": "string"},
			"check_questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":       map[string]any{"type": "string"},
						"options":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"correct_answer": map[string]any{"type": "integer"},
					},
					"required": []any{"question"},
				},
			},
		},
		"required": []any{"module_file", "check_questions"},
	},
}

var capstoneSchema = &llm.Schema{
	Name:        "capstone-project",
	Description: "Generated todo agent project",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"agent_code":        map[string]any{"type": "string"},
			"agent_description": map[string]any{"type": "string"},
			"next_steps":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"agent_code", "agent_description", "next_steps"},
	},
}
