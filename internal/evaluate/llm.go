package evaluate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/learnai/internal/llm"
)

// evalSystemPrompt frames the model as an assessment judge.
const evalSystemPrompt = "You are an educational assessment AI. " +
	"Evaluate student answers for understanding and detect confusion signals."

// VerdictSchema is the structured output contract for semantic evaluation.
var VerdictSchema = &llm.Schema{
	Name:        "answer-verdict",
	Description: "Judgment of a learner's free-text quiz answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"understanding": map[string]any{
				"type":        "boolean",
				"description": "Does the answer demonstrate understanding of the concept?",
			},
			"confused": map[string]any{
				"type":        "boolean",
				"description": "Is the learner confused or frustrated?",
			},
			"confidence": map[string]any{
				"type":        "number",
				"description": "Confidence in the judgment, 0.0-1.0",
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "Brief explanation of the judgment",
			},
			"action": map[string]any{
				"type": "string",
				"enum": []any{ActionSimplify, ActionContinue, ActionProvideExamples},
			},
		},
		"required":             []any{"understanding", "confused", "confidence", "reasoning", "action"},
		"additionalProperties": false,
	},
}

// verdictOutput mirrors VerdictSchema for unmarshalling.
type verdictOutput struct {
	Understanding bool    `json:"understanding"`
	Confused      bool    `json:"confused"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning"`
	Action        string  `json:"action"`
}

// LLMEvaluator is a SemanticEvaluator backed by an llm.Provider.
type LLMEvaluator struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMEvaluator creates an LLM-backed semantic evaluator.
// provider may be nil; Available then reports false.
func NewLLMEvaluator(provider llm.Provider) *LLMEvaluator {
	return &LLMEvaluator{provider: provider, maxTokens: 300}
}

// Available reports whether a provider is configured.
func (e *LLMEvaluator) Available() bool {
	return e != nil && e.provider != nil
}

// Evaluate asks the model for a structured verdict on the answer.
func (e *LLMEvaluator) Evaluate(ctx context.Context, question, answer, lessonContext string) (*Verdict, error) {
	if !e.Available() {
		return nil, &llm.UnavailableError{}
	}

	ctx = llm.WithPurpose(ctx, "answer-eval")

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      evalSystemPrompt,
		Prompt:      buildEvalPrompt(question, answer, lessonContext),
		Schema:      VerdictSchema,
		MaxTokens:   e.maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic evaluation: %w", err)
	}

	var out verdictOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}

	return &Verdict{
		IsCorrect:       out.Understanding,
		IsConfused:      out.Confused,
		Confidence:      out.Confidence,
		Reasoning:       out.Reasoning,
		SuggestedAction: out.Action,
	}, nil
}

func buildEvalPrompt(question, answer, lessonContext string) string {
	msg := fmt.Sprintf("Evaluate this learning quiz answer.\n\nQuestion: %q\n\nLearner's answer: %q\n", question, answer)
	if lessonContext != "" {
		if len(lessonContext) > 500 {
			lessonContext = lessonContext[:500]
		}
		msg += fmt.Sprintf("\nLesson context:\n%s\n", lessonContext)
	}
	return msg
}
