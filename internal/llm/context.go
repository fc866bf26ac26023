package llm

import "context"

type purposeKey struct{}

// WithPurpose tags a context with the reason for the LLM call
// ("lesson-agent", "answer-eval", "clarification", ...). The logging
// decorator records it with the request event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom extracts the purpose from a context, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return "unknown"
}
