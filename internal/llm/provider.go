// Package llm abstracts the structured-output backends the tutor's
// agents run on. Agents are single-turn: one system framing, one prompt,
// and usually a JSON Schema the reply must satisfy. Providers validate
// the reply against the schema before returning it, so callers can
// unmarshal without defensive checks.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured reply per call.
type Provider interface {
	// Generate sends the request and returns schema-validated JSON.
	// When req.Schema is nil the raw reply text is returned unvalidated.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model identifier.
	ModelID() string
}

// Request is a single-turn generation request. The tutor's agents never
// hold multi-turn conversations with the model; each call stands alone.
type Request struct {
	// System frames the agent's role and constraints.
	System string

	// Prompt is the user-turn content.
	Prompt string

	// Schema, when set, constrains the reply to a JSON document matching
	// its definition, using the backend's native structured-output
	// mechanism. The reply is validated before being returned.
	Schema *Schema

	// MaxTokens caps the reply length. A reply cut off at the cap comes
	// back as a *TruncatedError, never as a partial success.
	MaxTokens int

	// Temperature in [0.0, 1.0]; zero means deterministic.
	Temperature float64
}

// Schema names a JSON Schema the reply must conform to.
type Schema struct {
	// Name is a kebab-case identifier like "lesson-plan". Anthropic uses
	// it as the output format name, OpenAI as the schema name.
	Name string

	// Description tells the model what the document represents.
	Description string

	// Definition is the JSON Schema as a plain map.
	Definition map[string]any
}

// Response is a completed generation.
type Response struct {
	// Content is the reply: validated JSON when a schema was requested,
	// raw text bytes otherwise.
	Content json.RawMessage

	// Usage is the token consumption the backend reported for this call.
	Usage Usage

	// Model is the model that actually served the call.
	Model string
}

// Usage is per-call token consumption, recorded in the event log.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
