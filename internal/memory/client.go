// Package memory integrates the external personalization memory service.
//
// The service tracks learner events and answers profile queries used to
// enrich lessons. Everything here is advisory: calls are bounded by
// short timeouts and every failure degrades to "no insight" rather than
// an error the caller must handle.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.fastino.ai/v1"

// Memory is one retrieved memory snippet.
type Memory struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Insight is the answer to a natural-language profile query.
type Insight struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

// Prediction is a decision prediction from historical patterns.
type Prediction struct {
	Decision   string  `json:"decision"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Client is the set of personalization operations the engine uses.
type Client interface {
	Available() bool
	Register(ctx context.Context, learnerID string, traits map[string]string) bool
	IngestEvent(ctx context.Context, learnerID, eventType string, content map[string]any) bool
	Query(ctx context.Context, learnerID, query string) (*Insight, bool)
	Retrieve(ctx context.Context, learnerID, query string, topK int) []Memory
	Predict(ctx context.Context, learnerID string, decisionContext map[string]any) (*Prediction, bool)
}

// HTTPClient talks to the memory service over REST.
type HTTPClient struct {
	http    *resty.Client
	enabled bool
	log     *zap.Logger
}

// NewClient builds a client from LEARNAI_MEMORY_API_KEY and
// LEARNAI_MEMORY_API_BASE. Without a key the client is disabled and
// every operation is a cheap no-op.
func NewClient(log *zap.Logger) *HTTPClient {
	if log == nil {
		log = zap.NewNop()
	}

	apiKey := os.Getenv("LEARNAI_MEMORY_API_KEY")
	baseURL := os.Getenv("LEARNAI_MEMORY_API_BASE")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		http.SetAuthToken(apiKey)
	}

	return &HTTPClient{http: http, enabled: apiKey != "", log: log}
}

// Available reports whether the service is configured.
func (c *HTTPClient) Available() bool {
	return c != nil && c.enabled
}

// Register creates the learner's memory profile. Idempotent on the
// service side.
func (c *HTTPClient) Register(ctx context.Context, learnerID string, traits map[string]string) bool {
	if !c.Available() {
		return false
	}
	if traits == nil {
		traits = map[string]string{}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"user_id": learnerID, "traits": traits}).
		Put("/register")
	if err != nil {
		c.log.Debug("memory register failed", zap.Error(err))
		return false
	}
	return resp.StatusCode() == 200 || resp.StatusCode() == 201
}

// IngestEvent records a learner event. Failures are logged and ignored.
func (c *HTTPClient) IngestEvent(ctx context.Context, learnerID, eventType string, content map[string]any) bool {
	if !c.Available() {
		return false
	}

	payload := map[string]any{
		"user_id": learnerID,
		"source":  "learnai_platform",
		"events": []map[string]any{
			{
				"event_id": fmt.Sprintf("%s_%s_%d", learnerID, eventType, time.Now().UnixNano()),
				"type":     eventType,
				"content":  content,
			},
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/ingest")
	if err != nil {
		c.log.Debug("memory ingest failed",
			zap.String("event_type", eventType), zap.Error(err))
		return false
	}
	return resp.StatusCode() == 200
}

// Query answers a natural-language question about the learner's profile.
func (c *HTTPClient) Query(ctx context.Context, learnerID, query string) (*Insight, bool) {
	if !c.Available() {
		return nil, false
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"user_id": learnerID, "query": query}).
		Post("/query")
	if err != nil || resp.StatusCode() != 200 {
		return nil, false
	}

	var insight Insight
	if err := json.Unmarshal(resp.Body(), &insight); err != nil {
		c.log.Debug("memory query parse failed", zap.Error(err))
		return nil, false
	}
	return &insight, true
}

// Retrieve returns up to topK memory snippets relevant to the query.
func (c *HTTPClient) Retrieve(ctx context.Context, learnerID, query string, topK int) []Memory {
	if !c.Available() {
		return nil
	}
	if topK <= 0 {
		topK = 5
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"user_id": learnerID, "query": query, "top_k": topK}).
		Post("/retrieve")
	if err != nil || resp.StatusCode() != 200 {
		return nil
	}

	var out struct {
		Memories []Memory `json:"memories"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil
	}
	return out.Memories
}

// Predict forecasts a learner decision from historical patterns.
func (c *HTTPClient) Predict(ctx context.Context, learnerID string, decisionContext map[string]any) (*Prediction, bool) {
	if !c.Available() {
		return nil, false
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"user_id": learnerID, "context": decisionContext}).
		Post("/predict")
	if err != nil || resp.StatusCode() != 200 {
		return nil, false
	}

	var pred Prediction
	if err := json.Unmarshal(resp.Body(), &pred); err != nil {
		return nil, false
	}
	return &pred, true
}

// Nop is a disabled memory client for tests and offline runs.
type Nop struct{}

func (Nop) Available() bool { return false }
func (Nop) Register(context.Context, string, map[string]string) bool { return false }
func (Nop) IngestEvent(context.Context, string, string, map[string]any) bool { return false }
func (Nop) Query(context.Context, string, string) (*Insight, bool) { return nil, false }
func (Nop) Retrieve(context.Context, string, string, int) []Memory { return nil }
func (Nop) Predict(context.Context, string, map[string]any) (*Prediction, bool) { return nil, false }
