package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abhisek/learnai/internal/llm"
	"github.com/google/uuid"
)

// EventRepo appends LLM request events. Implements llm.EventSink.
type EventRepo struct {
	db *sql.DB
}

// RecordLLMRequest records one LLM API call event.
func (r *EventRepo) RecordLLMRequest(ctx context.Context, ev llm.RequestEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_request_events
		 (id, created_at, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), time.Now().UTC(),
		ev.Provider, ev.Model, ev.Purpose,
		ev.InputTokens, ev.OutputTokens, ev.LatencyMs,
		boolToInt(ev.Success), ev.ErrorMessage)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// CountSince returns how many LLM requests were recorded after t.
func (r *EventRepo) CountSince(ctx context.Context, t time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM llm_request_events WHERE created_at > ?`, t.UTC(),
	).Scan(&n)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("count LLM request events: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
