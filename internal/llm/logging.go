package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RequestEvent captures one LLM call for the event log.
type RequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventSink persists LLM request events. Implemented by the store package.
type EventSink interface {
	RecordLLMRequest(ctx context.Context, ev RequestEvent) error
}

// LoggingProvider is a decorator that records every LLM request as an
// event and logs it structurally.
type LoggingProvider struct {
	inner Provider
	sink  EventSink
	log   *zap.Logger
}

// WithLogging wraps a Provider with event recording. Either sink or log
// may be nil.
func WithLogging(p Provider, sink EventSink, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{inner: p, sink: sink, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	ev := RequestEvent{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: latencyMs,
		Success:   err == nil,
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.Model = resp.Model
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	l.log.Debug("llm request",
		zap.String("purpose", purpose),
		zap.String("model", ev.Model),
		zap.Int64("latency_ms", latencyMs),
		zap.Bool("success", ev.Success),
	)

	// Record the event but never fail the request over logging.
	if l.sink != nil {
		if logErr := l.sink.RecordLLMRequest(ctx, ev); logErr != nil {
			l.log.Warn("failed to record LLM request event", zap.Error(logErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
