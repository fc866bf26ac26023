package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// retryClass buckets errors by how the retry loop treats them.
type retryClass int

const (
	classPermanent retryClass = iota // give up immediately
	classOnce                        // worth exactly one more attempt
	classTransient                   // retry until attempts run out
)

// classifyError decides the retry treatment of a Generate failure.
// Context errors and truncation are permanent: the caller gave up, or
// the request's token cap is too small. Malformed output gets a single
// regeneration. Everything else, rate limits and outages included, is
// transient.
func classifyError(err error) retryClass {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return classPermanent
	}
	var trunc *TruncatedError
	if errors.As(err, &trunc) {
		return classPermanent
	}
	var malformed *MalformedOutputError
	if errors.As(err, &malformed) {
		return classOnce
	}
	return classTransient
}

// retrying wraps a Provider with bounded retries for transient failures.
type retrying struct {
	next Provider
	cfg  RetryConfig
}

// WithRetry decorates p with the retry policy in cfg.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retrying{next: p, cfg: cfg}
}

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	regenerated := false

	for attempt := range r.cfg.MaxAttempts {
		resp, err := r.next.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classifyError(err) {
		case classPermanent:
			return nil, err
		case classOnce:
			if regenerated {
				return nil, err
			}
			regenerated = true
		}

		if attempt == r.cfg.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.wait(attempt, err)):
		}
	}
	return nil, lastErr
}

func (r *retrying) ModelID() string { return r.next.ModelID() }

// wait computes the pause before the next attempt: the backend's
// rate-limit hint when present, otherwise exponential backoff capped at
// MaxWait with plus or minus twenty percent jitter.
func (r *retrying) wait(attempt int, err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.cfg.InitialWait)
	for range attempt {
		d *= r.cfg.Multiplier
	}
	if ceil := float64(r.cfg.MaxWait); d > ceil {
		d = ceil
	}
	d *= 1 + 0.2*(2*rand.Float64()-1)
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
