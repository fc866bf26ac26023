package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// RateLimitError reports a 429 from the backend. RetryAfter carries the
// backend's hint when it sent one; zero means back off normally.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm: rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm: rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// MalformedOutputError reports a reply that is not the JSON document the
// request's schema demanded. Output holds the offending reply for logs.
type MalformedOutputError struct {
	Output json.RawMessage
	Err    error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("llm: malformed output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// UnavailableError reports that the backend could not be reached or
// answered with a server error. Callers take their deterministic
// fallback path on it.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "llm: provider unavailable"
	}
	return fmt.Sprintf("llm: provider unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// TruncatedError reports a reply cut off at the MaxTokens cap. The
// partial output is kept for diagnostics; resending the same request
// cannot help, the cap itself is too small.
type TruncatedError struct {
	Output json.RawMessage
}

func (e *TruncatedError) Error() string {
	return "llm: reply truncated at the token cap"
}
