package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetrySucceedsAfterTransientError(t *testing.T) {
	stub := NewStubProvider(
		StubResult{Err: &UnavailableError{Err: errors.New("connection reset")}},
		StubResult{Output: json.RawMessage(`{"ok":true}`)},
	)
	p := WithRetry(stub, fastRetryConfig(3))

	resp, err := p.Generate(t.Context(), Request{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Errorf("content = %s", resp.Content)
	}
	if stub.CallCount() != 2 {
		t.Errorf("calls = %d, want 2", stub.CallCount())
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	stub := NewStubProvider() // empty script fails every call
	p := WithRetry(stub, fastRetryConfig(3))

	_, err := p.Generate(t.Context(), Request{})
	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want UnavailableError", err)
	}
	if stub.CallCount() != 3 {
		t.Errorf("calls = %d, want 3", stub.CallCount())
	}
}

func TestRetryNeverRetriesContextErrors(t *testing.T) {
	stub := NewStubProvider(
		StubResult{Err: context.Canceled},
		StubResult{Output: json.RawMessage(`{}`)},
	)
	p := WithRetry(stub, fastRetryConfig(3))

	_, err := p.Generate(t.Context(), Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if stub.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", stub.CallCount())
	}
}

func TestRetryNeverRetriesTruncation(t *testing.T) {
	stub := NewStubProvider(
		StubResult{Err: &TruncatedError{Output: json.RawMessage(`{"partial`)}},
		StubResult{Output: json.RawMessage(`{}`)},
	)
	p := WithRetry(stub, fastRetryConfig(3))

	_, err := p.Generate(t.Context(), Request{})
	var trunc *TruncatedError
	if !errors.As(err, &trunc) {
		t.Fatalf("err = %v, want TruncatedError", err)
	}
	if stub.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", stub.CallCount())
	}
}

func TestRetryMalformedOutputOnlyOnce(t *testing.T) {
	malformed := &MalformedOutputError{Output: json.RawMessage(`garbage`), Err: errors.New("bad json")}
	stub := NewStubProvider(
		StubResult{Err: malformed},
		StubResult{Err: malformed},
		StubResult{Output: json.RawMessage(`{}`)},
	)
	p := WithRetry(stub, fastRetryConfig(5))

	_, err := p.Generate(t.Context(), Request{})
	var mal *MalformedOutputError
	if !errors.As(err, &mal) {
		t.Fatalf("err = %v, want MalformedOutputError", err)
	}
	if stub.CallCount() != 2 {
		t.Errorf("calls = %d, want 2 (one regeneration for malformed output)", stub.CallCount())
	}
}

func TestRetryRespectsRetryAfter(t *testing.T) {
	stub := NewStubProvider(
		StubResult{Err: &RateLimitError{RetryAfter: 20 * time.Millisecond}},
		StubResult{Output: json.RawMessage(`{}`)},
	)
	p := WithRetry(stub, fastRetryConfig(3))

	start := time.Now()
	if _, err := p.Generate(t.Context(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("resumed after %s, want at least the RetryAfter hint", elapsed)
	}
}

func TestRetryStopsWhenContextExpiresDuringBackoff(t *testing.T) {
	stub := NewStubProvider(
		StubResult{Err: &RateLimitError{RetryAfter: time.Minute}},
		StubResult{Output: json.RawMessage(`{}`)},
	)
	p := WithRetry(stub, fastRetryConfig(3))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
	if stub.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", stub.CallCount())
	}
}

func TestStubProviderReplaysScript(t *testing.T) {
	stub := NewStubProvider(
		StubResult{Output: json.RawMessage(`1`)},
		StubResult{Output: json.RawMessage(`2`)},
	)

	first, _ := stub.Generate(t.Context(), Request{System: "a"})
	second, _ := stub.Generate(t.Context(), Request{System: "b"})
	if string(first.Content) != "1" || string(second.Content) != "2" {
		t.Errorf("results out of order: %s, %s", first.Content, second.Content)
	}

	if _, err := stub.Generate(t.Context(), Request{}); err == nil {
		t.Error("drained stub should error")
	}
	reqs := stub.Requests()
	if len(reqs) != 3 || reqs[1].System != "b" {
		t.Errorf("recorded requests = %+v", reqs)
	}
}
