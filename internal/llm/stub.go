package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// StubResult is one scripted outcome for a StubProvider.
type StubResult struct {
	Output json.RawMessage
	Usage  Usage
	Err    error
}

// StubProvider replays scripted results in order and records every
// request it sees. Tests drive it directly; the "stub" config provider
// wires an empty one, which always reports the backend unavailable and
// so exercises callers' fallback paths.
type StubProvider struct {
	mu       sync.Mutex
	script   []StubResult
	requests []Request
}

// NewStubProvider creates a StubProvider preloaded with script.
func NewStubProvider(script ...StubResult) *StubProvider {
	return &StubProvider{script: script}
}

// Generate pops the next scripted result. An exhausted script reports
// the backend unavailable.
func (s *StubProvider) Generate(_ context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)

	if len(s.script) == 0 {
		return nil, &UnavailableError{}
	}
	next := s.script[0]
	s.script = s.script[1:]

	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Output, Usage: next.Usage, Model: "stub"}, nil
}

// ModelID reports "stub".
func (s *StubProvider) ModelID() string { return "stub" }

// Append adds a result to the end of the script.
func (s *StubProvider) Append(res StubResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, res)
}

// Requests returns a copy of every request seen so far.
func (s *StubProvider) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CallCount reports how many Generate calls have been made.
func (s *StubProvider) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
