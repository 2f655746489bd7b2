package models

import (
	"context"
	"errors"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/reagent-dev/reagent"
)

// ErrScriptExhausted is returned when a Scripted session runs out of
// responses and repeat-last is not enabled.
var ErrScriptExhausted = errors.New("scripted session: no responses left")

// Scripted is a deterministic [reagent.Session] that replays canned
// completions in order. It records every request it receives, which
// makes conversation-construction assertions straightforward in
// tests.
type Scripted struct {
	mu         sync.Mutex
	responses  []string
	calls      int
	requests   [][]llms.MessageContent
	repeatLast bool
}

// NewScripted creates a session that returns the given responses in
// order and errors once they run out.
func NewScripted(responses ...string) *Scripted {
	return &Scripted{responses: responses}
}

// WithRepeatLast makes the session keep returning its final response
// instead of erroring when the script runs out. Useful as a stub that
// "always requests another action" in budget tests.
func (s *Scripted) WithRepeatLast() *Scripted {
	s.repeatLast = true
	return s
}

// Chat records the request and returns the next scripted response.
func (s *Scripted) Chat(_ context.Context, messages []llms.MessageContent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]llms.MessageContent, len(messages))
	copy(snapshot, messages)
	s.requests = append(s.requests, snapshot)

	idx := s.calls
	s.calls++
	if idx >= len(s.responses) {
		if s.repeatLast && len(s.responses) > 0 {
			return s.responses[len(s.responses)-1], nil
		}
		return "", ErrScriptExhausted
	}
	return s.responses[idx], nil
}

// Calls returns how many Chat calls the session has served.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Requests returns a snapshot of every message list received, in
// call order.
func (s *Scripted) Requests() [][]llms.MessageContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]llms.MessageContent, len(s.requests))
	copy(out, s.requests)
	return out
}

// Compile-time check that Scripted implements reagent.Session.
var _ reagent.Session = (*Scripted)(nil)
