// Package models provides [reagent.Session] implementations: a
// wrapper over any LangChainGo model, and a scripted session for
// tests and dry runs.
package models

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"

	"github.com/reagent-dev/reagent"
)

// ErrEmptyCompletion is returned when the model responds with no
// choices.
var ErrEmptyCompletion = errors.New("model returned no completion choices")

// LangChain adapts an llms.Model into a [reagent.Session]. The
// session holds no conversation state; the loop sends full history
// every call.
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	session := models.NewLangChain(llm, llms.WithTemperature(0))
type LangChain struct {
	model llms.Model
	opts  []llms.CallOption
}

// NewLangChain wraps model. The call options are applied to every
// Chat call.
func NewLangChain(model llms.Model, opts ...llms.CallOption) *LangChain {
	return &LangChain{model: model, opts: opts}
}

// Unwrap returns the underlying llms.Model.
func (s *LangChain) Unwrap() llms.Model {
	return s.model
}

// Chat sends the messages and returns the first choice's text.
// Provider errors pass through untouched; retry policy belongs to the
// caller or the underlying client.
func (s *LangChain) Chat(ctx context.Context, messages []llms.MessageContent) (string, error) {
	resp, err := s.model.GenerateContent(ctx, messages, s.opts...)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Content, nil
}

// Compile-time check that LangChain implements reagent.Session.
var _ reagent.Session = (*LangChain)(nil)
