package backlog

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/reagent-dev/reagent"
	"github.com/reagent-dev/reagent/integrationtest/loggers"
	"github.com/reagent-dev/reagent/models"
	"github.com/reagent-dev/reagent/react"
)

// APIKeyEnv is the environment variable the live scenarios read their
// OpenAI-compatible API key from. When it is unset, live scenarios are
// skipped.
const APIKeyEnv = "REAGENT_TEST_OPENAI_KEY"

// NewLiveSession builds a session against a real model using the API
// key from the environment.
func NewLiveSession() (reagent.Session, error) {
	key := os.Getenv(APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%s not set", APIKeyEnv)
	}

	llm, err := openai.New(openai.WithToken(key))
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}
	return models.NewLangChain(llm, llms.WithTemperature(0)), nil
}

// NewLoop wires the scenario loop: the planning registry, the
// behavioral prompt, and step logging to w.
func NewLoop(session reagent.Session, store *Store, w io.Writer) *react.Loop {
	return react.NewLoop(session, NewRegistry(store)).
		WithSystemPrompt(SystemPrompt).
		WithMaxSteps(8).
		WithObserver(loggers.NewStepLoggerWithWriter(w))
}

// RunEstimateScenario asks the assistant how long the CRUD API is
// estimated to take. The answer must come from the backlog, so a
// correct run requires at least one search before answering.
func RunEstimateScenario(ctx context.Context, w io.Writer, session reagent.Session) error {
	loop := NewLoop(session, NewStore(), w)

	final, err := loop.Run(ctx, "How long is the CRUD API estimated to take?")
	if err != nil {
		return fmt.Errorf("estimate scenario: %w", err)
	}
	if loop.State() != reagent.StateTerminatedAnswer {
		return fmt.Errorf("estimate scenario: run ended in state %s", loop.State())
	}

	fmt.Fprintf(w, "\nFinal answer: %s\n", final.FinalAnswer)
	return nil
}

// RunPlanningScenario exercises a multi-step run: summing the open API
// work and adding a follow-up feature to the backlog.
func RunPlanningScenario(ctx context.Context, w io.Writer, session reagent.Session) error {
	store := NewStore()
	loop := NewLoop(session, store, w)

	final, err := loop.Run(ctx,
		"How many hours of API work are still open? "+
			"Then add a 3 hour api feature named 'Rate limiting' to the backlog.")
	if err != nil {
		return fmt.Errorf("planning scenario: %w", err)
	}
	if loop.State() != reagent.StateTerminatedAnswer {
		return fmt.Errorf("planning scenario: run ended in state %s", loop.State())
	}

	if len(store.Search("Rate limiting")) == 0 {
		return fmt.Errorf("planning scenario: feature was not added to the backlog")
	}

	fmt.Fprintf(w, "\nFinal answer: %s\n", final.FinalAnswer)
	return nil
}
