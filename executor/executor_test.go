package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reagent-dev/reagent"
	"github.com/reagent-dev/reagent/registry"
	"github.com/reagent-dev/reagent/schema"
)

func newFixtureRegistry(t *testing.T, handler reagent.Handler) *registry.InMemory {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.Register(&reagent.ToolDescriptor{
		Name:        "search_features",
		Description: "Search the feature backlog by keyword.",
		Schema: schema.Object(map[string]*schema.Property{
			"query": schema.String("Search keyword"),
			"limit": schema.Integer("Max results").Min(1),
		}, "query"),
		Handler: handler,
	}))
	return r
}

func queryArgs() reagent.Args {
	return reagent.Args{{Key: "query", Value: reagent.StringValue("CRUD")}}
}

func TestExecutor_Execute(t *testing.T) {
	t.Run("handler output becomes the observation", func(t *testing.T) {
		var got map[string]any
		reg := newFixtureRegistry(t, reagent.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			got = args
			return "Found: CRUD API (4h)", nil
		}))

		obs := New(reg).Execute(context.Background(), "search_features", queryArgs())

		assert.Equal(t, "Found: CRUD API (4h)", obs)
		assert.Equal(t, map[string]any{"query": "CRUD"}, got)
	})

	t.Run("unknown tool", func(t *testing.T) {
		reg := newFixtureRegistry(t, nil)

		obs := New(reg).Execute(context.Background(), "deploy", nil)

		assert.Equal(t, "Error: Unknown tool 'deploy'", obs)
	})

	t.Run("invalid arguments name the tool and fields", func(t *testing.T) {
		called := false
		reg := newFixtureRegistry(t, reagent.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			called = true
			return nil, nil
		}))

		obs := New(reg).Execute(context.Background(), "search_features", reagent.Args{
			{Key: "limit", Value: reagent.IntValue(3)},
		})

		assert.True(t, strings.HasPrefix(obs, "Error: Invalid arguments for 'search_features':"), obs)
		assert.Contains(t, obs, "query")
		assert.False(t, called, "handler must not run on invalid arguments")
	})

	t.Run("nil handler reports a dry run", func(t *testing.T) {
		reg := newFixtureRegistry(t, nil)

		obs := New(reg).Execute(context.Background(), "search_features", queryArgs())

		assert.Equal(t,
			`Tool 'search_features' called with (query="CRUD"). No handler attached; dry run only.`,
			obs)
	})

	t.Run("handler error becomes an observation", func(t *testing.T) {
		reg := newFixtureRegistry(t, reagent.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("backend unavailable")
		}))

		obs := New(reg).Execute(context.Background(), "search_features", queryArgs())

		assert.Equal(t, "Error executing search_features: backend unavailable", obs)
	})

	t.Run("handler panic is contained", func(t *testing.T) {
		reg := newFixtureRegistry(t, reagent.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			panic("index out of range")
		}))

		obs := New(reg).Execute(context.Background(), "search_features", queryArgs())

		assert.Equal(t, "Error executing search_features: handler panic: index out of range", obs)
	})
}

// asyncHandler exposes the channel-based capability alongside the
// blocking Invoke, the way long-running tools do.
type asyncHandler struct {
	result reagent.HandlerResult
	delay  time.Duration
	close  bool
}

func (h *asyncHandler) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return h.result.Output, h.result.Err
}

func (h *asyncHandler) Start(ctx context.Context, args map[string]any) <-chan reagent.HandlerResult {
	ch := make(chan reagent.HandlerResult, 1)
	go func() {
		if h.delay > 0 {
			select {
			case <-time.After(h.delay):
			case <-ctx.Done():
				close(ch)
				return
			}
		}
		if h.close {
			close(ch)
			return
		}
		ch <- h.result
	}()
	return ch
}

func TestExecutor_AsyncHandlers(t *testing.T) {
	t.Run("async result becomes the observation", func(t *testing.T) {
		reg := newFixtureRegistry(t, &asyncHandler{
			result: reagent.HandlerResult{Output: "Found: CRUD API (4h)"},
		})

		obs := New(reg).Execute(context.Background(), "search_features", queryArgs())

		assert.Equal(t, "Found: CRUD API (4h)", obs)
	})

	t.Run("async error becomes an observation", func(t *testing.T) {
		reg := newFixtureRegistry(t, &asyncHandler{
			result: reagent.HandlerResult{Err: errors.New("timed out upstream")},
		})

		obs := New(reg).Execute(context.Background(), "search_features", queryArgs())

		assert.Equal(t, "Error executing search_features: timed out upstream", obs)
	})

	t.Run("closed channel without result", func(t *testing.T) {
		reg := newFixtureRegistry(t, &asyncHandler{close: true})

		obs := New(reg).Execute(context.Background(), "search_features", queryArgs())

		assert.Equal(t,
			"Error executing search_features: handler closed result channel without a result",
			obs)
	})

	t.Run("context cancellation wins over a slow handler", func(t *testing.T) {
		reg := newFixtureRegistry(t, &asyncHandler{
			result: reagent.HandlerResult{Output: "too late"},
			delay:  5 * time.Second,
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		obs := New(reg).Execute(ctx, "search_features", queryArgs())

		assert.Equal(t, "Error executing search_features: context canceled", obs)
	})
}

type releaseNote struct {
	Feature string `yaml:"feature"`
	Hours   int    `yaml:"hours"`
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name     string
		output   any
		expected string
	}{
		{
			name:     "nil output",
			output:   nil,
			expected: "",
		},
		{
			name:     "string passes through",
			output:   "plain text",
			expected: "plain text",
		},
		{
			name:     "error renders its message",
			output:   errors.New("soft failure"),
			expected: "soft failure",
		},
		{
			name:     "struct marshals as yaml",
			output:   releaseNote{Feature: "CRUD API", Hours: 4},
			expected: "feature: CRUD API\nhours: 4",
		},
		{
			name:     "map keys are sorted",
			output:   map[string]any{"b": 2, "a": 1},
			expected: "a: 1\nb: 2",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stringify(tc.output))
		})
	}
}
