package registry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reagent-dev/reagent"
	"github.com/reagent-dev/reagent/schema"
)

func searchTool() *reagent.ToolDescriptor {
	return &reagent.ToolDescriptor{
		Name:        "search_features",
		Description: "Search the feature backlog by keyword.",
		Schema: schema.Object(map[string]*schema.Property{
			"query": schema.String("Search keyword"),
			"limit": schema.Integer("Max results").Min(1),
		}, "query"),
		Handler: reagent.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			return "Found: CRUD API (4h)", nil
		}),
	}
}

func TestInMemory_Register(t *testing.T) {
	t.Run("registers and looks up", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register(searchTool()))

		d := r.Lookup("search_features")
		require.NotNil(t, d)
		assert.Equal(t, "search_features", d.Name)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register(searchTool()))

		err := r.Register(searchTool())
		require.Error(t, err)
		assert.ErrorIs(t, err, reagent.ErrDuplicateTool)
	})

	t.Run("broken schema rejected at registration", func(t *testing.T) {
		r := New()
		err := r.Register(&reagent.ToolDescriptor{
			Name:   "broken",
			Schema: map[string]any{"type": "no-such-type"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, reagent.ErrInvalidSchema)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		r := New()
		assert.Error(t, r.Register(&reagent.ToolDescriptor{}))
		assert.Error(t, r.Register(nil))
	})

	t.Run("MustRegister chains and panics", func(t *testing.T) {
		r := New().MustRegister(searchTool())
		assert.NotNil(t, r.Lookup("search_features"))

		assert.Panics(t, func() {
			r.MustRegister(searchTool())
		})
	})
}

func TestInMemory_Lookup(t *testing.T) {
	r := New().MustRegister(searchTool())

	assert.NotNil(t, r.Lookup("search_features"))
	assert.Nil(t, r.Lookup("no_such_tool"))
}

func TestInMemory_Validate(t *testing.T) {
	r := New().MustRegister(searchTool())

	type input struct {
		tool string
		args map[string]any
	}

	tests := []struct {
		name           string
		input          input
		expectValid    bool
		expectMentions string
	}{
		{
			name:        "valid args",
			input:       input{tool: "search_features", args: map[string]any{"query": "CRUD", "limit": int64(3)}},
			expectValid: true,
		},
		{
			name:        "nil args checked against required",
			input:       input{tool: "search_features", args: nil},
			expectValid: false,
		},
		{
			name:           "unknown tool named in violation",
			input:          input{tool: "deploy", args: map[string]any{}},
			expectValid:    false,
			expectMentions: "deploy",
		},
		{
			name:           "type violation names the field",
			input:          input{tool: "search_features", args: map[string]any{"query": "CRUD", "limit": "three"}},
			expectValid:    false,
			expectMentions: "limit",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			violations := r.Validate(tc.input.tool, tc.input.args)
			if tc.expectValid {
				assert.Empty(t, violations)
				return
			}
			require.NotEmpty(t, violations)
			if tc.expectMentions != "" {
				assert.Contains(t, strings.Join(violations, "; "), tc.expectMentions)
			}
		})
	}
}

func TestInMemory_Describe(t *testing.T) {
	t.Run("empty registry", func(t *testing.T) {
		assert.Equal(t, "No tools are available.", New().Describe())
	})

	t.Run("catalog lists tools in registration order", func(t *testing.T) {
		r := New().
			MustRegister(&reagent.ToolDescriptor{
				Name:        "zeta",
				Description: "Registered first.",
			}).
			MustRegister(searchTool())

		out := r.Describe()
		assert.True(t, strings.HasPrefix(out, "Available tools:\n"))
		assert.Contains(t, out, "- zeta: Registered first.\n")
		assert.Contains(t, out, "- search_features: Search the feature backlog by keyword.\n")
		assert.Less(t, strings.Index(out, "zeta"), strings.Index(out, "search_features"))
	})

	t.Run("schemas rendered as indented yaml", func(t *testing.T) {
		out := New().MustRegister(searchTool()).Describe()
		assert.Contains(t, out, "  Parameters:\n")
		assert.Contains(t, out, "    type: object\n")
		assert.Contains(t, out, "query")
	})

	t.Run("schemaless tool has no parameters block", func(t *testing.T) {
		out := New().MustRegister(&reagent.ToolDescriptor{
			Name:        "ping",
			Description: "Liveness check.",
		}).Describe()
		assert.NotContains(t, out, "Parameters:")
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		r := New().MustRegister(searchTool())
		assert.Equal(t, r.Describe(), r.Describe())
	})
}
