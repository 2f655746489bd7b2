package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reagent-dev/reagent"
)

func TestScanCall_ArgumentForms(t *testing.T) {
	type expected struct {
		name string
		args reagent.Args
	}

	tests := []struct {
		name     string
		src      string
		expected expected
	}{
		{
			name: "double-quoted value keeps commas and spaces",
			src:  `send(subject="Hello, world", urgent=true)`,
			expected: expected{
				name: "send",
				args: reagent.Args{
					{Key: "subject", Value: reagent.StringValue("Hello, world")},
					{Key: "urgent", Value: reagent.BoolValue(true)},
				},
			},
		},
		{
			name: "single-quoted value",
			src:  `greet(name='Ada')`,
			expected: expected{
				name: "greet",
				args: reagent.Args{
					{Key: "name", Value: reagent.StringValue("Ada")},
				},
			},
		},
		{
			name: "escaped quote inside string",
			src:  `say(text="she said \"hi\"")`,
			expected: expected{
				name: "say",
				args: reagent.Args{
					{Key: "text", Value: reagent.StringValue(`she said "hi"`)},
				},
			},
		},
		{
			name: "escaped newline and tab",
			src:  `write(body="line one\nline two\tend")`,
			expected: expected{
				name: "write",
				args: reagent.Args{
					{Key: "body", Value: reagent.StringValue("line one\nline two\tend")},
				},
			},
		},
		{
			name: "whitespace around pairs is insignificant",
			src:  "f(  a = 1 ,\n  b = \"x\"  )",
			expected: expected{
				name: "f",
				args: reagent.Args{
					{Key: "a", Value: reagent.IntValue(1)},
					{Key: "b", Value: reagent.StringValue("x")},
				},
			},
		},
		{
			name:     "empty argument list",
			src:      "ping()",
			expected: expected{name: "ping", args: nil},
		},
		{
			name: "missing close paren keeps parsed args",
			src:  `search(query="open", limit=2`,
			expected: expected{
				name: "search",
				args: reagent.Args{
					{Key: "query", Value: reagent.StringValue("open")},
					{Key: "limit", Value: reagent.IntValue(2)},
				},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			name, args, ok := newScanner(tc.src).scanCall()

			require.True(t, ok)
			assert.Equal(t, tc.expected.name, name)
			assert.Equal(t, tc.expected.args, args)
		})
	}
}

func TestScanCall_MalformedPairsDroppedIndividually(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected reagent.Args
	}{
		{
			name: "pair without equals is dropped",
			src:  `f(junk, a=1)`,
			expected: reagent.Args{
				{Key: "a", Value: reagent.IntValue(1)},
			},
		},
		{
			name: "unbalanced quote drops that pair only when later comma is quoted",
			src:  `f(a=1, b="broken)`,
			expected: reagent.Args{
				{Key: "a", Value: reagent.IntValue(1)},
			},
		},
		{
			name: "junk after a complete value drops the pair",
			src:  `f(a="x" stray, b=2)`,
			expected: reagent.Args{
				{Key: "b", Value: reagent.IntValue(2)},
			},
		},
		{
			name: "key without value is dropped",
			src:  `f(a=, b=2)`,
			expected: reagent.Args{
				{Key: "b", Value: reagent.IntValue(2)},
			},
		},
		{
			name:     "all pairs malformed yields empty args",
			src:      `f(one two, three)`,
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			name, args, ok := newScanner(tc.src).scanCall()

			require.True(t, ok)
			assert.Equal(t, "f", name)
			assert.Equal(t, tc.expected, args)
		})
	}
}

func TestScanCall_NoWellFormedHead(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "no identifier", src: `(a=1)`},
		{name: "identifier without paren", src: `search query="x"`},
		{name: "empty input", src: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, ok := newScanner(tc.src).scanCall()

			assert.False(t, ok)
		})
	}
}
