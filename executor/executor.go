// Package executor turns parsed actions into observation strings.
//
// The executor is the containment boundary for everything that can go
// wrong while acting on the model's behalf: unknown tools, invalid
// arguments, handler errors, and handler panics all become printable
// observations that are fed back for the model to self-correct on the
// next turn. Execute never fails out to its caller.
package executor

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reagent-dev/reagent"
)

// Executor validates and runs tool calls against a registry.
type Executor struct {
	registry reagent.Registry
}

// New creates an Executor over the given registry.
func New(registry reagent.Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute looks up, validates, and invokes the named tool, converting
// the outcome into an observation string. Failures are reported as
// "Error: ..." observations, never as errors or panics.
func (e *Executor) Execute(ctx context.Context, name string, args reagent.Args) string {
	tool := e.registry.Lookup(name)
	if tool == nil {
		return fmt.Sprintf("Error: Unknown tool '%s'", name)
	}

	if violations := e.registry.Validate(name, args.Map()); len(violations) > 0 {
		return fmt.Sprintf(
			"Error: Invalid arguments for '%s': %s",
			name, strings.Join(violations, "; "))
	}

	if tool.Handler == nil {
		return fmt.Sprintf("Tool '%s' called with (%s). No handler attached; dry run only.",
			name, args.String())
	}

	output, err := invoke(ctx, tool.Handler, args.Map())
	if err != nil {
		return fmt.Sprintf("Error executing %s: %v", name, err)
	}
	return stringify(output)
}

// invoke runs the handler through its async capability when it has
// one, blocking otherwise. Both paths share a single await point and
// a panic guard; a panicking handler surfaces as an error, not a
// crashed loop.
func invoke(ctx context.Context, h reagent.Handler, args map[string]any) (output any, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	if ah, ok := h.(reagent.AsyncHandler); ok {
		ch := ah.Start(ctx, args)
		select {
		case res, open := <-ch:
			if !open {
				return nil, fmt.Errorf("handler closed result channel without a result")
			}
			return res.Output, res.Err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return h.Invoke(ctx, args)
}

// stringify renders a handler's output as the observation text.
// Strings pass through; structured outputs are marshaled as YAML so
// the model reads them the same way the tool catalog is written.
func stringify(output any) string {
	switch v := output.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}

	data, err := yaml.Marshal(output)
	if err != nil {
		return fmt.Sprintf("%v", output)
	}
	return strings.TrimRight(string(data), "\n")
}
