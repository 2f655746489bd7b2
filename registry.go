package reagent

import (
	"context"
	"errors"
)

// Registry errors.
var (
	ErrDuplicateTool = errors.New("tool with this name already registered")
	ErrInvalidSchema = errors.New("tool parameter schema failed to compile")
)

// Registry holds named tool descriptors and validates proposed calls
// against their parameter schemas.
//
// The loop only reads the registry; it never mutates descriptors.
// Multiple loop instances may share one registry concurrently, so
// Describe, Lookup, and Validate must be safe for concurrent use.
// Handler invocation is the only side-effecting operation and must be
// safe to call reentrantly; that contract is the handler owner's to
// uphold.
type Registry interface {
	// Describe returns a human-readable catalog of tool names and
	// parameters for inclusion in the system message.
	Describe() string

	// Lookup returns the descriptor for name, or nil when unknown.
	Lookup(name string) *ToolDescriptor

	// Validate checks args against the named tool's parameter schema.
	// An empty list means valid. Each entry describes one specific
	// missing or invalid field.
	Validate(name string, args map[string]any) []string
}

// ToolDescriptor describes a single invocable tool.
type ToolDescriptor struct {
	// Name is the unique key the model uses to request the tool.
	Name string

	// Description is a human-readable summary for the tool catalog.
	Description string

	// Schema is the JSON Schema for the tool's arguments. Nil means
	// the tool takes no parameters and any args validate.
	Schema map[string]any

	// Handler executes the tool. Nil handlers are legal: the executor
	// produces a deterministic dry-run observation instead of failing,
	// which keeps descriptor-only registries usable in tests.
	Handler Handler
}

// Handler executes a tool call with validated arguments.
//
// A handler may also implement [AsyncHandler]; the executor then uses
// the asynchronous path instead. Either way there is exactly one
// logical await point per call.
type Handler interface {
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// HandlerFunc adapts a plain function into a [Handler].
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// Invoke calls the wrapped function.
func (f HandlerFunc) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return f(ctx, args)
}

// AsyncHandler is the non-blocking handler capability. Start begins
// execution and returns a channel that delivers exactly one
// HandlerResult. The executor selects on the channel and ctx.Done,
// so implementations should honor cancellation.
type AsyncHandler interface {
	Start(ctx context.Context, args map[string]any) <-chan HandlerResult
}

// HandlerResult is the single outcome delivered by an AsyncHandler.
type HandlerResult struct {
	Output any
	Err    error
}
