// Package registry provides the in-memory [reagent.Registry]
// implementation.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/reagent-dev/reagent"
	"github.com/reagent-dev/reagent/schema"
)

// InMemory is a map-backed tool registry. Registration compiles each
// tool's parameter schema once; lookup and validation afterwards are
// read-only and safe for concurrent use by independent loop
// instances.
type InMemory struct {
	mu       sync.RWMutex
	names    []string // registration order, for a stable catalog
	tools    map[string]*reagent.ToolDescriptor
	compiled map[string]*schema.Schema
}

// New creates an empty registry.
func New() *InMemory {
	return &InMemory{
		tools:    make(map[string]*reagent.ToolDescriptor),
		compiled: make(map[string]*schema.Schema),
	}
}

// Register adds a tool descriptor. The descriptor's schema is compiled
// eagerly so a broken schema surfaces here rather than mid-run.
func (r *InMemory) Register(d *reagent.ToolDescriptor) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("registry: descriptor must have a name")
	}

	compiled, err := schema.Compile(d.Schema)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", reagent.ErrInvalidSchema, d.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[d.Name]; exists {
		return fmt.Errorf("%w: %s", reagent.ErrDuplicateTool, d.Name)
	}
	r.names = append(r.names, d.Name)
	r.tools[d.Name] = d
	r.compiled[d.Name] = compiled
	return nil
}

// MustRegister is like Register but panics on error. For fixed tool
// sets wired at startup.
func (r *InMemory) MustRegister(d *reagent.ToolDescriptor) *InMemory {
	if err := r.Register(d); err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the descriptor for name, or nil when unknown.
func (r *InMemory) Lookup(name string) *reagent.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Validate checks args against the named tool's compiled schema. The
// returned list is empty when valid; an unknown name yields a single
// entry naming it.
func (r *InMemory) Validate(name string, args map[string]any) []string {
	r.mu.RLock()
	compiled, known := r.compiled[name]
	r.mu.RUnlock()

	if !known {
		return []string{fmt.Sprintf("unknown tool '%s'", name)}
	}
	if args == nil {
		args = map[string]any{}
	}
	return compiled.Errors(args)
}

// Describe renders the tool catalog for the system prompt: one entry
// per tool in registration order, parameter schemas marshaled as
// YAML for readability.
func (r *InMemory) Describe() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.names) == 0 {
		return "No tools are available."
	}

	var sb strings.Builder
	sb.WriteString("Available tools:\n")
	for _, name := range r.names {
		d := r.tools[name]
		fmt.Fprintf(&sb, "\n- %s: %s\n", d.Name, d.Description)
		if d.Schema == nil {
			continue
		}
		schemaYAML, err := yaml.Marshal(d.Schema)
		if err != nil {
			continue
		}
		sb.WriteString("  Parameters:\n")
		for _, line := range strings.Split(string(schemaYAML), "\n") {
			if line == "" {
				continue
			}
			sb.WriteString("    ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Compile-time check that InMemory implements reagent.Registry.
var _ reagent.Registry = (*InMemory)(nil)
