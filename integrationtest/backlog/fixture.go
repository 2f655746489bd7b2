// Package backlog provides an integration test scenario: a project
// planning assistant that answers estimation questions over a feature
// backlog.
package backlog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/reagent-dev/reagent"
	"github.com/reagent-dev/reagent/registry"
	"github.com/reagent-dev/reagent/schema"
)

// -----------------------------------------------------------------------------
// Data Types
// -----------------------------------------------------------------------------

type Feature struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Tag      string `json:"tag" yaml:"tag"`       // api, ui, infra
	Status   string `json:"status" yaml:"status"` // planned, in_progress, done
	Hours    int    `json:"hours" yaml:"hours"`
	Assignee string `json:"assignee" yaml:"assignee"`
}

// Store is an in-memory feature backlog. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	features map[string]*Feature
	nextID   int
}

// NewStore creates a Store seeded with a small backlog.
func NewStore() *Store {
	s := &Store{
		features: make(map[string]*Feature),
		nextID:   1,
	}
	for _, f := range []*Feature{
		{Name: "CRUD API", Tag: "api", Status: "planned", Hours: 4, Assignee: "dana"},
		{Name: "Login page", Tag: "ui", Status: "planned", Hours: 6, Assignee: "li"},
		{Name: "Search endpoint", Tag: "api", Status: "in_progress", Hours: 8, Assignee: "dana"},
		{Name: "Billing webhooks", Tag: "api", Status: "planned", Hours: 12, Assignee: "mo"},
		{Name: "Deploy pipeline", Tag: "infra", Status: "done", Hours: 10, Assignee: "sam"},
	} {
		s.add(f)
	}
	return s
}

func (s *Store) add(f *Feature) *Feature {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = fmt.Sprintf("F%03d", s.nextID)
	s.nextID++
	s.features[f.ID] = f
	return f
}

// Get returns the feature with the given ID, or nil.
func (s *Store) Get(id string) *Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.features[id]
}

// Search returns features whose name contains the query,
// case-insensitively, ordered by ID.
func (s *Store) Search(query string) []*Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Feature
	for _, f := range s.features {
		if strings.Contains(strings.ToLower(f.Name), strings.ToLower(query)) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByTag returns features carrying the tag, ordered by ID.
func (s *Store) ByTag(tag string) []*Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Feature
	for _, f := range s.features {
		if f.Tag == tag {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// -----------------------------------------------------------------------------
// Tools
// -----------------------------------------------------------------------------

// NewRegistry builds the planning assistant's tool set over the store.
func NewRegistry(store *Store) *registry.InMemory {
	return registry.New().
		MustRegister(&reagent.ToolDescriptor{
			Name:        "search_features",
			Description: "Search the feature backlog by a keyword in the feature name.",
			Schema: schema.Object(map[string]*schema.Property{
				"query": schema.String("Keyword to search for"),
				"limit": schema.Integer("Maximum number of results").Min(1).Default(10),
			}, "query"),
			Handler: reagent.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				query, _ := args["query"].(string)
				matches := store.Search(query)
				if limit, ok := args["limit"].(int64); ok && int(limit) < len(matches) {
					matches = matches[:limit]
				}
				if len(matches) == 0 {
					return fmt.Sprintf("No features match '%s'", query), nil
				}

				var lines []string
				for _, f := range matches {
					lines = append(lines, fmt.Sprintf("Found: %s (%dh)", f.Name, f.Hours))
				}
				return strings.Join(lines, "\n"), nil
			}),
		}).
		MustRegister(&reagent.ToolDescriptor{
			Name:        "get_feature",
			Description: "Get the full record of one feature by its ID.",
			Schema: schema.Object(map[string]*schema.Property{
				"id": schema.String("Feature ID, e.g. F001").Pattern(`^F[0-9]{3}$`),
			}, "id"),
			Handler: reagent.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				id, _ := args["id"].(string)
				f := store.Get(id)
				if f == nil {
					return nil, fmt.Errorf("no feature with ID %s", id)
				}
				return f, nil
			}),
		}).
		MustRegister(&reagent.ToolDescriptor{
			Name:        "estimate_tag",
			Description: "Sum the estimated hours of all features carrying a tag.",
			Schema: schema.Object(map[string]*schema.Property{
				"tag": schema.String("Feature tag").Enum("api", "ui", "infra"),
				"include_done": schema.Boolean(
					"Include features that are already done").Default(false),
			}, "tag"),
			Handler: reagent.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				tag, _ := args["tag"].(string)
				includeDone, _ := args["include_done"].(bool)

				total := 0
				count := 0
				for _, f := range store.ByTag(tag) {
					if f.Status == "done" && !includeDone {
						continue
					}
					total += f.Hours
					count++
				}
				return fmt.Sprintf("%d features tagged '%s', %d hours total", count, tag, total), nil
			}),
		}).
		MustRegister(&reagent.ToolDescriptor{
			Name:        "add_feature",
			Description: "Add a new feature to the backlog.",
			Schema: schema.Object(map[string]*schema.Property{
				"name":  schema.String("Feature name"),
				"tag":   schema.String("Feature tag").Enum("api", "ui", "infra"),
				"hours": schema.Integer("Estimated hours").Min(1),
			}, "name", "tag", "hours"),
			Handler: reagent.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				name, _ := args["name"].(string)
				tag, _ := args["tag"].(string)
				hours, _ := args["hours"].(int64)

				f := store.add(&Feature{
					Name:   name,
					Tag:    tag,
					Status: "planned",
					Hours:  int(hours),
				})
				return fmt.Sprintf("Added %s: %s (%dh)", f.ID, f.Name, f.Hours), nil
			}),
		})
}

// SystemPrompt is the behavioral context used by the scenario runs.
const SystemPrompt = `You are a project planning assistant for an engineering team.
Answer estimation questions using the backlog tools. Report estimates in hours.`
