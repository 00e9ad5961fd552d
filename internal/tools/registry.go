package tools

import (
	"context"
	"fmt"

	"github.com/lecternhq/lectern/internal/domain"
)

// Registry holds the registered tools. Register everything during
// startup; lookups after that are read-only and safe to share.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering the same name twice is an error.
func (r *Registry) Register(t Tool) error {
	name := t.Definition().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Definitions lists every tool definition in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute dispatches to the named tool. An unknown name is an internal
// consistency fault and returns ErrUnknownTool.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, []domain.Source, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}
	return t.Execute(ctx, args)
}
