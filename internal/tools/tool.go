// Package tools defines the callable tools the reasoning engine can
// invoke during a query, and the registry that dispatches to them.
package tools

import (
	"context"

	"github.com/lecternhq/lectern/internal/domain"
)

// Property describes one parameter in a tool's input schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Schema is a JSON Schema object definition, the wire shape the
// Messages API expects for tool input.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Definition is a tool's self-description, exposed both to the engine
// and over MCP.
type Definition struct {
	Name        string
	Description string
	InputSchema Schema
}

// Tool executes one named capability. Execute returns the textual
// result plus the citation sources for this call only; tools hold no
// per-call state, so concurrent queries never see each other's
// sources.
type Tool interface {
	Definition() Definition
	Execute(ctx context.Context, args map[string]any) (string, []domain.Source, error)
}
