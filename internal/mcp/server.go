// Package mcp exposes the course search tools over the Model Context
// Protocol so MCP clients can query the index directly.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lecternhq/lectern/internal/tools"
)

const (
	serverName    = "Lectern Course Search"
	serverVersion = "1.0.0"
)

// Server implements the MCP server over the tool registry
type Server struct {
	registry  *tools.Registry
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server exposing every registered tool
func NewServer(registry *tools.Registry) *Server {
	s := &Server{registry: registry}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)

	// Register tools
	for _, def := range registry.Definitions() {
		s.mcpServer.AddTool(mcpTool(def), s.handler(def.Name))
	}

	return s
}

// mcpTool converts a registry definition into the MCP tool shape
func mcpTool(def tools.Definition) mcp.Tool {
	props := make(map[string]interface{}, len(def.InputSchema.Properties))
	for name, p := range def.InputSchema.Properties {
		prop := map[string]interface{}{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		props[name] = prop
	}

	required := def.InputSchema.Required
	if required == nil {
		required = []string{}
	}

	return mcp.Tool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: mcp.ToolInputSchema{
			Type:       def.InputSchema.Type,
			Properties: props,
			Required:   required,
		},
	}
}

// handler delegates a tool call to the registry. Tool failures become
// error results rather than protocol errors.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, _, err := s.registry.Execute(ctx, name, argumentsMap(request.Params.Arguments))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

// argumentsMap converts MCP request arguments to the registry's form
func argumentsMap(args interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	data, err := json.Marshal(args)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(data, &out)
	return out
}

// Serve starts the MCP server with stdio transport
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}
