package mcp

import (
	"testing"

	"github.com/lecternhq/lectern/internal/tools"
)

func TestMCPToolConversion(t *testing.T) {
	def := tools.Definition{
		Name:        "search_course_content",
		Description: "Search course materials",
		InputSchema: tools.Schema{
			Type: "object",
			Properties: map[string]tools.Property{
				"query":         {Type: "string", Description: "What to search for"},
				"lesson_number": {Type: "integer"},
			},
			Required: []string{"query"},
		},
	}

	tool := mcpTool(def)

	if tool.Name != "search_course_content" || tool.Description != "Search course materials" {
		t.Errorf("tool = %+v", tool)
	}
	if tool.InputSchema.Type != "object" {
		t.Errorf("schema type = %q, want object", tool.InputSchema.Type)
	}

	query, ok := tool.InputSchema.Properties["query"].(map[string]interface{})
	if !ok {
		t.Fatalf("query property = %T", tool.InputSchema.Properties["query"])
	}
	if query["type"] != "string" || query["description"] != "What to search for" {
		t.Errorf("query property = %v", query)
	}

	lesson, ok := tool.InputSchema.Properties["lesson_number"].(map[string]interface{})
	if !ok {
		t.Fatalf("lesson property = %T", tool.InputSchema.Properties["lesson_number"])
	}
	if _, has := lesson["description"]; has {
		t.Errorf("empty description should be omitted, got %v", lesson)
	}

	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "query" {
		t.Errorf("required = %v, want [query]", tool.InputSchema.Required)
	}
}

func TestMCPToolEmptyRequired(t *testing.T) {
	tool := mcpTool(tools.Definition{
		Name:        "get_course_outline",
		InputSchema: tools.Schema{Type: "object"},
	})

	// Clients expect an array even when no parameter is required.
	if tool.InputSchema.Required == nil {
		t.Error("Required is nil, want empty slice")
	}
}

func TestArgumentsMap(t *testing.T) {
	args := argumentsMap(map[string]interface{}{"query": "rag", "lesson_number": float64(2)})
	if args["query"] != "rag" {
		t.Errorf("query = %v", args["query"])
	}
	if args["lesson_number"] != float64(2) {
		t.Errorf("lesson_number = %v", args["lesson_number"])
	}

	if got := argumentsMap(nil); len(got) != 0 {
		t.Errorf("nil arguments = %v, want empty map", got)
	}
	if got := argumentsMap("not an object"); len(got) != 0 {
		t.Errorf("scalar arguments = %v, want empty map", got)
	}
}
