package tools

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lecternhq/lectern/internal/domain"
)

type fakeSearcher struct {
	results      []domain.SearchResult
	err          error
	links        map[string]string
	lastCourse   *string
	lastLesson   *int
	lastQuery    string
	searchCalled bool
}

func (f *fakeSearcher) Search(ctx context.Context, query string, courseName *string, lessonNumber *int, limit int) ([]domain.SearchResult, error) {
	f.searchCalled = true
	f.lastQuery = query
	f.lastCourse = courseName
	f.lastLesson = lessonNumber
	return f.results, f.err
}

func (f *fakeSearcher) LessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error) {
	return f.links[fmt.Sprintf("%s/%d", courseTitle, lessonNumber)], nil
}

func intPtr(n int) *int { return &n }

func result(course string, lesson *int, content string) domain.SearchResult {
	return domain.SearchResult{
		Chunk: domain.CourseChunk{Content: content, CourseTitle: course, LessonNumber: lesson},
	}
}

func TestSearchToolFormatsResults(t *testing.T) {
	searcher := &fakeSearcher{
		results: []domain.SearchResult{
			result("Building RAG Chatbots", intPtr(1), "Chunking splits documents into pieces."),
			result("Building RAG Chatbots", nil, "This course covers retrieval systems."),
		},
		links: map[string]string{"Building RAG Chatbots/1": "https://example.com/rag/1"},
	}
	tool := NewSearchTool(searcher)

	text, sources, err := tool.Execute(context.Background(), map[string]any{"query": "what is chunking"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := "[Building RAG Chatbots - Lesson 1]\nChunking splits documents into pieces." +
		"\n\n[Building RAG Chatbots]\nThis course covers retrieval systems."
	if text != want {
		t.Errorf("Execute() text = %q, want %q", text, want)
	}

	if len(sources) != 2 {
		t.Fatalf("Execute() returned %d sources, want 2", len(sources))
	}
	if sources[0].Text != "Building RAG Chatbots - Lesson 1" || sources[0].Link != "https://example.com/rag/1" {
		t.Errorf("sources[0] = %+v", sources[0])
	}
	if sources[1].Text != "Building RAG Chatbots" || sources[1].Link != "" {
		t.Errorf("sources[1] = %+v", sources[1])
	}
}

func TestSearchToolEmptyResults(t *testing.T) {
	course := "MCP"
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "no filters",
			args: map[string]any{"query": "q"},
			want: "No relevant content found.",
		},
		{
			name: "course filter",
			args: map[string]any{"query": "q", "course_name": course},
			want: "No relevant content found in course 'MCP'.",
		},
		{
			name: "lesson filter",
			args: map[string]any{"query": "q", "lesson_number": float64(3)},
			want: "No relevant content found in lesson 3.",
		},
		{
			name: "both filters",
			args: map[string]any{"query": "q", "course_name": course, "lesson_number": float64(3)},
			want: "No relevant content found in course 'MCP' in lesson 3.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewSearchTool(&fakeSearcher{})
			text, sources, err := tool.Execute(context.Background(), tt.args)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if text != tt.want {
				t.Errorf("Execute() text = %q, want %q", text, tt.want)
			}
			if len(sources) != 0 {
				t.Errorf("Execute() sources = %v, want none", sources)
			}
		})
	}
}

func TestSearchToolUnknownCourse(t *testing.T) {
	searcher := &fakeSearcher{err: fmt.Errorf("%w: Quantum Basket Weaving", domain.ErrCourseNotFound)}
	tool := NewSearchTool(searcher)

	text, sources, err := tool.Execute(context.Background(), map[string]any{
		"query":       "q",
		"course_name": "Quantum Basket Weaving",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if text != "No course found matching 'Quantum Basket Weaving'" {
		t.Errorf("Execute() text = %q", text)
	}
	if len(sources) != 0 {
		t.Errorf("Execute() sources = %v, want none", sources)
	}
}

func TestSearchToolSearchErrorPropagates(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("index offline")}
	tool := NewSearchTool(searcher)

	if _, _, err := tool.Execute(context.Background(), map[string]any{"query": "q"}); err == nil {
		t.Fatal("Execute() with failing searcher succeeded, want error")
	}
}

func TestSearchToolArgumentHandling(t *testing.T) {
	searcher := &fakeSearcher{}
	tool := NewSearchTool(searcher)

	// lesson_number arrives as a JSON float64 and must convert.
	_, _, err := tool.Execute(context.Background(), map[string]any{
		"query":         "goroutines",
		"course_name":   "Go Fundamentals",
		"lesson_number": float64(2),
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if searcher.lastQuery != "goroutines" {
		t.Errorf("query = %q", searcher.lastQuery)
	}
	if searcher.lastCourse == nil || *searcher.lastCourse != "Go Fundamentals" {
		t.Errorf("course = %v", searcher.lastCourse)
	}
	if searcher.lastLesson == nil || *searcher.lastLesson != 2 {
		t.Errorf("lesson = %v", searcher.lastLesson)
	}

	// An empty course_name means unfiltered, not a filter on "".
	if _, _, err := tool.Execute(context.Background(), map[string]any{"query": "q", "course_name": ""}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if searcher.lastCourse != nil {
		t.Errorf("course = %v, want nil for empty name", searcher.lastCourse)
	}
	if searcher.lastLesson != nil {
		t.Errorf("lesson = %v, want nil when absent", searcher.lastLesson)
	}
}

func TestSearchToolMissingQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	tool := NewSearchTool(searcher)

	if _, _, err := tool.Execute(context.Background(), map[string]any{}); err == nil {
		t.Fatal("Execute() without query succeeded, want error")
	}
	if searcher.searchCalled {
		t.Error("search ran without a query")
	}
}

func TestSearchToolDefinition(t *testing.T) {
	def := NewSearchTool(&fakeSearcher{}).Definition()

	if def.Name != "search_course_content" {
		t.Errorf("Name = %q", def.Name)
	}
	if def.InputSchema.Type != "object" {
		t.Errorf("schema type = %q", def.InputSchema.Type)
	}
	for _, p := range []string{"query", "course_name", "lesson_number"} {
		if _, ok := def.InputSchema.Properties[p]; !ok {
			t.Errorf("schema missing property %q", p)
		}
	}
	if len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "query" {
		t.Errorf("required = %v, want [query]", def.InputSchema.Required)
	}
	if def.InputSchema.Properties["lesson_number"].Type != "integer" {
		t.Errorf("lesson_number type = %q", def.InputSchema.Properties["lesson_number"].Type)
	}
}
