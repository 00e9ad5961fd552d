package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lecternhq/lectern/internal/domain"
)

// Searcher is the slice of the search adapter the tool needs.
type Searcher interface {
	Search(ctx context.Context, query string, courseName *string, lessonNumber *int, limit int) ([]domain.SearchResult, error)
	LessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error)
}

// SearchTool answers content questions by semantic search over the
// chunk index, optionally scoped to a course and lesson.
type SearchTool struct {
	searcher Searcher
}

func NewSearchTool(searcher Searcher) *SearchTool {
	return &SearchTool{searcher: searcher}
}

func (t *SearchTool) Definition() Definition {
	return Definition{
		Name:        "search_course_content",
		Description: "Search course materials with optional course and lesson filtering",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]Property{
				"query": {
					Type:        "string",
					Description: "What to search for in the course content",
				},
				"course_name": {
					Type:        "string",
					Description: "Exact course title to restrict the search to",
				},
				"lesson_number": {
					Type:        "integer",
					Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			Required: []string{"query"},
		},
	}
}

func (t *SearchTool) Execute(ctx context.Context, args map[string]any) (string, []domain.Source, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return "", nil, errors.New("missing required parameter: query")
	}

	var courseName *string
	if v, ok := args["course_name"].(string); ok && v != "" {
		courseName = &v
	}
	var lessonNumber *int
	switch v := args["lesson_number"].(type) {
	case float64: // JSON numbers arrive as float64
		n := int(v)
		lessonNumber = &n
	case int:
		lessonNumber = &v
	}

	results, err := t.searcher.Search(ctx, query, courseName, lessonNumber, 0)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) && courseName != nil {
			return fmt.Sprintf("No course found matching '%s'", *courseName), nil, nil
		}
		return "", nil, err
	}
	if len(results) == 0 {
		return emptyResultMessage(courseName, lessonNumber), nil, nil
	}
	return t.formatResults(ctx, results)
}

// emptyResultMessage names the filters that were in effect so the
// engine can tell the user where it looked.
func emptyResultMessage(courseName *string, lessonNumber *int) string {
	var b strings.Builder
	b.WriteString("No relevant content found")
	if courseName != nil {
		fmt.Fprintf(&b, " in course '%s'", *courseName)
	}
	if lessonNumber != nil {
		fmt.Fprintf(&b, " in lesson %d", *lessonNumber)
	}
	b.WriteString(".")
	return b.String()
}

// formatResults renders one headed block per chunk and one source per
// chunk. Lesson links resolve best effort; a missing link leaves the
// source without one.
func (t *SearchTool) formatResults(ctx context.Context, results []domain.SearchResult) (string, []domain.Source, error) {
	blocks := make([]string, 0, len(results))
	sources := make([]domain.Source, 0, len(results))

	for _, r := range results {
		label := r.Chunk.CourseTitle
		var link string
		if r.Chunk.LessonNumber != nil {
			label = fmt.Sprintf("%s - Lesson %d", r.Chunk.CourseTitle, *r.Chunk.LessonNumber)
			if l, err := t.searcher.LessonLink(ctx, r.Chunk.CourseTitle, *r.Chunk.LessonNumber); err == nil {
				link = l
			}
		}
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", label, r.Chunk.Content))
		sources = append(sources, domain.Source{Text: label, Link: link})
	}

	return strings.Join(blocks, "\n\n"), sources, nil
}
