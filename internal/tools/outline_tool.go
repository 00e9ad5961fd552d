package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lecternhq/lectern/internal/domain"
)

// CourseOutliner is the slice of the catalog the outline tool needs.
type CourseOutliner interface {
	GetByTitle(ctx context.Context, title string) (*domain.Course, error)
}

// OutlineTool answers structural questions about a course: its link
// and the full lesson list.
type OutlineTool struct {
	catalog CourseOutliner
}

func NewOutlineTool(catalog CourseOutliner) *OutlineTool {
	return &OutlineTool{catalog: catalog}
}

func (t *OutlineTool) Definition() Definition {
	return Definition{
		Name:        "get_course_outline",
		Description: "Get a course's outline: its link and every lesson number and title",
		InputSchema: Schema{
			Type: "object",
			Properties: map[string]Property{
				"course_title": {
					Type:        "string",
					Description: "Exact title of the course to outline",
				},
			},
			Required: []string{"course_title"},
		},
	}
}

func (t *OutlineTool) Execute(ctx context.Context, args map[string]any) (string, []domain.Source, error) {
	title, ok := args["course_title"].(string)
	if !ok || title == "" {
		return "", nil, errors.New("missing required parameter: course_title")
	}

	course, err := t.catalog.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			return fmt.Sprintf("No course found matching '%s'", title), nil, nil
		}
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString(course.Title)
	if course.Link != "" {
		fmt.Fprintf(&b, "\nCourse link: %s", course.Link)
	}
	for _, lesson := range course.Lessons {
		fmt.Fprintf(&b, "\nLesson %d: %s", lesson.Number, lesson.Title)
	}

	return b.String(), []domain.Source{{Text: course.Title, Link: course.Link}}, nil
}
