// Package docproc parses structured course documents and splits their lesson
// content into overlapping, context-prefixed chunks for indexing.
package docproc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lecternhq/lectern/internal/domain"
)

// lessonHeaderRe matches lesson section headers like "Lesson 3: Advanced Topics".
var lessonHeaderRe = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.*)$`)

// DocumentProcessor turns raw course text into a Course and its chunks.
type DocumentProcessor struct {
	chunkSize    int
	chunkOverlap int
}

// NewDocumentProcessor creates a processor with the given packing parameters.
func NewDocumentProcessor(chunkSize, chunkOverlap int) *DocumentProcessor {
	return &DocumentProcessor{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Process parses a course document and chunks its content.
//
// Expected format: a `Course Title:` header line, optionally followed by
// `Course Link:` and `Course Instructor:` lines in that order, then lesson
// sections opened by `Lesson N: <title>` (with an optional `Lesson Link:`
// line right after) whose body runs to the next lesson header or EOF.
//
// Chunk indexes are course-scoped: they keep incrementing across lesson
// boundaries. Every chunk's content carries a context prefix naming its
// course and lesson so the index embeds context together with content.
func (p *DocumentProcessor) Process(raw string) (*domain.Course, []domain.CourseChunk, error) {
	lines := strings.Split(raw, "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) {
		return nil, nil, fmt.Errorf("%w: document is empty", domain.ErrMalformedDocument)
	}

	title, ok := headerValue(lines[i], "Course Title:")
	if !ok || title == "" {
		return nil, nil, fmt.Errorf("%w: missing Course Title header", domain.ErrMalformedDocument)
	}
	i++

	course := &domain.Course{Title: title}
	if i < len(lines) {
		if link, ok := headerValue(lines[i], "Course Link:"); ok {
			course.Link = link
			i++
		}
	}
	if i < len(lines) {
		if instructor, ok := headerValue(lines[i], "Course Instructor:"); ok {
			course.Instructor = instructor
			i++
		}
	}

	var chunks []domain.CourseChunk
	chunkIndex := 0

	var (
		haveLesson  bool
		lessonNum   int
		lessonTitle string
		lessonLink  string
		body        []string
	)

	flushLesson := func() error {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text == "" {
			return fmt.Errorf("%w: lesson %d", domain.ErrEmptyContent, lessonNum)
		}
		course.Lessons = append(course.Lessons, domain.Lesson{
			Number: lessonNum,
			Title:  lessonTitle,
			Link:   lessonLink,
		})
		for _, piece := range p.ChunkText(text) {
			n := lessonNum
			chunks = append(chunks, domain.CourseChunk{
				Content:      fmt.Sprintf("Course %s Lesson %d content: %s", course.Title, lessonNum, piece),
				CourseTitle:  course.Title,
				LessonNumber: &n,
				ChunkIndex:   chunkIndex,
			})
			chunkIndex++
		}
		return nil
	}

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if m := lessonHeaderRe.FindStringSubmatch(line); m != nil {
			if haveLesson {
				if err := flushLesson(); err != nil {
					return nil, nil, err
				}
			}
			// Content before the first lesson header is dropped.
			haveLesson = true
			lessonNum, _ = strconv.Atoi(m[1])
			lessonTitle = strings.TrimSpace(m[2])
			lessonLink = ""
			body = nil

			if i+1 < len(lines) {
				if link, ok := headerValue(lines[i+1], "Lesson Link:"); ok {
					lessonLink = link
					i++
				}
			}
			continue
		}

		body = append(body, lines[i])
	}

	if haveLesson {
		if err := flushLesson(); err != nil {
			return nil, nil, err
		}
	} else {
		// No lesson markers: the whole body becomes course-level chunks.
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text != "" {
			for _, piece := range p.ChunkText(text) {
				chunks = append(chunks, domain.CourseChunk{
					Content:     fmt.Sprintf("Course %s content: %s", course.Title, piece),
					CourseTitle: course.Title,
					ChunkIndex:  chunkIndex,
				})
				chunkIndex++
			}
		}
	}

	return course, chunks, nil
}

// headerValue extracts the value of a "Key: value" header line, reporting
// whether the line carried that key.
func headerValue(line, key string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, key) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, key)), true
}
