// Package search bridges tool-facing queries to the vector index. It
// resolves course filters against the catalog before touching the
// index, so an unknown course fails fast instead of returning an empty
// result set.
package search

import (
	"context"
	"fmt"

	"github.com/lecternhq/lectern/internal/domain"
	"github.com/lecternhq/lectern/internal/vectorstore"
)

// Catalog is the slice of the course repository the adapter needs.
type Catalog interface {
	Exists(ctx context.Context, title string) (bool, error)
	LessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error)
}

// Embedder turns query text into a vector.
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// Adapter runs filtered semantic searches over the chunk index.
type Adapter struct {
	catalog    Catalog
	embedder   Embedder
	store      vectorstore.Store
	maxResults int
}

func NewAdapter(catalog Catalog, embedder Embedder, store vectorstore.Store, maxResults int) *Adapter {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Adapter{
		catalog:    catalog,
		embedder:   embedder,
		store:      store,
		maxResults: maxResults,
	}
}

// Search embeds the query and returns up to limit chunks ordered by
// ascending distance. courseName is resolved case-sensitively; an
// unknown name returns ErrCourseNotFound. A nil courseName or
// lessonNumber leaves that dimension unfiltered.
func (a *Adapter) Search(ctx context.Context, query string, courseName *string, lessonNumber *int, limit int) ([]domain.SearchResult, error) {
	filter := domain.SearchFilter{LessonNumber: lessonNumber}
	if courseName != nil {
		ok, err := a.catalog.Exists(ctx, *courseName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve course: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrCourseNotFound, *courseName)
		}
		filter.CourseTitle = courseName
	}

	if limit <= 0 {
		limit = a.maxResults
	}

	vector, err := a.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := a.store.Search(ctx, vector, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	results := make([]domain.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = domain.SearchResult{Chunk: m.Chunk, Distance: m.Distance}
	}
	return results, nil
}

// LessonLink looks up the citation link for a lesson, "" when unknown.
func (a *Adapter) LessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error) {
	return a.catalog.LessonLink(ctx, courseTitle, lessonNumber)
}
