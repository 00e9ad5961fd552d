// Package memory provides an in-process vector store backed by a slice
// and brute-force cosine scoring. It is the default backend and the one
// used in tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/lecternhq/lectern/internal/domain"
	"github.com/lecternhq/lectern/internal/vectorstore"
)

// Store holds all records in memory. The dimension is fixed by the
// first record added.
type Store struct {
	mu        sync.RWMutex
	dimension int
	records   []vectorstore.Record
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Add indexes the given records. All vectors must share one dimension.
func (s *Store) Add(ctx context.Context, records []vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if len(r.Vector) == 0 {
			return fmt.Errorf("record %s has an empty vector", r.ID)
		}
		if s.dimension == 0 {
			s.dimension = len(r.Vector)
		} else if len(r.Vector) != s.dimension {
			return fmt.Errorf("record %s has dimension %d, store has %d", r.ID, len(r.Vector), s.dimension)
		}
		s.records = append(s.records, r)
	}
	return nil
}

// Search scores every record matching the filter against the query
// vector and returns up to limit matches ordered by ascending distance.
func (s *Store) Search(ctx context.Context, vector []float32, filter domain.SearchFilter, limit int) ([]vectorstore.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}
	if s.dimension != 0 && len(vector) != s.dimension {
		return nil, fmt.Errorf("query has dimension %d, store has %d", len(vector), s.dimension)
	}

	matches := make([]vectorstore.Match, 0, limit)
	for _, r := range s.records {
		if !matchesFilter(r.Chunk, filter) {
			continue
		}
		matches = append(matches, vectorstore.Match{
			Chunk:    r.Chunk,
			Distance: 1 - cosine(r.Vector, vector),
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Reset drops every record and the fixed dimension.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.dimension = 0
	return nil
}

func (s *Store) Close() error { return nil }

func matchesFilter(chunk domain.CourseChunk, filter domain.SearchFilter) bool {
	if filter.CourseTitle != nil && chunk.CourseTitle != *filter.CourseTitle {
		return false
	}
	if filter.LessonNumber != nil {
		if chunk.LessonNumber == nil || *chunk.LessonNumber != *filter.LessonNumber {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
