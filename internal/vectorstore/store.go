// Package vectorstore defines the contract shared by all vector index
// backends. Matches always ascend by distance, where smaller means more
// similar; every backend normalizes its native score to distance =
// 1 - cosine similarity.
package vectorstore

import (
	"context"

	"github.com/lecternhq/lectern/internal/domain"
)

// Record is one chunk with its embedding, ready for indexing.
type Record struct {
	ID     string
	Vector []float32
	Chunk  domain.CourseChunk
}

// Match is one search hit.
type Match struct {
	Chunk    domain.CourseChunk
	Distance float32
}

// Store is a nearest-neighbor index over course chunks with exact-match
// metadata filtering. Implementations must be safe for concurrent use.
type Store interface {
	Add(ctx context.Context, records []Record) error
	Search(ctx context.Context, vector []float32, filter domain.SearchFilter, limit int) ([]Match, error)
	Reset(ctx context.Context) error
	Close() error
}
