// Package duckdb implements the vector store on an embedded DuckDB
// database with the VSS extension. Embeddings live in a fixed-width
// FLOAT column sized from config, so changing the embedding model
// dimension requires a fresh database file.
package duckdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"github.com/lecternhq/lectern/internal/domain"
	"github.com/lecternhq/lectern/internal/vectorstore"
)

// Store wraps DuckDB operations.
type Store struct {
	db        *sql.DB
	dimension int
}

// NewStore opens (or creates) the database at path and prepares the
// chunk schema.
func NewStore(path string, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dimension)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, dimension: dimension}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

// initialize sets up the schema and the VSS extension.
func (s *Store) initialize() error {
	schema := fmt.Sprintf(`
		INSTALL vss;
		LOAD vss;

		CREATE TABLE IF NOT EXISTS chunks (
			id VARCHAR PRIMARY KEY,
			course_title VARCHAR NOT NULL,
			lesson_number INTEGER,
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			embedding FLOAT[%d]
		);

		CREATE INDEX IF NOT EXISTS idx_chunks_course_title ON chunks (course_title);
	`, s.dimension)

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	// Best effort; brute-force array_cosine_similarity works without it.
	_, _ = s.db.Exec("CREATE INDEX IF NOT EXISTS idx_chunks_embedding ON chunks USING HNSW (embedding)")

	return nil
}

// Add inserts the records one row per chunk. Records without an ID get
// a fresh UUID.
func (s *Store) Add(ctx context.Context, records []vectorstore.Record) error {
	query := `
		INSERT INTO chunks (id, course_title, lesson_number, chunk_index, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, r := range records {
		id := r.ID
		if id == "" {
			id = uuid.New().String()
		}
		if len(r.Vector) != s.dimension {
			return fmt.Errorf("record %s has dimension %d, store has %d", id, len(r.Vector), s.dimension)
		}

		embeddingData, _ := json.Marshal(r.Vector)
		var lesson interface{}
		if r.Chunk.LessonNumber != nil {
			lesson = *r.Chunk.LessonNumber
		}

		if _, err := s.db.ExecContext(ctx, query,
			id, r.Chunk.CourseTitle, lesson, r.Chunk.ChunkIndex, r.Chunk.Content, string(embeddingData),
		); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", id, err)
		}
	}
	return nil
}

// Search ranks chunks by cosine similarity to the query vector, with
// optional exact-match filters on course title and lesson number.
func (s *Store) Search(ctx context.Context, vector []float32, filter domain.SearchFilter, limit int) ([]vectorstore.Match, error) {
	if limit <= 0 {
		return nil, nil
	}

	embeddingJSON, err := json.Marshal(vector)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query embedding: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT course_title, lesson_number, chunk_index, content,
		       array_cosine_similarity(embedding, %s::FLOAT[%d]) AS similarity
		FROM chunks
		WHERE embedding IS NOT NULL
	`, string(embeddingJSON), s.dimension)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.CourseTitle != nil {
		conditions = append(conditions, fmt.Sprintf("course_title = $%d", argIdx))
		args = append(args, *filter.CourseTitle)
		argIdx++
	}
	if filter.LessonNumber != nil {
		conditions = append(conditions, fmt.Sprintf("lesson_number = $%d", argIdx))
		args = append(args, *filter.LessonNumber)
		argIdx++
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY similarity DESC LIMIT %d", limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	var matches []vectorstore.Match
	for rows.Next() {
		var (
			chunk      domain.CourseChunk
			lesson     sql.NullInt32
			similarity float64
		)
		if err := rows.Scan(&chunk.CourseTitle, &lesson, &chunk.ChunkIndex, &chunk.Content, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		if lesson.Valid {
			n := int(lesson.Int32)
			chunk.LessonNumber = &n
		}
		matches = append(matches, vectorstore.Match{Chunk: chunk, Distance: 1 - float32(similarity)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// Reset deletes every chunk but keeps the schema.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
