// Package qdrant implements the vector store against a Qdrant server
// over its REST API. It assumes cosine distance and creates the
// collection on first use.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/lecternhq/lectern/internal/domain"
	"github.com/lecternhq/lectern/internal/vectorstore"
)

// Store is a minimal REST client to Qdrant.
type Store struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client

	mu    sync.Mutex
	ready bool
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}
}

// payload mirrors the chunk metadata stored on each point.
type payload struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number"`
	ChunkIndex   int    `json:"chunk_index"`
	Content      string `json:"content"`
}

// Add upserts the records as points. Record IDs must be UUIDs; Qdrant
// rejects arbitrary strings.
func (s *Store) Add(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.ensure(ctx); err != nil {
		return err
	}

	points := make([]map[string]any, len(records))
	for i, r := range records {
		p := map[string]any{
			"course_title": r.Chunk.CourseTitle,
			"chunk_index":  r.Chunk.ChunkIndex,
			"content":      r.Chunk.Content,
		}
		if r.Chunk.LessonNumber != nil {
			p["lesson_number"] = *r.Chunk.LessonNumber
		}
		points[i] = map[string]any{
			"id":      r.ID,
			"vector":  r.Vector,
			"payload": p,
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Search runs a scored point search with exact-match payload filters.
// Qdrant returns cosine similarity, converted here to distance.
func (s *Store) Search(ctx context.Context, vector []float32, filter domain.SearchFilter, limit int) ([]vectorstore.Match, error) {
	if limit <= 0 {
		return nil, nil
	}
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	if must := filterClauses(filter); len(must) > 0 {
		req["filter"] = map[string]any{"must": must}
	}

	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload payload `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		matches = append(matches, vectorstore.Match{
			Chunk: domain.CourseChunk{
				Content:      r.Payload.Content,
				CourseTitle:  r.Payload.CourseTitle,
				LessonNumber: r.Payload.LessonNumber,
				ChunkIndex:   r.Payload.ChunkIndex,
			},
			Distance: 1 - float32(r.Score),
		})
	}
	return matches, nil
}

// Reset drops the collection. The next Add recreates it.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.ready = false
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("qdrant DELETE %s failed: %s", s.collection, resp.Status)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// ensure creates the collection if it does not exist yet.
func (s *Store) ensure(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	if s.dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", s.dimension)
	}

	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		body := map[string]any{
			"vectors": map[string]any{
				"size":     s.dimension,
				"distance": "Cosine",
			},
		}
		if err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
			return err
		}
	}
	s.ready = true
	return nil
}

func (s *Store) collectionExists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	if err != nil {
		return false, err
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("qdrant GET %s failed: %s", s.collection, resp.Status)
	}
}

func filterClauses(filter domain.SearchFilter) []map[string]any {
	var must []map[string]any
	if filter.CourseTitle != nil {
		must = append(must, map[string]any{
			"key":   "course_title",
			"match": map[string]any{"value": *filter.CourseTitle},
		})
	}
	if filter.LessonNumber != nil {
		must = append(must, map[string]any{
			"key":   "lesson_number",
			"match": map[string]any{"value": *filter.LessonNumber},
		})
	}
	return must
}

func (s *Store) putJSON(ctx context.Context, url string, body any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
