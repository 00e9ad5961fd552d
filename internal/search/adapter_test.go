package search

import (
	"context"
	"errors"
	"testing"

	"github.com/lecternhq/lectern/internal/domain"
	"github.com/lecternhq/lectern/internal/vectorstore"
)

type fakeCatalog struct {
	titles map[string]bool
	links  map[string]string
}

func (f *fakeCatalog) Exists(ctx context.Context, title string) (bool, error) {
	return f.titles[title], nil
}

func (f *fakeCatalog) LessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error) {
	return f.links[courseTitle], nil
}

type fakeEmbedder struct {
	lastText string
	err      error
}

func (f *fakeEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

type fakeStore struct {
	lastFilter domain.SearchFilter
	lastLimit  int
	matches    []vectorstore.Match
	err        error
	called     bool
}

func (f *fakeStore) Add(ctx context.Context, records []vectorstore.Record) error { return nil }

func (f *fakeStore) Search(ctx context.Context, vector []float32, filter domain.SearchFilter, limit int) ([]vectorstore.Match, error) {
	f.called = true
	f.lastFilter = filter
	f.lastLimit = limit
	return f.matches, f.err
}

func (f *fakeStore) Reset(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                    { return nil }

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func newTestAdapter(store *fakeStore) (*Adapter, *fakeEmbedder) {
	catalog := &fakeCatalog{
		titles: map[string]bool{"Go Fundamentals": true},
		links:  map[string]string{"Go Fundamentals": "https://example.com/go/1"},
	}
	embedder := &fakeEmbedder{}
	return NewAdapter(catalog, embedder, store, 5), embedder
}

func TestSearchUnfiltered(t *testing.T) {
	store := &fakeStore{matches: []vectorstore.Match{
		{Chunk: domain.CourseChunk{Content: "hit", CourseTitle: "Go Fundamentals", ChunkIndex: 0}, Distance: 0.1},
	}}
	adapter, embedder := newTestAdapter(store)

	results, err := adapter.Search(context.Background(), "what is a goroutine", nil, nil, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if embedder.lastText != "what is a goroutine" {
		t.Errorf("embedded text = %q", embedder.lastText)
	}
	if store.lastLimit != 5 {
		t.Errorf("limit = %d, want configured default 5", store.lastLimit)
	}
	if store.lastFilter.CourseTitle != nil || store.lastFilter.LessonNumber != nil {
		t.Errorf("filter = %+v, want empty", store.lastFilter)
	}
	if len(results) != 1 || results[0].Chunk.Content != "hit" || results[0].Distance != 0.1 {
		t.Errorf("results = %+v", results)
	}
}

func TestSearchResolvesCourse(t *testing.T) {
	store := &fakeStore{}
	adapter, _ := newTestAdapter(store)

	_, err := adapter.Search(context.Background(), "q", strPtr("Go Fundamentals"), intPtr(2), 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if store.lastFilter.CourseTitle == nil || *store.lastFilter.CourseTitle != "Go Fundamentals" {
		t.Errorf("course filter = %v", store.lastFilter.CourseTitle)
	}
	if store.lastFilter.LessonNumber == nil || *store.lastFilter.LessonNumber != 2 {
		t.Errorf("lesson filter = %v", store.lastFilter.LessonNumber)
	}
	if store.lastLimit != 3 {
		t.Errorf("limit = %d, want 3", store.lastLimit)
	}
}

func TestSearchUnknownCourse(t *testing.T) {
	store := &fakeStore{}
	adapter, embedder := newTestAdapter(store)

	_, err := adapter.Search(context.Background(), "q", strPtr("Rust Fundamentals"), nil, 0)
	if !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("Search() error = %v, want ErrCourseNotFound", err)
	}
	// Resolution is case-sensitive, so a case mismatch is a miss too.
	_, err = adapter.Search(context.Background(), "q", strPtr("go fundamentals"), nil, 0)
	if !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("Search() error = %v, want ErrCourseNotFound", err)
	}
	if embedder.lastText != "" || store.called {
		t.Error("unknown course should fail before embedding or index access")
	}
}

func TestSearchEmbedderError(t *testing.T) {
	store := &fakeStore{}
	adapter, embedder := newTestAdapter(store)
	embedder.err = errors.New("connection refused")

	if _, err := adapter.Search(context.Background(), "q", nil, nil, 0); err == nil {
		t.Fatal("Search() with failing embedder succeeded, want error")
	}
	if store.called {
		t.Error("index should not be queried when embedding fails")
	}
}

func TestSearchStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("index offline")}
	adapter, _ := newTestAdapter(store)

	if _, err := adapter.Search(context.Background(), "q", nil, nil, 0); err == nil {
		t.Fatal("Search() with failing store succeeded, want error")
	}
}

func TestLessonLinkPassthrough(t *testing.T) {
	adapter, _ := newTestAdapter(&fakeStore{})

	link, err := adapter.LessonLink(context.Background(), "Go Fundamentals", 1)
	if err != nil {
		t.Fatalf("LessonLink() error = %v", err)
	}
	if link != "https://example.com/go/1" {
		t.Errorf("LessonLink() = %q", link)
	}
}
