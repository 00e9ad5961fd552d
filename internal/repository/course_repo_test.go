package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lecternhq/lectern/internal/domain"
)

func newTestRepo(t *testing.T) *CourseRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCourseRepository(db)
}

func sampleCourse() *domain.Course {
	return &domain.Course{
		Title:      "Go Fundamentals",
		Link:       "https://example.com/go",
		Instructor: "Pat Doe",
		Lessons: []domain.Lesson{
			{Number: 0, Title: "Introduction", Link: "https://example.com/go/0"},
			{Number: 1, Title: "Types and Values", Link: "https://example.com/go/1"},
			{Number: 4, Title: "Interfaces", Link: "https://example.com/go/4"},
		},
	}
}

func TestAddAndGetByTitle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Add(ctx, sampleCourse()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := repo.GetByTitle(ctx, "Go Fundamentals")
	if err != nil {
		t.Fatalf("GetByTitle() error = %v", err)
	}
	if got.Title != "Go Fundamentals" || got.Link != "https://example.com/go" || got.Instructor != "Pat Doe" {
		t.Errorf("course = %+v", got)
	}
	if len(got.Lessons) != 3 {
		t.Fatalf("got %d lessons, want 3", len(got.Lessons))
	}
	wantNumbers := []int{0, 1, 4}
	for i, lesson := range got.Lessons {
		if lesson.Number != wantNumbers[i] {
			t.Errorf("lesson %d number = %d, want %d", i, lesson.Number, wantNumbers[i])
		}
	}
	if got.Lessons[2].Title != "Interfaces" {
		t.Errorf("lesson 4 title = %q", got.Lessons[2].Title)
	}
}

func TestAddDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Add(ctx, sampleCourse()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	err := repo.Add(ctx, sampleCourse())
	if !errors.Is(err, domain.ErrDuplicateCourse) {
		t.Fatalf("Add() duplicate error = %v, want ErrDuplicateCourse", err)
	}

	// The failed insert must not leave partial rows behind.
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestGetByTitleNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Add(ctx, sampleCourse()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if _, err := repo.GetByTitle(ctx, "Rust Fundamentals"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Errorf("GetByTitle(missing) error = %v, want ErrCourseNotFound", err)
	}
	// Resolution is case-sensitive.
	if _, err := repo.GetByTitle(ctx, "go fundamentals"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Errorf("GetByTitle(lowercase) error = %v, want ErrCourseNotFound", err)
	}
}

func TestTitlesAndCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, title := range []string{"Zig Basics", "Advanced Go", "MLOps 101"} {
		if err := repo.Add(ctx, &domain.Course{Title: title}); err != nil {
			t.Fatalf("Add(%q) error = %v", title, err)
		}
	}

	titles, err := repo.Titles(ctx)
	if err != nil {
		t.Fatalf("Titles() error = %v", err)
	}
	want := []string{"Advanced Go", "MLOps 101", "Zig Basics"}
	if len(titles) != len(want) {
		t.Fatalf("Titles() = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestExists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Add(ctx, sampleCourse()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ok, err := repo.Exists(ctx, "Go Fundamentals")
	if err != nil || !ok {
		t.Errorf("Exists(known) = %v, %v, want true, nil", ok, err)
	}
	ok, err = repo.Exists(ctx, "Go fundamentals")
	if err != nil || ok {
		t.Errorf("Exists(wrong case) = %v, %v, want false, nil", ok, err)
	}
}

func TestLessonLink(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Add(ctx, sampleCourse()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	link, err := repo.LessonLink(ctx, "Go Fundamentals", 1)
	if err != nil {
		t.Fatalf("LessonLink() error = %v", err)
	}
	if link != "https://example.com/go/1" {
		t.Errorf("LessonLink() = %q", link)
	}

	// Unknown lesson and unknown course both yield "" without error.
	if link, err = repo.LessonLink(ctx, "Go Fundamentals", 99); err != nil || link != "" {
		t.Errorf("LessonLink(unknown lesson) = %q, %v", link, err)
	}
	if link, err = repo.LessonLink(ctx, "Rust Fundamentals", 1); err != nil || link != "" {
		t.Errorf("LessonLink(unknown course) = %q, %v", link, err)
	}
}

func TestClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Add(ctx, sampleCourse()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() after Clear = %d, want 0", count)
	}
	// Lessons cascade with their course, so re-adding succeeds cleanly.
	if err := repo.Add(ctx, sampleCourse()); err != nil {
		t.Fatalf("Add() after Clear error = %v", err)
	}
}
