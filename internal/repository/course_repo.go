package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lecternhq/lectern/internal/domain"
)

// CourseRepository handles course catalog persistence
type CourseRepository struct {
	db *DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Add inserts a course and its lessons atomically
func (r *CourseRepository) Add(ctx context.Context, course *domain.Course) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM courses WHERE title = ?`, course.Title,
	).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCourse, course.Title)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO courses (title, link, instructor)
		VALUES (?, ?, ?)
	`, course.Title, course.Link, course.Instructor); err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}

	for _, lesson := range course.Lessons {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lessons (course_title, number, title, link)
			VALUES (?, ?, ?, ?)
		`, course.Title, lesson.Number, lesson.Title, lesson.Link); err != nil {
			return fmt.Errorf("failed to insert lesson %d: %w", lesson.Number, err)
		}
	}

	return tx.Commit()
}

// GetByTitle retrieves a course by its exact title, lessons ordered by number
func (r *CourseRepository) GetByTitle(ctx context.Context, title string) (*domain.Course, error) {
	course := &domain.Course{}

	err := r.db.QueryRowContext(ctx, `
		SELECT title, link, instructor FROM courses WHERE title = ?
	`, title).Scan(&course.Title, &course.Link, &course.Instructor)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCourseNotFound, title)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT number, title, link FROM lessons
		WHERE course_title = ? ORDER BY number
	`, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var lesson domain.Lesson
		if err := rows.Scan(&lesson.Number, &lesson.Title, &lesson.Link); err != nil {
			return nil, err
		}
		course.Lessons = append(course.Lessons, lesson)
	}

	return course, rows.Err()
}

// Titles lists all course titles alphabetically
func (r *CourseRepository) Titles(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT title FROM courses ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}

	return titles, rows.Err()
}

// Count returns the number of courses in the catalog
func (r *CourseRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count)
	return count, err
}

// Exists reports whether a course with the exact title is cataloged
func (r *CourseRepository) Exists(ctx context.Context, title string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM courses WHERE title = ?`, title,
	).Scan(&count)
	return count > 0, err
}

// LessonLink returns the link for a lesson, or "" when the course or
// lesson is unknown
func (r *CourseRepository) LessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error) {
	var link string
	err := r.db.QueryRowContext(ctx, `
		SELECT link FROM lessons WHERE course_title = ? AND number = ?
	`, courseTitle, lessonNumber).Scan(&link)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return link, nil
}

// Clear removes every course; lessons cascade
func (r *CourseRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses`)
	return err
}
