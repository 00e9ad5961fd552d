package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument indicates a course document missing its required headers
	ErrMalformedDocument = errors.New("malformed course document")
	// ErrEmptyContent indicates a lesson section with no body text
	ErrEmptyContent = errors.New("empty lesson content")
	// ErrCourseNotFound indicates a course filter that matches no catalog title
	ErrCourseNotFound = errors.New("course not found")
	// ErrDuplicateCourse indicates an ingest of an already-cataloged title
	ErrDuplicateCourse = errors.New("course already exists")
	// ErrUnknownTool indicates a tool name absent from the registry
	ErrUnknownTool = errors.New("unknown tool")
)

// Generation phases at which an engine call can fail.
const (
	PhaseInitial = "initial"
	PhaseFinal   = "final"
)

// GenerationError reports a reasoning-engine failure and the orchestration
// phase it occurred in. Queries that fail this way leave session history
// unchanged.
type GenerationError struct {
	Phase string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s phase: %v", e.Phase, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
