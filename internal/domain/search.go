package domain

// SearchFilter narrows a similarity search to a course and/or lesson. Both
// predicates are exact matches; when both are set they combine with AND.
// Filters exist only at query time and are never persisted.
type SearchFilter struct {
	CourseTitle  *string
	LessonNumber *int
}

// SearchResult pairs a retrieved chunk with its distance from the query.
// Smaller distance means more similar.
type SearchResult struct {
	Chunk    CourseChunk
	Distance float32
}
