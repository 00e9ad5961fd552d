package domain

// Course represents a course in the catalog. Title is the sole external key
// used for filtering and must be unique within the corpus.
type Course struct {
	Title      string   `json:"title"`
	Link       string   `json:"link,omitempty"`
	Instructor string   `json:"instructor,omitempty"`
	Lessons    []Lesson `json:"lessons"`
}

// Lesson represents a single lesson within a course. Numbers are unique per
// course but need not be contiguous.
type Lesson struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Link   string `json:"link,omitempty"`
}

// CourseChunk is one retrievable unit of course content. It holds only a
// weak reference to its course and lesson: the chunk stays valid even if the
// course is later removed from the catalog.
type CourseChunk struct {
	Content      string `json:"content"`
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}

// CourseStats summarizes the catalog for the analytics endpoint.
type CourseStats struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}
