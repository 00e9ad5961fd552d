package domain

// Conversation roles, matching the Messages API wire values.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one entry in a conversation history.
type Message struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// Source is a citation attached to an answer, pointing at the course and
// lesson a retrieved chunk came from.
type Source struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// QueryRequest is the request to answer a question over the corpus.
type QueryRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse is the answer to a query, with citations.
type QueryResponse struct {
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources"`
	SessionID string   `json:"session_id"`
}

// AddDocumentRequest is the request to ingest one course document.
type AddDocumentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddDocumentResponse reports what an ingested document produced.
type AddDocumentResponse struct {
	CourseTitle string `json:"course_title"`
	ChunkCount  int    `json:"chunk_count"`
}
