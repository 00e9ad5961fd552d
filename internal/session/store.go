// Package session keeps per-session conversation history in memory,
// bounded to a fixed number of exchange pairs.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lecternhq/lectern/internal/domain"
)

type entry struct {
	mu       sync.Mutex
	messages []domain.Message
}

// Store maps session ids to bounded message histories. The outer lock
// guards only the map; each session carries its own mutex, so queries
// on different sessions never contend.
type Store struct {
	mu         sync.RWMutex
	sessions   map[string]*entry
	maxHistory int
}

// NewStore creates a store keeping at most maxHistory exchange pairs
// per session.
func NewStore(maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = 2
	}
	return &Store{
		sessions:   make(map[string]*entry),
		maxHistory: maxHistory,
	}
}

// Create registers a new session and returns its id.
func (s *Store) Create() string {
	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = &entry{}
	s.mu.Unlock()
	return id
}

// History returns a copy of the session's messages, oldest first.
// Unknown ids yield an empty history.
func (s *Store) History(id string) []domain.Message {
	e := s.get(id, false)
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Message, len(e.messages))
	copy(out, e.messages)
	return out
}

// Append records one completed exchange. The session is created
// implicitly if needed; the pair lands atomically, and the oldest
// pairs are trimmed so at most maxHistory exchanges remain.
func (s *Store) Append(id, userMsg, assistantMsg string) {
	e := s.get(id, true)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.messages = append(e.messages,
		domain.Message{Role: domain.RoleUser, Content: userMsg},
		domain.Message{Role: domain.RoleAssistant, Content: assistantMsg},
	)
	if max := s.maxHistory * 2; len(e.messages) > max {
		trimmed := make([]domain.Message, max)
		copy(trimmed, e.messages[len(e.messages)-max:])
		e.messages = trimmed
	}
}

// Clear drops a session's messages but keeps the session alive.
func (s *Store) Clear(id string) {
	e := s.get(id, false)
	if e == nil {
		return
	}
	e.mu.Lock()
	e.messages = nil
	e.mu.Unlock()
}

func (s *Store) get(id string, create bool) *entry {
	s.mu.RLock()
	e := s.sessions[id]
	s.mu.RUnlock()
	if e != nil || !create {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e = s.sessions[id]; e == nil {
		e = &entry{}
		s.sessions[id] = e
	}
	return e
}
