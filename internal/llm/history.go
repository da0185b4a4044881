package llm

import (
	"sync"

	"github.com/google/uuid"
)

// History is the transcript of one session, oldest first.
type History struct {
	messages []Message
}

// AddExchange records a completed turn. Failed turns are never recorded so
// the model does not see a question without an answer.
func (h *History) AddExchange(user, reply string) {
	h.messages = append(h.messages,
		Message{Role: RoleUser, Content: user},
		Message{Role: RoleModel, Content: reply},
	)
}

// Messages returns a copy safe to hand to a client.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Len() int { return len(h.messages) }

// Store keeps one History per session id.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*History
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*History)}
}

// NewSession opens an empty transcript and returns its id.
func (s *Store) NewSession() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &History{}
	s.mu.Unlock()
	return id
}

// Get returns the transcript for id, creating it on first use.
func (s *Store) Get(id string) *History {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.sessions[id]
	if !ok {
		h = &History{}
		s.sessions[id] = h
	}
	return h
}

// Drop forgets a finished session.
func (s *Store) Drop(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
