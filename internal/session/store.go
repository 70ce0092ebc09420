package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps live sessions in memory, keyed by the session ID carried in the
// guest token. Sessions are never persisted; a restart starts everyone at
// zero, matching the product's session-scoped scoring.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

// GetOrCreate returns the session for id, creating it on first sight. A token
// that outlives a server restart simply gets a fresh zero-score session.
func (st *Store) GetOrCreate(id uuid.UUID) *Session {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		return s
	}
	s = New(id)
	st.sessions[id] = s
	return s
}
