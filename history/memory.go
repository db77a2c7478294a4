package history

import (
	"context"
	"sync"
)

// MemoryStore keeps transcripts in process memory. It is the default backend
// when no Redis address is configured; history resets on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Turn
	window   int
	locks    *sessionLocks
}

// NewMemoryStore creates an in-memory store. window caps the number of turns
// retained per session; 0 keeps everything.
func NewMemoryStore(window int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]Turn),
		window:   window,
		locks:    newSessionLocks(),
	}
}

// Append adds a turn at the session's next sequence position. Appending to an
// unknown session id creates the session; this is the only creation point.
func (s *MemoryStore) Append(_ context.Context, sessionID, role, content string) (Turn, error) {
	t := Turn{Role: role, Content: content}
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append(s.sessions[sessionID], t)
	if s.window > 0 && len(turns) > s.window {
		turns = turns[len(turns)-s.window:]
	}
	s.sessions[sessionID] = turns
	return t, nil
}

// History returns the session's turns in insertion order. Unknown sessions
// yield an empty slice, never an error.
func (s *MemoryStore) History(_ context.Context, sessionID string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.sessions[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// WithLock runs fn while holding the session's mutex.
func (s *MemoryStore) WithLock(sessionID string, fn func() error) error {
	return s.locks.with(sessionID, fn)
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
