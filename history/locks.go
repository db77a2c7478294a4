package history

import "sync"

// sessionLocks hands out one mutex per session id so a pipeline can make its
// read-render-append sequence atomic relative to other requests on the same
// session. Locks are never released back; session ids are long-lived and
// low-cardinality.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *sessionLocks) get(sessionID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	return m
}

func (l *sessionLocks) with(sessionID string, fn func() error) error {
	m := l.get(sessionID)
	m.Lock()
	defer m.Unlock()
	return fn()
}
