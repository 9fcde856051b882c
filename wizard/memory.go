package wizard

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session Session
	touched time.Time
}

// MemoryStore is the default session store: a mutex-guarded map with an idle
// TTL. Sessions are lost on restart, the user simply restarts the wizard.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[int64]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[int64]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[userID]
	if !ok {
		return Session{State: StateIdle}, nil
	}
	if s.ttl > 0 && s.now().Sub(entry.touched) > s.ttl {
		delete(s.sessions, userID)
		return Session{State: StateIdle}, nil
	}
	return entry.session, nil
}

func (s *MemoryStore) Set(_ context.Context, userID int64, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = memoryEntry{session: sess, touched: s.now()}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
