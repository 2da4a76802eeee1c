package memory

import (
	"context"
	"sync"
	"time"

	"quizgenius/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// With a positive ttl, sessions untouched for longer than ttl are evicted by Sweep
// and by the next Add.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session  *app.Session
	lastSeen time.Time
}

// NewSessionStore keeps sessions until deleted when ttl <= 0.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

func (s *SessionStore) Add(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.sweepLocked(now)
	s.sessions[session.ID()] = &sessionEntry{session: session, lastSeen: now}
}

// Get returns a live session and extends its lifetime.
func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	now := s.clock()
	if s.expired(entry, now) {
		delete(s.sessions, sessionID)
		return nil, false
	}
	entry.lastSeen = now
	return entry.session, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep evicts expired sessions and returns how many were removed.
func (s *SessionStore) Sweep(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.clock())
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) sweepLocked(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	removed := 0
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}
