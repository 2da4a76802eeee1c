package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"quizgenius/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions live in a local map; their state machines are in-process.
//   - Redis holds a liveness marker per session with a sliding TTL. A session
//     whose marker expired is abandoned: it is dropped on lookup, by Sweep,
//     and by the next Add.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Add(session *app.Session) {
	ctx := context.Background()
	s.Sweep(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	// best-effort liveness marker
	_ = s.client.Set(ctx, s.key(session.ID()), session.QuizID(), s.ttl).Err()
}

// Get returns the session and extends its marker. Sessions whose marker has expired are removed.
func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	alive, err := s.client.Expire(context.Background(), s.key(sessionID), s.ttl).Result()
	if err == nil && !alive {
		s.Delete(sessionID)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

// Sweep drops local sessions whose marker is gone and returns how many were removed.
// If Redis is unreachable nothing is removed.
func (s *SessionStore) Sweep(ctx context.Context) int {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	if len(ids) == 0 {
		return 0
	}

	pipe := s.client.Pipeline()
	checks := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		checks[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("session sweep skipped: %v", err)
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for i, id := range ids {
		if checks[i].Val() == 0 {
			if _, ok := s.sessions[id]; ok {
				delete(s.sessions, id)
				removed++
			}
		}
	}
	return removed
}

// Len reports the number of sessions held locally.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
