package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/eda_dashboard/domain/models"
	"github.com/pivolan/eda_dashboard/logger"
)

const sessionCookie = "eda_session"

type session struct {
	table    *models.Table
	lastSeen time.Time
}

// sessionStore keeps one uploaded table per browser session.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: map[string]*session{},
		ttl:      ttl,
		now:      time.Now,
	}
}

// sessionID returns the id carried by the request cookie, or issues a new one.
func (s *sessionStore) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.FromString(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewV4().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *sessionStore) Get(id string) (*models.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.table, true
}

func (s *sessionStore) Put(id string, t *models.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{table: t, lastSeen: s.now()}
}

func (s *sessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *sessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// removeExpired drops sessions idle for longer than the ttl.
func (s *sessionStore) removeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(deadline) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// sweep runs removeExpired every interval until ctx is done.
func (s *sessionStore) sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.removeExpired(); n > 0 {
				logger.Info("removed %d expired sessions", n)
			}
		}
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return ttl
	}
	return time.Minute
}
