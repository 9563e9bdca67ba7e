// Package session holds the process-local session store used when no Redis
// is configured.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mntc/quiz-server/internal/core/domain"
)

const defaultSweepInterval = time.Minute

var errTokenCollision = errors.New("session token already in use")

// MemoryStore is a mutex-guarded map of sessions. A janitor goroutine drops
// expired entries until Close is called.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	now      func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewMemoryStore starts a store that sweeps expired sessions every interval.
func NewMemoryStore(interval time.Duration) *MemoryStore {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	s := &MemoryStore{
		sessions: make(map[string]domain.Session),
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.janitor(interval)
	return s
}

func (s *MemoryStore) Create(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.Token]; ok {
		return errTokenCollision
	}
	s.sessions[sess.Token] = *sess
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.live(token)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.live(sess.Token)
	if !ok {
		return domain.ErrSessionNotFound
	}
	updated := *sess
	updated.ExpiresAt = current.ExpiresAt
	s.sessions[sess.Token] = updated
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the janitor and waits for it to exit. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

// live must be called with mu held. Expired entries are removed eagerly.
func (s *MemoryStore) live(token string) (domain.Session, bool) {
	sess, ok := s.sessions[token]
	if !ok {
		return domain.Session{}, false
	}
	if sess.IsExpiredAt(s.now()) {
		delete(s.sessions, token)
		return domain.Session{}, false
	}
	return sess, true
}

func (s *MemoryStore) janitor(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, sess := range s.sessions {
		if sess.IsExpiredAt(now) {
			delete(s.sessions, token)
		}
	}
}
