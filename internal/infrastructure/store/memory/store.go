// Package memory provides the in-process implementation of the session store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/supporthub/conversation-service/internal/core/store"
	"github.com/supporthub/conversation-service/internal/domain/models"
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

// Option configures the store.
type Option func(*Store)

// WithClock overrides the store's time source.
func WithClock(clock Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithMaxSessions caps the number of live sessions. Zero means unlimited.
func WithMaxSessions(n int) Option {
	return func(s *Store) {
		s.maxSessions = n
	}
}

// Store is a map-backed session store guarded by a read-write mutex. Sessions
// are deep-copied on the way in and out so callers never share mutable state
// with the store.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*models.Session
	clock       Clock
	maxSessions int
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*models.Session),
		clock:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a session and inserts it into the store.
func (s *Store) Create(ctx context.Context, userID string, cfg models.SessionConfig) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		return nil, store.ErrCapacity
	}

	sess := models.NewSession(userID)
	now := s.clock()
	sess.CreatedAt = now
	sess.LastActivityAt = now
	sess.Config = cfg

	s.sessions[sess.ID] = sess
	return cloneSession(sess), nil
}

// Get retrieves a session by ID. Returns (nil, nil) if absent.
func (s *Store) Get(ctx context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return cloneSession(sess), nil
}

// Touch refreshes the session's last-activity timestamp.
func (s *Store) Touch(ctx context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	sess.LastActivityAt = s.clock()
	return cloneSession(sess), nil
}

// UpdateContext applies the patch to the session's context and refreshes the
// last-activity timestamp.
func (s *Store) UpdateContext(ctx context.Context, id string, patch models.ContextPatch) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	sess.Context.ApplyPatch(patch)
	sess.LastActivityAt = s.clock()
	return cloneSession(sess), nil
}

// Delete removes a session. Returns true if it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false, nil
	}
	delete(s.sessions, id)
	return true, nil
}

// SweepExpired removes sessions idle longer than maxIdle and returns the
// number removed.
func (s *Store) SweepExpired(ctx context.Context, maxIdle time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock().Add(-maxIdle)
	removed := 0
	for id, sess := range s.sessions {
		if sess.IdleSince(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// List returns all live sessions ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*models.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, cloneSession(sess))
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// Count returns the number of live sessions.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// Ping always succeeds for the in-process store.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-process store.
func (s *Store) Close() error {
	return nil
}

func cloneSession(s *models.Session) *models.Session {
	cp := *s
	cp.Context = s.Context.Clone()
	return &cp
}
