package bot

import (
	"sync"
	"time"

	"github.com/garyellow/casmate/internal/metrics"
	"github.com/garyellow/casmate/internal/nlu"
	"github.com/garyellow/casmate/internal/resolver"
)

// Pending is the one open clarification of a session: the intent waiting
// for an answer and the options that were offered.
type Pending struct {
	Intent  nlu.Intent
	Options []resolver.Suggestion // course options, numbered from 1
	// ProgramID is set when the bot asked for a year level of this program.
	ProgramID string
	Term      int
}

// SessionConfig configures a SessionStore.
type SessionConfig struct {
	// TTL is how long a pending clarification stays answerable.
	TTL time.Duration

	// CleanupPeriod is how often expired sessions are removed (0 = never).
	CleanupPeriod time.Duration

	// Optional metrics reporter
	Metrics *metrics.Metrics
}

// SessionStore keeps per-session dialogue state in memory. Each session has
// at most one pending clarification.
type SessionStore struct {
	mu       sync.RWMutex
	entries  map[string]*session
	ttl      time.Duration
	now      func() time.Time
	onUpdate func(count int) // Optional callback when active count changes
	stopCh   chan struct{}
	stopOnce sync.Once
}

type session struct {
	pending  *Pending
	expireAt time.Time
}

// NewSessionStore creates a store and starts its cleanup loop when
// CleanupPeriod is positive. Call Stop to end the loop.
func NewSessionStore(cfg SessionConfig) *SessionStore {
	s := &SessionStore{
		entries: make(map[string]*session),
		ttl:     cfg.TTL,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	if cfg.Metrics != nil {
		s.onUpdate = cfg.Metrics.SetSessions
	}
	if cfg.CleanupPeriod > 0 {
		go s.cleanupLoop(cfg.CleanupPeriod)
	}
	return s
}

// Pending returns the open clarification of a session, if it has not expired.
func (s *SessionStore) Pending(id string) (Pending, bool) {
	if id == "" {
		return Pending{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || e.pending == nil || !s.now().Before(e.expireAt) {
		return Pending{}, false
	}
	return *e.pending, true
}

// SetPending replaces the open clarification of a session.
func (s *SessionStore) SetPending(id string, p Pending) {
	if id == "" {
		return
	}
	s.mu.Lock()
	s.entries[id] = &session{pending: &p, expireAt: s.now().Add(s.ttl)}
	n := len(s.entries)
	s.mu.Unlock()
	s.report(n)
}

// Clear drops a session's state.
func (s *SessionStore) Clear(id string) {
	s.mu.Lock()
	_, existed := s.entries[id]
	delete(s.entries, id)
	n := len(s.entries)
	s.mu.Unlock()
	if existed {
		s.report(n)
	}
}

// Len returns the number of sessions currently held.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes expired sessions and returns how many remain.
func (s *SessionStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	for id, e := range s.entries {
		if !now.Before(e.expireAt) {
			delete(s.entries, id)
		}
	}
	n := len(s.entries)
	s.mu.Unlock()
	s.report(n)
	return n
}

func (s *SessionStore) report(n int) {
	if s.onUpdate != nil {
		s.onUpdate(n)
	}
}

// cleanupLoop periodically removes expired sessions.
func (s *SessionStore) cleanupLoop(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call multiple times.
func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
