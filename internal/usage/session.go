package usage

import (
	"sync"
	"time"

	"engmate/internal/domain"
)

// Counter tracks a free user's same-day feature usage. It lives in process
// memory only; when the calendar day changes the next access wipes every
// feature count before answering. Safe for concurrent use: the same user may
// hit the API from several tabs at once.
type Counter struct {
	mu     sync.Mutex
	date   string
	counts map[domain.FeatureType]int
	now    func() time.Time
}

// NewCounter creates a counter anchored to the given clock. A nil clock
// falls back to time.Now.
func NewCounter(now func() time.Time) *Counter {
	if now == nil {
		now = time.Now
	}
	return &Counter{
		date:   now().Format("2006-01-02"),
		counts: make(map[domain.FeatureType]int),
		now:    now,
	}
}

// Get returns today's count for the feature, resetting first on day rollover.
func (c *Counter) Get(feature domain.FeatureType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureFresh()
	return c.counts[feature]
}

// Increment adds one use to today's count for the feature.
func (c *Counter) Increment(feature domain.FeatureType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureFresh()
	c.counts[feature]++
}

// ensureFresh must be called with mu held.
func (c *Counter) ensureFresh() {
	today := c.now().Format("2006-01-02")
	if c.date != today {
		c.date = today
		c.counts = make(map[domain.FeatureType]int)
	}
}

// SessionStore hands out per-user counters for the life of a session and
// drops them on logout. Counters are deliberately not persisted; a fresh
// session starts a fresh day window.
type SessionStore struct {
	mu       sync.Mutex
	counters map[string]*Counter
	now      func() time.Time
}

// NewSessionStore creates an empty store using the given clock for new counters.
func NewSessionStore(now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{counters: make(map[string]*Counter), now: now}
}

// Counter returns the user's session counter, creating it lazily.
func (s *SessionStore) Counter(userID string) *Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[userID]
	if !ok {
		c = NewCounter(s.now)
		s.counters[userID] = c
	}
	return c
}

// Clear removes the user's counter, part of the wider session teardown on logout.
func (s *SessionStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, userID)
}
