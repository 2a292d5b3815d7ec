package usage

import (
	"sync"
	"testing"
	"time"

	"engmate/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)}
}

func TestCounterDayRollover(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(clock.now)

	c.Increment(domain.FeatureListening)
	c.Increment(domain.FeatureListening)
	c.Increment(domain.FeatureSpeaking)
	if got := c.Get(domain.FeatureListening); got != 2 {
		t.Fatalf("listening count = %d, want 2", got)
	}

	clock.advance(24 * time.Hour)

	if got := c.Get(domain.FeatureListening); got != 0 {
		t.Fatalf("listening count after rollover = %d, want 0", got)
	}
	if got := c.Get(domain.FeatureSpeaking); got != 0 {
		t.Fatalf("speaking count after rollover = %d, want 0", got)
	}
}

func TestCounterPerFeatureIndependence(t *testing.T) {
	clock := newFakeClock()
	c := NewCounter(clock.now)

	for i := 0; i < 5; i++ {
		c.Increment(domain.FeatureListening)
	}
	if got := c.Get(domain.FeatureListening); got != 5 {
		t.Fatalf("listening count = %d, want 5", got)
	}
	if got := c.Get(domain.FeatureSpeaking); got != 0 {
		t.Fatalf("speaking count = %d, want 0", got)
	}
}

func TestCounterConcurrentIncrements(t *testing.T) {
	store := NewSessionStore(newFakeClock().now)

	const workers, perWorker = 4, 500
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				store.Counter("u1").Increment(domain.FeatureListening)
			}
		}()
	}
	wg.Wait()

	if got := store.Counter("u1").Get(domain.FeatureListening); got != workers*perWorker {
		t.Fatalf("listening count = %d, want %d", got, workers*perWorker)
	}
}

func TestSessionStoreReturnsSameCounter(t *testing.T) {
	store := NewSessionStore(newFakeClock().now)

	first := store.Counter("u1")
	second := store.Counter("u1")
	if first != second {
		t.Fatal("expected the same counter for repeated lookups")
	}
	if store.Counter("u2") == first {
		t.Fatal("expected distinct counters per user")
	}
}

func TestSessionStoreClear(t *testing.T) {
	store := NewSessionStore(newFakeClock().now)

	c := store.Counter("u1")
	c.Increment(domain.FeatureWriting)

	store.Clear("u1")

	if got := store.Counter("u1").Get(domain.FeatureWriting); got != 0 {
		t.Fatalf("count after clear = %d, want 0", got)
	}
}
