package ratelimit

import (
	"testing"
	"time"
)

// fakeClock lets tests advance time without sleeping
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestLimiter(max int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{current: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(max, window)
	l.now = clock.now
	return l, clock
}

func TestLimiter_FirstCallAlwaysSucceeds(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute)
	if !l.Allow("login:1.2.3.4") {
		t.Error("first call for a fresh key must succeed")
	}
}

func TestLimiter_DeniesAfterMaxCalls(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		if !l.Allow("login:1.2.3.4") {
			t.Fatalf("call %d should have been allowed", i+1)
		}
	}
	if l.Allow("login:1.2.3.4") {
		t.Error("11th call within the window must be denied")
	}
}

func TestLimiter_RefillsAfterFullWindow(t *testing.T) {
	l, clock := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		l.Allow("login:1.2.3.4")
	}
	if l.Allow("login:1.2.3.4") {
		t.Fatal("bucket should be empty")
	}

	clock.advance(time.Minute)

	// Exactly max tokens again: 10 allowed, 11th denied
	for i := 0; i < 10; i++ {
		if !l.Allow("login:1.2.3.4") {
			t.Fatalf("call %d after refill should have been allowed", i+1)
		}
	}
	if l.Allow("login:1.2.3.4") {
		t.Error("refill must cap at max, not accumulate")
	}
}

func TestLimiter_PartialWindowDoesNotRefill(t *testing.T) {
	l, clock := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		l.Allow("login:1.2.3.4")
	}

	clock.advance(30 * time.Second)

	if l.Allow("login:1.2.3.4") {
		t.Error("half a window must not grant tokens")
	}
}

func TestLimiter_NoAccumulationAcrossManyWindows(t *testing.T) {
	l, clock := newTestLimiter(10, time.Minute)

	l.Allow("login:1.2.3.4")
	clock.advance(10 * time.Minute)

	for i := 0; i < 10; i++ {
		if !l.Allow("login:1.2.3.4") {
			t.Fatalf("call %d should have been allowed", i+1)
		}
	}
	if l.Allow("login:1.2.3.4") {
		t.Error("tokens must cap at max regardless of idle duration")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		l.Allow("login:1.2.3.4")
	}
	if l.Allow("login:1.2.3.4") {
		t.Fatal("first key should be exhausted")
	}
	if !l.Allow("login:5.6.7.8") {
		t.Error("a different key must have its own bucket")
	}
	if !l.Allow("register:1.2.3.4") {
		t.Error("a different operation for the same IP must have its own bucket")
	}
}

func TestLimiter_EvictsStaleBuckets(t *testing.T) {
	l, clock := newTestLimiter(10, time.Minute)

	l.Allow("login:1.2.3.4")
	l.Allow("login:5.6.7.8")
	if l.Len() != 2 {
		t.Fatalf("expected 2 buckets, got %d", l.Len())
	}

	clock.advance(11 * time.Minute)
	l.Allow("login:9.9.9.9")

	l.evictStale()

	if l.Len() != 1 {
		t.Errorf("expected stale buckets to be evicted, have %d", l.Len())
	}
}
