// Package ratelimit implements the per-key token bucket used to throttle
// repeated auth attempts. Buckets live in process memory only: state is lost
// on restart and is not shared across instances, so this is a courtesy
// throttle, not a security control.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// bucket holds a token count and the time of the last touch
type bucket struct {
	tokens int
	last   time.Time
}

// Limiter is a keyed token bucket. Each key (e.g. "login:203.0.113.7")
// starts with a full bucket of max tokens; floor(elapsed/window)*max tokens
// refill on each touch, capped at max, and one token is consumed per
// allowed call.
type Limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket

	now func() time.Time
}

// NewLimiter creates a Limiter granting max tokens per key per refill window.
func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes one token for key if any are available. The first call for
// an unseen key always succeeds.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.max, last: now}
		l.buckets[key] = b
	} else {
		elapsed := now.Sub(b.last)
		refill := int(elapsed/l.window) * l.max
		if refill > 0 {
			b.tokens += refill
			if b.tokens > l.max {
				b.tokens = l.max
			}
			b.last = now
		}
	}

	if b.tokens <= 0 {
		return false
	}

	b.tokens--
	return true
}

// Len reports the number of tracked buckets
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// StartJanitor periodically evicts buckets idle for more than ten refill
// windows, keeping the map bounded under high key cardinality. Runs until
// the context is cancelled.
func (l *Limiter) StartJanitor(ctx context.Context, logger *slog.Logger) {
	ticker := time.NewTicker(10 * l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			evicted := l.evictStale()
			if evicted > 0 {
				logger.Debug("rate limit buckets evicted", slog.Int("count", evicted))
			}
		case <-ctx.Done():
			return
		}
	}
}

func (l *Limiter) evictStale() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-10 * l.window)
	evicted := 0
	for key, b := range l.buckets {
		if b.last.Before(cutoff) {
			delete(l.buckets, key)
			evicted++
		}
	}
	return evicted
}
