// Package ratelimit provides per-key token-bucket rate limiting for the
// public intake endpoints. Each Tier owns an independent set of buckets, so
// exhausting one tier for a key never affects another tier or another key.
//
// A tier configured as max requests per window refills at max/window and
// holds at most max tokens, which bounds any wall-clock window to under
// twice the stated rate even across a bucket refill boundary.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Tier is a keyed rate limiter for one throttling dimension (e.g. OTP sends
// per IP, or verify attempts per email). Buckets are created lazily per key
// and evicted after sitting idle for one window.
type Tier struct {
	name   string
	mu     sync.Mutex
	bkts   map[string]*bucket
	limit  rate.Limit
	burst  int
	window time.Duration
}

// NewTier creates a tier allowing max requests per window for each key.
// name is used only for observability.
func NewTier(name string, max int, window time.Duration) *Tier {
	t := &Tier{
		name:   name,
		bkts:   make(map[string]*bucket),
		limit:  rate.Limit(float64(max) / window.Seconds()),
		burst:  max,
		window: window,
	}
	go t.cleanup()
	return t
}

// Name returns the tier's identifier.
func (t *Tier) Name() string { return t.name }

// Allow reports whether key has budget left in this tier, consuming one
// token when it does. Over-budget calls consume nothing.
func (t *Tier) Allow(key string) bool {
	return t.allowAt(time.Now(), key)
}

// allowAt is the clock-injected core of Allow, used directly by tests.
func (t *Tier) allowAt(now time.Time, key string) bool {
	t.mu.Lock()
	b, ok := t.bkts[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.bkts[key] = b
	}
	b.lastSeen = now
	t.mu.Unlock()
	return b.limiter.AllowN(now, 1)
}

// cleanup removes buckets idle for longer than one window.
func (t *Tier) cleanup() {
	for {
		time.Sleep(t.window)
		t.mu.Lock()
		for key, b := range t.bkts {
			if time.Since(b.lastSeen) > t.window {
				delete(t.bkts, key)
			}
		}
		t.mu.Unlock()
	}
}

// Ceiling is a single shared bucket applied across all clients, used as the
// coarse global submission cap.
type Ceiling struct {
	limiter *rate.Limiter
}

// NewCeiling creates a shared limiter of max requests per window.
func NewCeiling(max int, window time.Duration) *Ceiling {
	return &Ceiling{limiter: rate.NewLimiter(rate.Limit(float64(max)/window.Seconds()), max)}
}

// Allow consumes one token from the shared bucket when available.
func (c *Ceiling) Allow() bool {
	return c.limiter.Allow()
}
