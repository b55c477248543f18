// Package ratelimit provides per-client request limiting using token
// buckets with steady refill.
package ratelimit

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds limiter settings.
type Config struct {
	// Capacity is the burst size per client.
	Capacity int
	// RefillPerSecond is the steady token refill rate.
	RefillPerSecond float64
	// IdleEviction drops buckets untouched for this long.
	IdleEviction time.Duration
}

// LoadConfig reads limiter settings from the environment, with defaults
// tuned for a chat endpoint (one message per second, burst of ten).
func LoadConfig() Config {
	cfg := Config{
		Capacity:        10,
		RefillPerSecond: 1.0,
		IdleEviction:    10 * time.Minute,
	}
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST")); err == nil && v > 0 {
		cfg.Capacity = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_PER_SECOND"), 64); err == nil && v > 0 {
		cfg.RefillPerSecond = v
	}
	return cfg
}

// bucket is a single client's token bucket.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter manages token buckets keyed by client identifier.
type Limiter struct {
	mu      sync.Mutex
	cfg     Config
	buckets map[string]*bucket
	now     func() time.Time
}

// NewLimiter creates a limiter with the given configuration.
func NewLimiter(cfg Config) *Limiter {
	return &Limiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes one token for the client, reporting whether the request
// may proceed.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[client]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.Capacity), lastRefill: now}
		l.buckets[client] = b
	}

	refill := now.Sub(b.lastRefill).Seconds() * l.cfg.RefillPerSecond
	b.tokens = min(float64(l.cfg.Capacity), b.tokens+refill)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// Evict removes buckets idle past the configured eviction window.
func (l *Limiter) Evict() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cfg.IdleEviction)
	for client, b := range l.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(l.buckets, client)
		}
	}
}
