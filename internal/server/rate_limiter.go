// Package server implements a token bucket bounding how fast a session may
// submit protocol lines, protecting the hub from a flooding client.
package server

import (
	"sync"
	"time"
)

// RateLimitConfig defines the parameters for per-session line rate limiting:
// a session may burst Burst lines, refilled over RefillInterval.
type RateLimitConfig struct {
	Burst          int
	RefillInterval time.Duration
}

// sanitized replaces nonsensical values with the default of five lines per
// second.
func (cfg RateLimitConfig) sanitized() RateLimitConfig {
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	return cfg
}

type rateLimiter struct {
	mu        sync.Mutex
	tokens    float64
	capacity  float64
	rate      float64
	lastCheck time.Time
}

// newRateLimiter builds the bucket for one session from the configured
// policy, full so the allowed burst is available immediately.
func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	cfg = cfg.sanitized()

	return &rateLimiter{
		tokens:    float64(cfg.Burst),
		capacity:  float64(cfg.Burst),
		rate:      float64(cfg.Burst) / cfg.RefillInterval.Seconds(),
		lastCheck: time.Now(),
	}
}

// allow consumes one token, reporting false when the bucket is empty and the
// line should be dropped.
func (rl *rateLimiter) allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastCheck).Seconds()
	rl.lastCheck = now

	if elapsed > 0 {
		rl.tokens += elapsed * rl.rate
		if rl.tokens > rl.capacity {
			rl.tokens = rl.capacity
		}
	}

	if rl.tokens < 1 {
		return false
	}

	rl.tokens--
	return true
}
