package server

import (
	"testing"
	"time"
)

// TestRateLimiterBurst verifies the bucket allows exactly its configured
// burst and then refuses until refilled.
func TestRateLimiterBurst(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Burst: 3, RefillInterval: time.Hour})

	for i := 0; i < 3; i++ {
		if !rl.allow() {
			t.Fatalf("request %d of burst refused", i+1)
		}
	}
	if rl.allow() {
		t.Error("request beyond burst allowed")
	}
}

// TestRateLimiterRefill verifies tokens come back over time.
func TestRateLimiterRefill(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Burst: 1, RefillInterval: 10 * time.Millisecond})

	if !rl.allow() {
		t.Fatal("first request refused")
	}
	if rl.allow() {
		t.Fatal("second immediate request allowed")
	}

	time.Sleep(25 * time.Millisecond)
	if !rl.allow() {
		t.Error("request after refill interval refused")
	}
}

// TestRateLimitConfigSanitized verifies nonsensical policy values fall back
// to the five-per-second default, so a zero config still yields a working
// limiter.
func TestRateLimitConfigSanitized(t *testing.T) {
	cfg := RateLimitConfig{}.sanitized()
	if cfg.Burst != 5 || cfg.RefillInterval != time.Second {
		t.Errorf("sanitized zero config = %+v, want burst 5 per second", cfg)
	}

	if !newRateLimiter(RateLimitConfig{}).allow() {
		t.Error("limiter from zero config refused its first request")
	}
}
