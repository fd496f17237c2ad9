package server

import (
	"testing"
	"time"
)

// TestNewConfigDefaults verifies the default configuration values.
func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want :9000", cfg.ListenAddr)
	}
	if cfg.UsersFile != "users.txt" {
		t.Errorf("UsersFile = %q, want users.txt", cfg.UsersFile)
	}
	if cfg.MaxLineSize != 512 {
		t.Errorf("MaxLineSize = %d, want 512", cfg.MaxLineSize)
	}
	if cfg.RateLimit.Burst != 5 || cfg.RateLimit.RefillInterval != time.Second {
		t.Errorf("RateLimit = %+v, want burst 5 per second", cfg.RateLimit)
	}
}

// TestNewConfigFromEnv verifies environment overrides and that bad values
// fall back to defaults.
func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("RELAY_LISTEN_ADDR", ":7000")
	t.Setenv("RELAY_HTTP_ADDR", ":7001")
	t.Setenv("RELAY_USERS_FILE", "/etc/relay/users.txt")
	t.Setenv("RELAY_ALLOWED_ORIGINS", "https://chat.example.com, https://ops.example.com")
	t.Setenv("RELAY_MAX_LINE_SIZE", "1024")
	t.Setenv("RELAY_RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("RELAY_RATE_LIMIT_REFILL_INTERVAL", "2")

	cfg := NewConfigFromEnv()

	if cfg.ListenAddr != ":7000" || cfg.HTTPAddr != ":7001" {
		t.Errorf("addresses = %q/%q, want :7000/:7001", cfg.ListenAddr, cfg.HTTPAddr)
	}
	if cfg.UsersFile != "/etc/relay/users.txt" {
		t.Errorf("UsersFile = %q", cfg.UsersFile)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://ops.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.MaxLineSize != 1024 {
		t.Errorf("MaxLineSize = %d, want 1024", cfg.MaxLineSize)
	}
	if cfg.RateLimit.Burst != 5 {
		t.Errorf("RateLimit.Burst = %d, want default 5 for invalid value", cfg.RateLimit.Burst)
	}
	if cfg.RateLimit.RefillInterval != 2*time.Second {
		t.Errorf("RateLimit.RefillInterval = %v, want 2s", cfg.RateLimit.RefillInterval)
	}
}

// TestSanitizeConfig verifies zero values are replaced with safe defaults.
func TestSanitizeConfig(t *testing.T) {
	cfg := sanitizeConfig(Config{})

	if cfg.ListenAddr != ":9000" || cfg.MaxLineSize != 512 || cfg.AcceptPoll != time.Second {
		t.Errorf("sanitized zero config = %+v", cfg)
	}
	if cfg.RateLimit.Burst != 5 || cfg.RateLimit.RefillInterval != time.Second {
		t.Errorf("sanitized rate limit = %+v", cfg.RateLimit)
	}
}

// TestOriginAllowed verifies the WebSocket origin allow-list, including the
// wildcard, case-insensitive matching, and the non-browser empty origin.
func TestOriginAllowed(t *testing.T) {
	cfg := sanitizeConfig(Config{AllowedOrigins: []string{"https://Chat.Example.com/"}})

	if !cfg.originAllowed("") {
		t.Error("empty origin (non-browser) should be allowed")
	}
	if !cfg.originAllowed("https://chat.example.com") {
		t.Error("listed origin rejected")
	}
	if !cfg.originAllowed("HTTPS://CHAT.EXAMPLE.COM/") {
		t.Error("origin matching should ignore case and trailing slash")
	}
	if cfg.originAllowed("https://evil.example.com") {
		t.Error("unlisted origin accepted")
	}

	wildcard := sanitizeConfig(Config{AllowedOrigins: []string{"*"}})
	if !wildcard.originAllowed("https://anything.example.com") {
		t.Error("wildcard should allow any origin")
	}
}
