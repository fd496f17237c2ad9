// Package server provides configuration helpers that define runtime defaults,
// validation, and rate-limiting parameters for the Relay service.
package server

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server configuration settings including security controls.
type Config struct {
	// ListenAddr is the TCP address serving the line protocol.
	ListenAddr string

	// HTTPAddr is the address for the WebSocket, health, and metrics
	// endpoints. Empty disables the HTTP listener.
	HTTPAddr string

	// UsersFile is the path to the username:password credentials file.
	UsersFile string

	// AllowedOrigins restricts WebSocket upgrades. "*" allows any origin.
	AllowedOrigins []string

	// MaxLineSize bounds a single protocol line in bytes.
	MaxLineSize int

	// AcceptPoll bounds how long the accept loop blocks before re-checking
	// for shutdown.
	AcceptPoll time.Duration

	// ShutdownTimeout bounds the graceful HTTP shutdown.
	ShutdownTimeout time.Duration

	RateLimit RateLimitConfig
}

func defaultConfig() Config {
	return Config{
		ListenAddr: ":9000",
		HTTPAddr:   ":8080",
		UsersFile:  "users.txt",
		AllowedOrigins: []string{
			"http://localhost:8080",
		},
		MaxLineSize:     512,
		AcceptPoll:      time.Second,
		ShutdownTimeout: 5 * time.Second,
		RateLimit: RateLimitConfig{
			Burst:          5,
			RefillInterval: time.Second,
		},
	}
}

func sanitizeConfig(cfg Config) Config {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":9000"
	}

	if cfg.UsersFile == "" {
		cfg.UsersFile = "users.txt"
	}

	if cfg.MaxLineSize <= 0 {
		cfg.MaxLineSize = 512
	}

	if cfg.AcceptPoll <= 0 {
		cfg.AcceptPoll = time.Second
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	cfg.RateLimit = cfg.RateLimit.sanitized()

	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)

	return cfg
}

// NewConfig creates a Config instance populated with default values for all
// settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// NewConfigFromEnv creates a Config instance from environment variables.
// Falls back to default values if environment variables are not set.
func NewConfigFromEnv() *Config {
	cfg := defaultConfig()

	if addr := os.Getenv("RELAY_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}

	if addr := os.Getenv("RELAY_HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}

	if path := os.Getenv("RELAY_USERS_FILE"); path != "" {
		cfg.UsersFile = path
	}

	if origins := os.Getenv("RELAY_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	if maxSize := os.Getenv("RELAY_MAX_LINE_SIZE"); maxSize != "" {
		cfg.MaxLineSize = parseIntValue(maxSize, cfg.MaxLineSize)
	}

	if burst := os.Getenv("RELAY_RATE_LIMIT_BURST"); burst != "" {
		cfg.RateLimit.Burst = parseIntValue(burst, cfg.RateLimit.Burst)
	}

	if interval := os.Getenv("RELAY_RATE_LIMIT_REFILL_INTERVAL"); interval != "" {
		cfg.RateLimit.RefillInterval = parseSeconds(interval, cfg.RateLimit.RefillInterval)
	}

	if timeout := os.Getenv("RELAY_SHUTDOWN_TIMEOUT"); timeout != "" {
		cfg.ShutdownTimeout = parseSeconds(timeout, cfg.ShutdownTimeout)
	}

	return &cfg
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// normalizeOrigins lowercases origins and strips trailing slashes so that
// header comparisons are exact.
func normalizeOrigins(origins []string) []string {
	normalized := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
		if origin != "" {
			normalized = append(normalized, origin)
		}
	}
	return normalized
}

// originAllowed reports whether the given Origin header value may upgrade to
// a WebSocket. An empty origin (non-browser client) is always allowed.
func (cfg *Config) originAllowed(origin string) bool {
	if origin == "" {
		return true
	}

	origin = strings.TrimRight(strings.ToLower(origin), "/")
	for _, allowed := range cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func parseIntValue(value string, defaultValue int) int {
	if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
		return parsed
	}
	return defaultValue
}

func parseSeconds(value string, defaultValue time.Duration) time.Duration {
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
