// Package server manages individual client sessions, serializing writes per
// connection and minting process-unique session identifiers.
package server

import (
	"sync"
	"sync/atomic"
)

// nextSessionID mints identifiers at accept time. Registries key on these
// rather than on the transport handle, so a socket handle reused by the OS
// after close can never collide with a stale registry entry.
var nextSessionID atomic.Uint64

// Session is the live binding of one connection to one authenticated
// username.
type Session struct {
	id   uint64
	name string
	conn Conn

	// writeMu serializes writes from concurrent senders so interleaved
	// deliveries cannot corrupt a protocol line.
	writeMu sync.Mutex

	limiter *rateLimiter
}

func newSession(name string, conn Conn, rl RateLimitConfig) *Session {
	return &Session{
		id:      nextSessionID.Add(1),
		name:    name,
		conn:    conn,
		limiter: newRateLimiter(rl),
	}
}

// Name returns the authenticated username bound to this session.
func (s *Session) Name() string {
	return s.name
}

// RemoteAddr returns the remote endpoint for logging.
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr()
}

// Send delivers one protocol line to the session's client.
func (s *Session) Send(msg string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteLine(msg)
}
