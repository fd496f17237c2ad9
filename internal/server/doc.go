// Package server implements the Relay group-messaging service: an
// authenticated, line-oriented text protocol served over raw TCP and
// WebSocket transports.
//
// The implementation is organized into specialized files for configuration,
// the session hub, transports, command dispatch, and the accept loop to keep
// the codebase maintainable and testable as the project grows.
package server
