// Package server defines the transport abstraction shared by the raw-TCP and
// WebSocket listeners, so that session handling is transport-agnostic.
package server

import (
	"bufio"
	"io"
	"net"
	"strings"
)

// Conn is a generic interface for exchanging protocol lines with a remote
// client. ReadLine blocks until a full line arrives; Write sends raw text
// (used for prompts); WriteLine sends one newline-terminated message.
type Conn interface {
	ReadLine() (string, error)

	Write(msg string) error

	WriteLine(msg string) error

	RemoteAddr() string

	Close() error
}

// netConn adapts a stream socket to the Conn interface, framing the protocol
// on newlines with a bounded line size.
type netConn struct {
	conn    net.Conn
	scanner *bufio.Scanner
	writer  *bufio.Writer
}

func newNetConn(conn net.Conn, maxLineSize int) *netConn {
	// The scanner's limit is the larger of the initial capacity and max, so
	// the buffer must not start bigger than the configured line bound.
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)

	return &netConn{
		conn:    conn,
		scanner: scanner,
		writer:  bufio.NewWriter(conn),
	}
}

// ReadLine blocks until a newline-terminated line arrives and returns it
// without the terminator. Oversized lines surface as an error, which the
// caller treats as a disconnect.
func (c *netConn) ReadLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.scanner.Text(), nil
}

func (c *netConn) Write(msg string) error {
	if _, err := c.writer.WriteString(msg); err != nil {
		return err
	}
	return c.writer.Flush()
}

func (c *netConn) WriteLine(msg string) error {
	return c.Write(msg + "\n")
}

func (c *netConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func (c *netConn) Close() error {
	return c.conn.Close()
}

// isExpectedCloseError checks if an error is expected during connection
// closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
