// Package server adapts WebSocket connections to the line protocol, so
// browser clients share the same session handling as raw TCP clients.
package server

import (
	"io"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// wsConn carries the line protocol over a WebSocket: one text frame per
// protocol line. Prompts are sent as their own frames without a newline.
type wsConn struct {
	conn *websocket.Conn
}

func newWSConn(conn *websocket.Conn, maxLineSize int) *wsConn {
	conn.SetReadLimit(int64(maxLineSize))
	return &wsConn{conn: conn}
}

func (c *wsConn) ReadLine() (string, error) {
	for {
		kind, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				return "", io.EOF
			}
			return "", err
		}
		if kind == websocket.TextMessage {
			return string(payload), nil
		}
	}
}

func (c *wsConn) Write(msg string) error {
	return c.conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

func (c *wsConn) WriteLine(msg string) error {
	return c.Write(msg)
}

func (c *wsConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// WebSocketHandler upgrades the request and runs the standard session state
// machine over the socket. The origin allow-list comes from the server
// configuration.
func (srv *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return srv.cfg.originAllowed(r.Header.Get("Origin"))
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	srv.handleSession(newWSConn(conn, srv.cfg.MaxLineSize))
}
