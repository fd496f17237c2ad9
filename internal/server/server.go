// Package server constructs and runs the Relay listeners: the TCP accept
// loop for the line protocol and the companion HTTP service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"
)

// shutdownNotice is broadcast to connected sessions before the listeners
// close.
const shutdownNotice = "Server shutting down... Please /exit to close your client."

// Server owns the credential store, the hub, and both listeners.
type Server struct {
	cfg   Config
	hub   *Hub
	creds *CredentialStore

	ln      *net.TCPListener
	httpLn  net.Listener
	httpSrv *http.Server
}

// New loads the credential store and binds the listeners. Both steps are
// fatal on failure; nothing else about startup can fail.
func New(cfg Config) (*Server, error) {
	cfg = sanitizeConfig(cfg)

	creds, err := LoadCredentials(cfg.UsersFile)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d credentials from %s", creds.Len(), cfg.UsersFile)

	srv := &Server{
		cfg:   cfg,
		hub:   NewHub(),
		creds: creds,
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("binding chat listener: %w", err)
	}
	srv.ln = ln.(*net.TCPListener)

	if cfg.HTTPAddr != "" {
		httpLn, err := net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			srv.ln.Close()
			return nil, fmt.Errorf("binding http listener: %w", err)
		}
		srv.httpLn = httpLn
		srv.httpSrv = &http.Server{
			Handler:     srv.SetupRoutes(),
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		}
	}

	return srv, nil
}

// Hub returns the server's session hub.
func (srv *Server) Hub() *Hub {
	return srv.hub
}

// Addr returns the bound address of the chat listener.
func (srv *Server) Addr() string {
	return srv.ln.Addr().String()
}

// HTTPAddr returns the bound address of the HTTP listener, or "" if the HTTP
// service is disabled.
func (srv *Server) HTTPAddr() string {
	if srv.httpLn == nil {
		return ""
	}
	return srv.httpLn.Addr().String()
}

// Run serves both listeners until ctx is canceled, then shuts down
// gracefully. The accept loop re-arms a bounded deadline on every iteration
// so cancellation is observed within one poll interval.
//
// Session goroutines are spawned fire-and-forget and are not joined at
// shutdown: sessions still open after the shutdown notice die with the
// process, matching the protocol's best-effort delivery model.
func (srv *Server) Run(ctx context.Context) error {
	log.Printf("Chat server listening on %s", srv.Addr())

	if srv.httpSrv != nil {
		log.Printf("HTTP server listening on %s", srv.HTTPAddr())
		go func() {
			if err := srv.httpSrv.Serve(srv.httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("HTTP server error: %v", err)
			}
		}()
	}

	for ctx.Err() == nil {
		if err := srv.ln.SetDeadline(time.Now().Add(srv.cfg.AcceptPoll)); err != nil {
			return fmt.Errorf("arming accept deadline: %w", err)
		}

		conn, err := srv.ln.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				break
			}
			log.Printf("Error accepting connection: %v", err)
			continue
		}

		go srv.handleSession(newNetConn(conn, srv.cfg.MaxLineSize))
	}

	return srv.shutdown()
}

// shutdown notifies connected sessions, stops accepting, and drains the HTTP
// service within the configured timeout.
func (srv *Server) shutdown() error {
	log.Println("Server shutting down...")

	srv.hub.Broadcast(shutdownNotice, nil)

	if err := srv.ln.Close(); err != nil && !isExpectedCloseError(err) {
		log.Printf("Error closing chat listener: %v", err)
	}

	if srv.httpSrv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Println("Shutdown completed")
	return nil
}
