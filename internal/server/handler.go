// Package server drives the per-connection state machine: authenticate,
// register, dispatch commands, tear down on disconnect or /exit.
package server

import (
	"log"
	"strings"
)

// handleSession runs a client connection from accept to teardown. Each
// connection gets its own goroutine; failures are contained here and never
// cross into another session's handler.
func (srv *Server) handleSession(conn Conn) {
	defer func() {
		if err := conn.Close(); err != nil && !isExpectedCloseError(err) {
			log.Printf("Error closing connection from %s: %v", conn.RemoteAddr(), err)
		}
	}()

	username, ok := srv.authenticate(conn)
	if !ok {
		metricAuthFailures.Inc()
		srv.reply(conn, "Authentication failed.")
		return
	}

	sess := newSession(username, conn, srv.cfg.RateLimit)
	if err := srv.hub.Register(sess); err != nil {
		// Duplicate login: the original session stays untouched.
		srv.reply(conn, "Error: User already connected!")
		return
	}
	defer srv.hub.Unregister(sess)

	// Once registered, concurrent broadcasters may write to this session,
	// so the welcome must serialize on the session's write mutex too.
	sess.Send("Welcome to the server, " + username + "!")
	srv.hub.Broadcast("User "+username+" joined the server!", sess)

	for {
		line, err := conn.ReadLine()
		if err != nil {
			// Implicit disconnect: peer closed or transport failed.
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !sess.limiter.allow() {
			log.Printf("Rate limit exceeded for %q at %s; discarding line", username, conn.RemoteAddr())
			continue
		}

		if done := srv.dispatch(sess, parseCommand(line)); done {
			return
		}
	}
}

// authenticate prompts for a username and a password and checks them against
// the credential store. There is no retry loop: a mismatch or an empty
// username ends the connection.
func (srv *Server) authenticate(conn Conn) (string, bool) {
	username, err := srv.promptLine(conn, "Enter username: ")
	if err != nil || username == "" {
		return "", false
	}

	password, err := srv.promptLine(conn, "Enter password: ")
	if err != nil {
		return "", false
	}

	if !srv.creds.Authenticate(username, password) {
		return "", false
	}
	return username, true
}

func (srv *Server) promptLine(conn Conn, prompt string) (string, error) {
	if err := conn.Write(prompt); err != nil {
		return "", err
	}
	line, err := conn.ReadLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// dispatch executes one parsed command for the session. It returns true when
// the session must terminate.
func (srv *Server) dispatch(sess *Session, cmd command) bool {
	switch cmd.verb {
	case verbBroadcast:
		srv.hub.Broadcast("(broadcast) @"+sess.name+" : "+cmd.body, sess)
		metricMessages.WithLabelValues("broadcast").Inc()

	case verbMsg:
		err := srv.hub.Private(cmd.arg, "(private) @"+sess.name+" : "+cmd.body)
		if err != nil {
			sess.Send("Error: User " + cmd.arg + " not found!")
			break
		}
		metricMessages.WithLabelValues("private").Inc()

	case verbGroupMsg:
		switch err := srv.hub.GroupMessage(cmd.arg, cmd.body, sess); err {
		case nil:
			metricMessages.WithLabelValues("group").Inc()
		case ErrGroupNotFound:
			sess.Send("Error: Group does not exist!")
		case ErrNotAMember:
			sess.Send("Error: You are not a member of this group!")
		}

	case verbCreateGroup:
		if err := srv.hub.CreateGroup(cmd.arg, sess); err != nil {
			sess.Send("Error: Group " + cmd.arg + " already exists!")
			break
		}
		sess.Send("Group " + cmd.arg + " created.")

	case verbJoinGroup:
		peers, err := srv.hub.JoinGroup(cmd.arg, sess)
		if err != nil {
			sess.Send("Error: Group " + cmd.arg + " does not exist!")
			break
		}
		sess.Send("Joined group " + cmd.arg + ".")
		deliver(peers, "User "+sess.name+" joined group "+cmd.arg+".")

	case verbLeaveGroup:
		peers, err := srv.hub.LeaveGroup(cmd.arg, sess)
		switch err {
		case nil:
			sess.Send("Left group " + cmd.arg + ".")
			deliver(peers, "User "+sess.name+" left the group "+cmd.arg+".")
		case ErrNotAMember:
			sess.Send("You already are not a member of this group.")
		case ErrGroupNotFound:
			sess.Send("Error: Group " + cmd.arg + " does not exist!")
		}

	case verbListMembers:
		members, err := srv.hub.GroupMembers(cmd.arg, sess)
		switch err {
		case nil:
			sess.Send("Members of group " + cmd.arg + ":")
			for _, member := range members {
				sess.Send(member)
			}
		case ErrNotAMember:
			sess.Send("Error: You are not a member of this group!")
		case ErrGroupNotFound:
			sess.Send("Error: Group " + cmd.arg + " does not exist!")
		}

	case verbListGroups:
		groups := srv.hub.Groups(sess.name)
		if len(groups) == 0 {
			sess.Send("You are not a member of any group.")
			break
		}
		sess.Send("You are in the following groups:")
		for _, group := range groups {
			sess.Send(group)
		}

	case verbListCommands:
		for _, line := range helpText {
			sess.Send(line)
		}

	case verbExit:
		srv.hub.Unregister(sess)
		srv.hub.Broadcast("User "+sess.name+" left the server. :/", nil)
		return true

	default:
		sess.Send(unknownCommandReply(cmd.raw))
	}

	return false
}

// reply writes one line on a connection that has no session yet.
func (srv *Server) reply(conn Conn, msg string) {
	if err := conn.WriteLine(msg); err != nil && !isExpectedCloseError(err) {
		log.Printf("Error replying to %s: %v", conn.RemoteAddr(), err)
	}
}
