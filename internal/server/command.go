// Package server parses incoming protocol lines into commands. Verbs form a
// closed set so dispatch is an exhaustive switch rather than a string-keyed
// function table.
package server

import "strings"

type verb int

const (
	verbUnknown verb = iota
	verbBroadcast
	verbMsg
	verbGroupMsg
	verbCreateGroup
	verbJoinGroup
	verbLeaveGroup
	verbListMembers
	verbListGroups
	verbListCommands
	verbExit
)

// command is one parsed protocol line. raw keeps the verb token as typed, for
// the unknown-command echo; arg is the username or group name for verbs that
// take one; body is the rest of the line.
type command struct {
	verb verb
	raw  string
	arg  string
	body string
}

// helpText lists every command, one per line, in the order clients see them.
var helpText = []string{
	"/broadcast <message> : Broadcast message to all connected clients",
	"/msg <username> <message> : Send a private message to a specific user",
	"/group_msg <group_name> <message> : Send a message to all members of a group",
	"/create_group <group_name> : Create a new group",
	"/join_group <group_name> : Join an existing group",
	"/leave_group <group_name> : Leave a group",
	"/list_members <group_name> : List all members of a group",
	"/list_groups : List all groups in which the user is a member",
	"/list_commands : List all commands (to print this)",
	"/exit : Exit the server",
}

// splitToken cuts the first whitespace-delimited token off s and returns it
// with the trimmed remainder.
func splitToken(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}

// parseCommand tokenizes a trimmed, non-empty line. The first token selects
// the verb; /msg, /group_msg, and the group lifecycle verbs consume a second
// token as their argument, with the message body being the rest of the line.
func parseCommand(line string) command {
	token, rest := splitToken(line)
	cmd := command{raw: token}

	switch token {
	case "/broadcast":
		cmd.verb = verbBroadcast
		cmd.body = rest
	case "/msg":
		cmd.verb = verbMsg
		cmd.arg, cmd.body = splitToken(rest)
	case "/group_msg":
		cmd.verb = verbGroupMsg
		cmd.arg, cmd.body = splitToken(rest)
	case "/create_group":
		cmd.verb = verbCreateGroup
		cmd.arg, _ = splitToken(rest)
	case "/join_group":
		cmd.verb = verbJoinGroup
		cmd.arg, _ = splitToken(rest)
	case "/leave_group":
		cmd.verb = verbLeaveGroup
		cmd.arg, _ = splitToken(rest)
	case "/list_members":
		cmd.verb = verbListMembers
		cmd.arg, _ = splitToken(rest)
	case "/list_groups":
		cmd.verb = verbListGroups
	case "/list_commands":
		cmd.verb = verbListCommands
	case "/exit":
		cmd.verb = verbExit
	default:
		cmd.verb = verbUnknown
	}

	return cmd
}

// unknownCommandReply echoes the offending verb truncated to 10 characters,
// pointing at /list_commands. The layout matches the protocol surface
// clients already parse.
func unknownCommandReply(token string) string {
	truncated := token
	suffix := " "
	if len(token) > 10 {
		truncated = token[:10]
		suffix = "... "
	}
	return "Error: Unknown command ( " + truncated + suffix + "). Run /list_commands to know the list of commands!"
}
