package server

import "testing"

// TestParseCommandVerbs checks the verb selection and argument splitting for
// every recognized command.
func TestParseCommandVerbs(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"/broadcast hello there", command{verb: verbBroadcast, raw: "/broadcast", body: "hello there"}},
		{"/broadcast", command{verb: verbBroadcast, raw: "/broadcast"}},
		{"/msg bob see you at  noon", command{verb: verbMsg, raw: "/msg", arg: "bob", body: "see you at  noon"}},
		{"/msg bob", command{verb: verbMsg, raw: "/msg", arg: "bob"}},
		{"/group_msg team hello", command{verb: verbGroupMsg, raw: "/group_msg", arg: "team", body: "hello"}},
		{"/create_group team", command{verb: verbCreateGroup, raw: "/create_group", arg: "team"}},
		{"/join_group team", command{verb: verbJoinGroup, raw: "/join_group", arg: "team"}},
		{"/leave_group team", command{verb: verbLeaveGroup, raw: "/leave_group", arg: "team"}},
		{"/list_members team", command{verb: verbListMembers, raw: "/list_members", arg: "team"}},
		{"/list_groups", command{verb: verbListGroups, raw: "/list_groups"}},
		{"/list_commands", command{verb: verbListCommands, raw: "/list_commands"}},
		{"/exit", command{verb: verbExit, raw: "/exit"}},
		{"hello world", command{verb: verbUnknown, raw: "hello"}},
		{"  /msg   bob   hi  ", command{verb: verbMsg, raw: "/msg", arg: "bob", body: "hi"}},
	}

	for _, tt := range tests {
		if got := parseCommand(tt.line); got != tt.want {
			t.Errorf("parseCommand(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

// TestUnknownCommandReply checks the help-pointer echo, including the
// 10-character truncation of long verbs.
func TestUnknownCommandReply(t *testing.T) {
	short := unknownCommandReply("/nope")
	if short != "Error: Unknown command ( /nope ). Run /list_commands to know the list of commands!" {
		t.Errorf("short verb reply = %q", short)
	}

	long := unknownCommandReply("/averyverylongcommand")
	if long != "Error: Unknown command ( /averyvery... ). Run /list_commands to know the list of commands!" {
		t.Errorf("long verb reply = %q", long)
	}
}

// TestHelpTextCoversEveryVerb guards against a verb being added without a
// help line.
func TestHelpTextCoversEveryVerb(t *testing.T) {
	if len(helpText) != 10 {
		t.Errorf("help text has %d lines, want 10", len(helpText))
	}
}
