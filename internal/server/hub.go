// Package server coordinates session registration, group membership, and
// connection cleanup for the Relay system via the Hub type.
package server

import (
	"log"
	"sort"
	"sync"
)

// Hub is the shared registry of live sessions and group memberships. It holds
// three interrelated structures: session-ID → session (with a username index),
// group name → member set, and username → joined-group set. A single mutex
// guards all three for the full duration of every operation that touches more
// than one of them, so the cross-map invariants hold at every unlock:
//
//   - a session is in a group's member set iff the group is in its user's
//     joined set;
//   - at most one live session exists per username;
//   - every group member refers to a live session.
//
// Group entries are never deleted once created, and a user's joined-group set
// survives disconnects so that reconnecting under the same username
// re-attaches the old memberships.
type Hub struct {
	mu sync.Mutex

	sessions   map[uint64]*Session
	byUsername map[string]*Session
	groups     map[string]map[uint64]*Session
	userGroups map[string]map[string]struct{}
}

// NewHub creates an empty Hub ready to register sessions.
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[uint64]*Session),
		byUsername: make(map[string]*Session),
		groups:     make(map[string]map[uint64]*Session),
		userGroups: make(map[string]map[string]struct{}),
	}
}

// Register binds the session to its username and re-attaches any group
// memberships recorded for that username by a previous session. It fails with
// ErrDuplicateLogin if the username already has a live session, leaving that
// session untouched.
func (h *Hub) Register(s *Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.byUsername[s.name]; ok {
		return ErrDuplicateLogin
	}

	h.sessions[s.id] = s
	h.byUsername[s.name] = s
	for name := range h.userGroups[s.name] {
		h.groups[name][s.id] = s
	}

	metricActiveSessions.Inc()
	log.Printf("Session registered for %q from %s. Total sessions: %d", s.name, s.RemoteAddr(), len(h.sessions))
	return nil
}

// Unregister removes the session from the session maps and from every group's
// member set. The username → groups record is kept so the next login under
// that username rejoins the same groups. Calling Unregister twice is safe.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s.id]; !ok {
		return
	}

	delete(h.sessions, s.id)
	delete(h.byUsername, s.name)
	for _, members := range h.groups {
		delete(members, s.id)
	}

	metricActiveSessions.Dec()
	log.Printf("Session unregistered for %q. Total sessions: %d", s.name, len(h.sessions))
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// CreateGroup creates the named group with the session as its sole initial
// member. It fails with ErrGroupExists if the name is taken.
func (h *Hub) CreateGroup(name string, s *Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.groups[name]; ok {
		return ErrGroupExists
	}

	h.groups[name] = map[uint64]*Session{s.id: s}
	h.joinedUnlocked(s.name, name)

	metricGroupsCreated.Inc()
	return nil
}

// JoinGroup adds the session to the named group and returns the members that
// were already present, so the caller can notify them. It fails with
// ErrGroupNotFound if the group was never created. Joining a group the
// session is already in is a no-op that still reports success, as is a
// re-attach after reconnect.
func (h *Hub) JoinGroup(name string, s *Session) ([]*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[name]
	if !ok {
		return nil, ErrGroupNotFound
	}

	peers := make([]*Session, 0, len(members))
	for id, member := range members {
		if id != s.id {
			peers = append(peers, member)
		}
	}

	members[s.id] = s
	h.joinedUnlocked(s.name, name)

	return peers, nil
}

// LeaveGroup removes the session from the named group and returns the
// remaining members, so the caller can notify them. It fails with
// ErrGroupNotFound if the group was never created and with ErrNotAMember if
// the session is not currently in it; in both cases the registry is left
// unchanged.
func (h *Hub) LeaveGroup(name string, s *Session) ([]*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[name]
	if !ok {
		return nil, ErrGroupNotFound
	}
	if _, ok := members[s.id]; !ok {
		return nil, ErrNotAMember
	}

	delete(members, s.id)
	if joined, ok := h.userGroups[s.name]; ok {
		delete(joined, name)
	}

	peers := make([]*Session, 0, len(members))
	for _, member := range members {
		peers = append(peers, member)
	}
	return peers, nil
}

// Groups returns the sorted names of every group the username has joined.
func (h *Hub) Groups(username string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	joined := h.userGroups[username]
	names := make([]string, 0, len(joined))
	for name := range joined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupMembers returns the sorted usernames of the named group's members.
// Only members may list a group: it fails with ErrGroupNotFound or
// ErrNotAMember under the same rules as LeaveGroup.
func (h *Hub) GroupMembers(name string, s *Session) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[name]
	if !ok {
		return nil, ErrGroupNotFound
	}
	if _, ok := members[s.id]; !ok {
		return nil, ErrNotAMember
	}

	names := make([]string, 0, len(members))
	for _, member := range members {
		names = append(names, member.name)
	}
	sort.Strings(names)
	return names, nil
}

// joinedUnlocked records that username belongs to the named group. The hub
// mutex must be held.
func (h *Hub) joinedUnlocked(username, group string) {
	joined, ok := h.userGroups[username]
	if !ok {
		joined = make(map[string]struct{})
		h.userGroups[username] = joined
	}
	joined[group] = struct{}{}
}
