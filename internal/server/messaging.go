// Package server implements the delivery primitives: broadcast, private, and
// group-scoped sends on top of the hub registry.
package server

import "log"

// Delivery is fire-and-forget: recipients are snapshotted under the hub lock
// and written to after it is released, so one slow or dead connection never
// blocks registry access, and a failed write to one recipient neither aborts
// delivery to the others nor surfaces to the sender. A recipient that
// disconnects between snapshot and write simply fails the write, which is
// logged and cleaned up by its own handler.

// Broadcast delivers text to every registered session except exclude.
// exclude may be nil to reach everyone, as with the shutdown notice.
func (h *Hub) Broadcast(text string, exclude *Session) {
	h.mu.Lock()
	targets := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if exclude == nil || s.id != exclude.id {
			targets = append(targets, s)
		}
	}
	h.mu.Unlock()

	deliver(targets, text)
}

// Private delivers text to the session currently bound to the recipient
// username. It fails with ErrUserNotFound if no live session has that name.
func (h *Hub) Private(recipient, text string) error {
	h.mu.Lock()
	target, ok := h.byUsername[recipient]
	h.mu.Unlock()

	if !ok {
		return ErrUserNotFound
	}

	deliver([]*Session{target}, text)
	return nil
}

// GroupMessage delivers text to every member of the named group except the
// sender, tagged with the group name and sender identity. It fails with
// ErrGroupNotFound or ErrNotAMember, both reported back to the sender as
// protocol text by the caller.
func (h *Hub) GroupMessage(group, text string, sender *Session) error {
	h.mu.Lock()
	members, ok := h.groups[group]
	if !ok {
		h.mu.Unlock()
		return ErrGroupNotFound
	}
	if _, ok := members[sender.id]; !ok {
		h.mu.Unlock()
		return ErrNotAMember
	}

	targets := make([]*Session, 0, len(members))
	for id, member := range members {
		if id != sender.id {
			targets = append(targets, member)
		}
	}
	h.mu.Unlock()

	deliver(targets, "["+group+"] @"+sender.name+" : "+text)
	return nil
}

func deliver(targets []*Session, text string) {
	for _, target := range targets {
		if err := target.Send(text); err != nil {
			if !isExpectedCloseError(err) {
				log.Printf("Error delivering to %q at %s: %v", target.name, target.RemoteAddr(), err)
			}
		}
	}
}
