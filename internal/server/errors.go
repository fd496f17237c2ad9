// Package server defines the policy errors reported back to clients as
// protocol text rather than escalated as failures.
package server

import "errors"

var (
	// ErrDuplicateLogin indicates the username already has a live session.
	ErrDuplicateLogin = errors.New("user already connected")

	// ErrGroupExists indicates a group with that name was already created.
	ErrGroupExists = errors.New("group already exists")

	// ErrGroupNotFound indicates the named group was never created.
	ErrGroupNotFound = errors.New("group does not exist")

	// ErrNotAMember indicates the session is not a member of the group.
	ErrNotAMember = errors.New("not a member of the group")

	// ErrUserNotFound indicates no live session belongs to that username.
	ErrUserNotFound = errors.New("user not found")
)
