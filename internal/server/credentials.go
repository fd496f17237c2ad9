// Package server loads the flat-file credential store consulted during
// session authentication.
package server

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// CredentialStore is an immutable-after-load mapping of username to password.
// It is read once before the accept loop starts; with no writer afterwards,
// concurrent readers need no locking.
type CredentialStore struct {
	users map[string]string
}

// LoadCredentials reads username:password lines from path. Lines without a
// separator or with an empty username are skipped rather than failing the
// whole load; an unreadable file is fatal to startup.
func LoadCredentials(path string) (*CredentialStore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening credentials file: %w", err)
	}
	defer file.Close()

	users := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		username, password, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}
		users[username] = strings.TrimSpace(password)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	return &CredentialStore{users: users}, nil
}

// Authenticate reports whether the username exists and the password matches.
func (c *CredentialStore) Authenticate(username, password string) bool {
	stored, ok := c.users[username]
	return ok && stored == password
}

// Len returns the number of loaded credentials.
func (c *CredentialStore) Len() int {
	return len(c.users)
}
