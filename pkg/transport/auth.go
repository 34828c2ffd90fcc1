package transport

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuth verifies HTTP Basic credentials against stored bcrypt
// hashes. It is safe for concurrent use.
type BasicAuth struct {
	mu    sync.RWMutex
	users map[string][]byte
}

// NewBasicAuth creates an empty credential store.
func NewBasicAuth() *BasicAuth {
	return &BasicAuth{users: make(map[string][]byte)}
}

// AddUser stores a user with a freshly computed bcrypt hash.
func (a *BasicAuth) AddUser(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[username] = hash
	return nil
}

// AddUserHash stores a user with a precomputed bcrypt hash, as loaded
// from a config file.
func (a *BasicAuth) AddUserHash(username string, hash []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[username] = hash
}

// Verify checks a username and password pair.
func (a *BasicAuth) Verify(username, password string) bool {
	a.mu.RLock()
	hash, ok := a.users[username]
	a.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
