// Package memory provides an in-memory session store
package memory

import (
	"context"
	"sync"

	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
)

// SessionStore keeps session values in a map for the lifetime of the process
type SessionStore struct {
	data  map[string]string
	mutex sync.RWMutex
}

var _ outbound.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty in-memory session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		data: make(map[string]string),
	}
}

// Get retrieves a value
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.data[key]
	return value, ok, nil
}

// Set stores a value
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = value
	return nil
}

// Clear removes the given keys
func (s *SessionStore) Clear(ctx context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

// Len returns the number of stored values
func (s *SessionStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.data)
}
