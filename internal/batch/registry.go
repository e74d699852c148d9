package batch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
)

// ErrSessionNotFound is returned by Get and Remove for unknown session ids.
var ErrSessionNotFound = errors.New("scan session not found")

// Registry holds live scan sessions addressed by id so an API layer can host
// several independent scan flows. It is safe for concurrent use; sessions of
// different batches are not coordinated with each other.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Create registers a fresh session committing into the given store.
func (r *Registry) Create(st store.RecordStore) *Session {
	s := NewSession(st)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
	return s
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[id]
	if !exists {
		return nil, fmt.Errorf("registry: %s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Remove drops the session from the registry. The session itself is
// unaffected; callers holding a reference can still finish with it.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return fmt.Errorf("registry: %s: %w", id, ErrSessionNotFound)
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
