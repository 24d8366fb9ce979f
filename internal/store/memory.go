// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// Active play-throughs are ephemeral by design: they live here while the
// player answers questions, and only the terminal result reaches the
// database. State is lost on restart.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex so independent sessions never interfere.
//   - Errors are returned for missing session IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/sophie-zhou/Vangogh-game/internal/game"
)

// ErrNotFound reports a session ID with no live session.
var ErrNotFound = errors.New("session not found")

// Store defines the holding area for in-progress sessions.
// Implementations may be backed by memory (this package), Redis, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session is not held.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete drops a session, typically once its result is persisted.
	Delete(ctx context.Context, id string)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
