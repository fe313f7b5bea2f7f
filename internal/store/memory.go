// internal/store/memory.go
//
// In-memory implementation of the session Store.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Sessions idle longer than a TTL are removed by Sweep; the caller uses
//     the returned games to release per-secret resources (cached rankings).

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/closeword/internal/game"
)

// ErrNotFound is returned by Get for unknown or expired game IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Delete removes a game; deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// SecretInUse reports whether any stored game has the given secret.
	SecretInUse(ctx context.Context, secret string) bool

	// Sweep removes and returns games idle since before cutoff.
	Sweep(ctx context.Context, cutoff time.Time) []*game.Game

	// Len returns the number of stored games.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	games   map[string]*game.Game // keyed by Game.ID
	secrets map[string]int        // secret -> number of stored games using it
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		games:   make(map[string]*game.Game),
		secrets: make(map[string]int),
	}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.games[g.ID]; !exists {
		m.secrets[g.Secret]++
	}
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(id)
	return nil
}

func (m *memory) SecretInUse(ctx context.Context, secret string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.secrets[secret] > 0
}

// Sweep reads each game's activity time without holding the store lock: a
// game may be locked for the length of a ranking build, and other games must
// stay reachable meanwhile.
func (m *memory) Sweep(ctx context.Context, cutoff time.Time) []*game.Game {
	m.mu.RLock()
	all := make([]*game.Game, 0, len(m.games))
	for _, g := range m.games {
		all = append(all, g)
	}
	m.mu.RUnlock()

	var stale []*game.Game
	for _, g := range all {
		if g.LastActive().Before(cutoff) {
			stale = append(stale, g)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	expired := stale[:0]
	for _, g := range stale {
		// skip games deleted or replaced since the snapshot
		if m.games[g.ID] != g {
			continue
		}
		m.remove(g.ID)
		expired = append(expired, g)
	}
	return expired
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// remove deletes id and maintains the secret counts. Caller holds mu.
func (m *memory) remove(id string) {
	g, ok := m.games[id]
	if !ok {
		return
	}
	delete(m.games, id)
	if m.secrets[g.Secret]--; m.secrets[g.Secret] <= 0 {
		delete(m.secrets, g.Secret)
	}
}
