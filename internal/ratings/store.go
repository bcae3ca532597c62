// Package ratings implements a lightweight Elo-style rating model for
// matchup predictions. The store is an injected interface rather than a
// package-level map so tests can isolate state and deployments can
// choose between in-memory and Postgres persistence.
package ratings

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Rating holds one team's model state
type Rating struct {
	Team       string    `json:"team"`
	Elo        float64   `json:"elo"`
	Last5      []int     `json:"last5"` // 1 win, 0 loss, most recent last
	LastPlayed time.Time `json:"last_played"`
}

// Store persists team ratings keyed by canonical team name
type Store interface {
	// Get returns the rating for a team; found is false for unknown teams
	Get(ctx context.Context, team string) (Rating, bool, error)

	// Put stores a team's rating
	Put(ctx context.Context, rating Rating) error

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}

// MemoryStore is an in-process Store with no expiry; ratings live for the
// lifetime of the service.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

// Get returns the rating for a team
func (s *MemoryStore) Get(ctx context.Context, team string) (Rating, bool, error) {
	if v, found := s.cache.Get(team); found {
		if r, ok := v.(Rating); ok {
			return r, true, nil
		}
	}
	return Rating{}, false, nil
}

// Put stores a team's rating
func (s *MemoryStore) Put(ctx context.Context, rating Rating) error {
	s.cache.Set(rating.Team, rating, cache.NoExpiration)
	return nil
}

// Ping always succeeds for the in-memory store
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }
