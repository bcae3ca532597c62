package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists ratings in a Postgres table so the model state
// survives restarts.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and ensures the schema exists
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	store := &PostgresStore{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS team_ratings (
			team        TEXT PRIMARY KEY,
			elo         DOUBLE PRECISION NOT NULL,
			last5       INTEGER[] NOT NULL DEFAULT '{}',
			last_played TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure ratings schema: %w", err)
	}
	return nil
}

// Get returns the rating for a team
func (s *PostgresStore) Get(ctx context.Context, team string) (Rating, bool, error) {
	var r Rating
	err := s.pool.QueryRow(ctx,
		`SELECT team, elo, last5, last_played FROM team_ratings WHERE team = $1`, team,
	).Scan(&r.Team, &r.Elo, &r.Last5, &r.LastPlayed)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rating{}, false, nil
	}
	if err != nil {
		return Rating{}, false, fmt.Errorf("failed to load rating for %s: %w", team, err)
	}
	return r, true, nil
}

// Put stores a team's rating
func (s *PostgresStore) Put(ctx context.Context, rating Rating) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO team_ratings (team, elo, last5, last_played)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team) DO UPDATE
		SET elo = EXCLUDED.elo, last5 = EXCLUDED.last5, last_played = EXCLUDED.last_played`,
		rating.Team, rating.Elo, rating.Last5, rating.LastPlayed)
	if err != nil {
		return fmt.Errorf("failed to store rating for %s: %w", rating.Team, err)
	}
	return nil
}

// Ping reports whether the database is reachable
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}
