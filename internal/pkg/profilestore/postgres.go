package profilestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a single user_profiles table with the
// role-shaped document held as JSONB. Used where DynamoDB is not available.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the profile table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_profiles (
			user_id    TEXT PRIMARY KEY,
			role       TEXT NOT NULL,
			profile    JSONB NOT NULL,
			status     TEXT NOT NULL,
			enabled    BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensuring user_profiles schema: %w", err)
	}
	return nil
}

// PutProfile upserts the record keyed by account id. The store is treated as
// at-least-once, so a repeated put for the same account overwrites.
func (s *PostgresStore) PutProfile(ctx context.Context, rec *Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling profile for %q: %w", rec.AccountID, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, role, profile, status, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET role = EXCLUDED.role,
		    profile = EXCLUDED.profile,
		    status = EXCLUDED.status,
		    enabled = EXCLUDED.enabled,
		    updated_at = EXCLUDED.updated_at`,
		rec.AccountID, rec.Role, doc, rec.Status, rec.Enabled, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("writing profile for %q: %w", rec.AccountID, err)
	}
	return nil
}
