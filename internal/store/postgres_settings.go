package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// basePathsKey is the settings row holding the configured base paths.
const basePathsKey = "base_paths"

// PostgresSettings persists admin settings in a small key/value table.
type PostgresSettings struct {
	pool *pgxpool.Pool
}

// NewPostgresSettings creates a Postgres-backed settings store.
func NewPostgresSettings(pool *pgxpool.Pool) *PostgresSettings {
	return &PostgresSettings{pool: pool}
}

func (s *PostgresSettings) LoadBasePaths(ctx context.Context) ([]string, error) {
	var paths []string

	err := s.pool.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = $1`, basePathsKey,
	).Scan(&paths)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("load base paths: %w", err)
	}

	return paths, nil
}

func (s *PostgresSettings) SaveBasePaths(ctx context.Context, paths []string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := s.pool.Exec(ctx, query, basePathsKey, paths); err != nil {
		return fmt.Errorf("save base paths: %w", err)
	}

	return nil
}

// Compile-time check.
var _ SettingsStore = (*PostgresSettings)(nil)
