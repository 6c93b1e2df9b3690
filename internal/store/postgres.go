package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/golinks/internal/link"
)

// uniqueViolation is the Postgres error code raised by the slug
// unique constraint.
const uniqueViolation = "23505"

// PostgresStore is the production LinkStore. Slug uniqueness is a
// database constraint and the hit counter is a server-side increment,
// so the invariants hold across concurrent service instances.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Create(ctx context.Context, rec *link.Record) (int64, error) {
	query := `
		INSERT INTO links (slug, original_url, base_path, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := p.pool.QueryRow(ctx, query,
		rec.Slug,
		rec.OriginalURL,
		rec.BasePath,
		rec.IsActive,
		rec.ExpiresAt,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, link.ErrDuplicateSlug
		}

		return 0, fmt.Errorf("insert link: %w", err)
	}

	return rec.ID, nil
}

const linkColumns = "id, slug, original_url, base_path, is_active, expires_at, hits, created_at"

func scanLink(row pgx.Row, rec *link.Record) error {
	return row.Scan(
		&rec.ID,
		&rec.Slug,
		&rec.OriginalURL,
		&rec.BasePath,
		&rec.IsActive,
		&rec.ExpiresAt,
		&rec.Hits,
		&rec.CreatedAt,
	)
}

func (p *PostgresStore) FindBySlug(ctx context.Context, slug string) (*link.Record, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE slug = $1`

	var rec link.Record

	if err := scanLink(p.pool.QueryRow(ctx, query, slug), &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, fmt.Errorf("find link by slug: %w", err)
	}

	return &rec, nil
}

func (p *PostgresStore) FindByID(ctx context.Context, id int64) (*link.Record, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1`

	var rec link.Record

	if err := scanLink(p.pool.QueryRow(ctx, query, id), &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, fmt.Errorf("find link by id: %w", err)
	}

	return &rec, nil
}

func (p *PostgresStore) List(ctx context.Context) ([]link.Record, error) {
	query := `SELECT ` + linkColumns + ` FROM links ORDER BY id DESC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var out []link.Record

	for rows.Next() {
		var rec link.Record
		if err := scanLink(rows, &rec); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}

		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	return out, nil
}

func (p *PostgresStore) UpdateFields(ctx context.Context, id int64, patch FieldPatch) error {
	var (
		sets []string
		args []any
	)

	if patch.IsActive != nil {
		args = append(args, *patch.IsActive)
		sets = append(sets, fmt.Sprintf("is_active = $%d", len(args)))
	}

	if patch.SetExpires {
		args = append(args, patch.ExpiresAt)
		sets = append(sets, fmt.Sprintf("expires_at = $%d", len(args)))
	}

	if patch.BasePath != nil {
		args = append(args, *patch.BasePath)
		sets = append(sets, fmt.Sprintf("base_path = $%d", len(args)))
	}

	if len(sets) == 0 {
		// Nothing to update; still report missing ids.
		_, err := p.FindByID(ctx, id)

		return err
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE links SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update link: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) IncrementHits(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `UPDATE links SET hits = hits + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment hits: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id int64) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM links WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	return nil
}

func (p *PostgresStore) BackfillBasePath(ctx context.Context, newDefault string) error {
	query := `UPDATE links SET base_path = $1 WHERE base_path = '' OR base_path IS NULL`

	if _, err := p.pool.Exec(ctx, query, newDefault); err != nil {
		return fmt.Errorf("backfill base path: %w", err)
	}

	return nil
}

func (p *PostgresStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM links WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}

	return exists, nil
}

// Compile-time check.
var _ LinkStore = (*PostgresStore)(nil)
