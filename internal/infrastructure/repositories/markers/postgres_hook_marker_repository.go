package markers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

const (
	createMarkerTable = `CREATE TABLE IF NOT EXISTS org_hook_markers (
	org       TEXT PRIMARY KEY,
	marked_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectMarker = `SELECT EXISTS (SELECT 1 FROM org_hook_markers WHERE org = $1)`
	insertMarker = `INSERT INTO org_hook_markers (org) VALUES ($1) ON CONFLICT (org) DO NOTHING`
)

// database is the subset of *pgxpool.Pool the marker store uses.
type database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresHookMarkerRepository keeps the markers in the org_hook_markers table.
type PostgresHookMarkerRepository struct {
	db   database
	pool *pgxpool.Pool
}

var _ repositories.HookMarkerRepository = (*PostgresHookMarkerRepository)(nil)

// NewPostgresHookMarkerRepository opens a pool on dsn and creates the marker table if needed.
func NewPostgresHookMarkerRepository(ctx context.Context, dsn string) (*PostgresHookMarkerRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err = pool.Exec(ctx, createMarkerTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create marker table: %w", err)
	}
	return &PostgresHookMarkerRepository{db: pool, pool: pool}, nil
}

func newPostgresHookMarkerRepository(db database) *PostgresHookMarkerRepository {
	return &PostgresHookMarkerRepository{db: db}
}

func (it *PostgresHookMarkerRepository) IsMarked(ctx context.Context, org string) (bool, error) {
	var exists bool
	if err := it.db.QueryRow(ctx, selectMarker, org).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to read marker of %q: %w", org, err)
	}
	return exists, nil
}

func (it *PostgresHookMarkerRepository) Mark(ctx context.Context, org string) (bool, error) {
	tag, err := it.db.Exec(ctx, insertMarker, org)
	if err != nil {
		return false, fmt.Errorf("failed to write marker of %q: %w", org, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Close releases the connection pool.
func (it *PostgresHookMarkerRepository) Close() {
	if it.pool != nil {
		it.pool.Close()
	}
}
