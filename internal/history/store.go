// Package history persists batch-run outcomes to Postgres so operators can
// see when a product sync last ran and where it stopped. The store is
// optional: a nil *Store is a valid "history disabled" value for callers.
package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
)

// querier is the slice of pgx the store needs; pgxpool.Pool satisfies it,
// and so do pgxmock connections in tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sync_runs (
	run_id        TEXT PRIMARY KEY,
	started_at    TIMESTAMPTZ NOT NULL,
	finished_at   TIMESTAMPTZ NOT NULL,
	total         INTEGER NOT NULL,
	processed     INTEGER NOT NULL,
	success       BOOLEAN NOT NULL,
	failed_index  INTEGER NOT NULL,
	failed_record TEXT NOT NULL DEFAULT '',
	failure       TEXT NOT NULL DEFAULT ''
);`

type Store struct {
	db     querier
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Open connects to the configured database and makes sure the run table
// exists.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("history database unreachable: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure run table: %w", err)
	}
	return &Store{db: pool, pool: pool, logger: logger.Named("history")}, nil
}

// NewStore wraps an existing connection. Used by tests.
func NewStore(db querier, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger.Named("history")}
}

// RecordRun inserts one finished batch run.
func (s *Store) RecordRun(ctx context.Context, result *schemas.BatchResult) error {
	failure := ""
	if result.Err != nil {
		failure = result.Err.Error()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO sync_runs (run_id, started_at, finished_at, total, processed, success, failed_index, failed_record, failure)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, result.RunID, result.StartedAt, result.FinishedAt, result.Total, result.Processed,
		result.Succeeded(), result.FailedIndex, result.FailedRecord, failure)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", result.RunID, err)
	}

	s.logger.Debug("Run recorded.", zap.String("run_id", result.RunID))
	return nil
}

// Close releases the underlying pool when the store owns one.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
