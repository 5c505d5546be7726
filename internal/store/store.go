package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Store provides read access to the song catalog backed by Postgres.
type Store struct {
	db    *sql.DB
	guard *Guard
}

// New sets up a Store using the provided database handle. Every query goes
// through an admission guard built from limits.
func New(db *sql.DB, limits Limits) *Store {
	return &Store{db: db, guard: NewGuard("catalog-db", limits)}
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	err := s.guard.Do(ctx, "ping", func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
	if err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// errorType labels a failed query for metrics.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return "timeout"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return "pg_" + pgErr.Code
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return "connection"
	}
	return "other"
}
