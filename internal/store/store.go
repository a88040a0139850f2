// Package store is the PostgreSQL data access layer. All queries are plain
// SQL through pgx; no ORM.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors surfaced by the repository.
var (
	// ErrNotFound means the identifier did not resolve to a row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a unique constraint (the phone number) was violated.
	ErrConflict = errors.New("record already exists")
	// ErrStale means a conditional write matched the id but not the expected
	// updated_at, i.e. another writer got there first.
	ErrStale = errors.New("record changed since last read")
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so the same
// repository methods work inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store bundles the repositories over one connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// RunInTx executes fn inside a transaction, rolling back on error.
func (s *Store) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// isUniqueViolation reports whether err is a PostgreSQL unique violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
