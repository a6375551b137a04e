// Package postgres implements the repository interfaces on pgx. All write
// paths that touch more than one row run inside a transaction; idempotency
// guards live in the SQL itself (ON CONFLICT DO NOTHING, conditional
// UPDATE .. WHERE) so concurrent claims resolve at the database.
package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, letting
// row mappers run inside and outside transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rollback is the deferred counterpart of Begin. Rolling back an already
// committed transaction is expected and not logged.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Default().WarnContext(ctx, "Failed to rollback transaction", "error", err)
	}
}
