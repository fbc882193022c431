package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management.
// Every ledger mutation runs between one Begin and one Commit; repository
// methods that take a pgx.Tx join that unit of work.
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction. It is a no-op once the transaction is committed.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
