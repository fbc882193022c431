package repositories

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for ledger transactions. Returned
// transactions carry their splits and hydrated display names.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction. A nil tx reads outside any transaction.
	FindTransactionByID(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error)

	// FindTransactionByIDForUpdate retrieves a transaction and locks its row within a transaction.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error)

	// FindTransactionsByIDs retrieves several transactions within a transaction without locking them.
	// Unknown IDs are absent from the map.
	FindTransactionsByIDs(ctx context.Context, tx pgx.Tx, transactionIDs []string) (map[string]domain.Transaction, error)

	// ListTransactionsByAccount retrieves a page of transactions where the account is the
	// source or the transfer destination, newest first. It returns the token for the next page.
	ListTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)

	// ListTransactionsByOrganization retrieves every transaction of an organization without splits.
	ListTransactionsByOrganization(ctx context.Context, organizationID string) ([]domain.Transaction, error)

	// SumByStatus aggregates count and amount per status for transactions whose source is the account.
	SumByStatus(ctx context.Context, accountID string) (map[domain.TransactionStatus]domain.StatusTotals, error)
}

// TransactionWriter defines write operations for ledger transactions. All of them
// run inside the caller's unit of work.
type TransactionWriter interface {
	// SaveTransaction inserts a transaction and its splits.
	SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// UpdateTransaction overwrites the mutable fields and version of a transaction and
	// replaces its splits.
	UpdateTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// DeleteTransaction removes a transaction and its splits.
	DeleteTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error

	// UpdateTransactionStatuses writes status and timestamp changes. The version is untouched.
	UpdateTransactionStatuses(ctx context.Context, tx pgx.Tx, changes []domain.StatusChange) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
