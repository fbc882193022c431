package services

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
)

// TransactionReaderSvc defines read operations for ledger transactions
type TransactionReaderSvc interface {
	// GetTransaction retrieves a hydrated transaction of an account.
	GetTransaction(ctx context.Context, organizationID, accountID, transactionID, userID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of an account's transactions, newest first,
	// including transfers into the account.
	ListTransactions(ctx context.Context, organizationID, accountID, userID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)

	// GetEditHistory retrieves a transaction's edit history, newest first.
	GetEditHistory(ctx context.Context, organizationID, accountID, transactionID, userID string) ([]domain.TransactionEditHistory, error)
}

// TransactionWriterSvc defines the ledger mutations. Each runs as one unit of work
// that writes the transaction, its splits, its history and the affected balances.
type TransactionWriterSvc interface {
	// CreateTransaction records a transaction and applies its effect to the balances.
	CreateTransaction(ctx context.Context, organizationID, accountID string, input domain.CreateTransactionInput) (*domain.Transaction, error)

	// UpdateTransaction applies a partial update under policy and moves the balances by
	// the difference between the old and new effects. A stale version returns a
	// *domain.VersionConflictError.
	UpdateTransaction(ctx context.Context, organizationID, accountID, transactionID string, patch domain.TransactionPatch, policy domain.VersionPolicy, userID string) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction and reverses its effect. Callers check
	// that the transaction is not reconciled first.
	DeleteTransaction(ctx context.Context, organizationID, accountID, transactionID, userID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
