package services

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
)

// StatusWriterSvc moves transactions through UNCLEARED, CLEARED and RECONCILED.
type StatusWriterSvc interface {
	// ChangeStatus moves one transaction and returns the status history row it appended.
	ChangeStatus(ctx context.Context, organizationID, accountID, transactionID, userID string, input domain.ChangeStatusInput) (*domain.TransactionStatusHistory, error)

	// BulkChangeStatus moves many transactions of an account. Transactions that fail
	// validation are reported without blocking the others, which are written together.
	BulkChangeStatus(ctx context.Context, organizationID, accountID, userID string, input domain.BulkChangeStatusInput) (*domain.BulkStatusResult, error)
}

// StatusReaderSvc defines read operations on reconciliation state
type StatusReaderSvc interface {
	// GetReconciliationSummary aggregates an account's transactions by status.
	GetReconciliationSummary(ctx context.Context, organizationID, accountID, userID string) (*domain.ReconciliationSummary, error)

	// GetStatusHistory retrieves a transaction's status history, oldest first.
	GetStatusHistory(ctx context.Context, organizationID, accountID, transactionID, userID string) ([]domain.TransactionStatusHistory, error)
}

// ReconciledGuardSvc rejects changes to reconciled transactions.
type ReconciledGuardSvc interface {
	// ValidateNotReconciled fails with a RECONCILED_LOCKED *domain.StatusTransitionError
	// when the transaction is reconciled.
	ValidateNotReconciled(ctx context.Context, transactionID string) error

	// ValidateNotReconciledForAccount authorizes userID to modify the organization's
	// transactions and checks the transaction belongs to the account before running
	// ValidateNotReconciled.
	ValidateNotReconciledForAccount(ctx context.Context, organizationID, accountID, transactionID, userID string) error
}

// StatusSvcFacade combines all status-related service interfaces
type StatusSvcFacade interface {
	StatusWriterSvc
	StatusReaderSvc
	ReconciledGuardSvc
}
