package repositories

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// HistoryRepositoryFacade persists the append-only audit trails of transactions.
type HistoryRepositoryFacade interface {
	// SaveEditHistory appends an edit history row within a transaction.
	SaveEditHistory(ctx context.Context, tx pgx.Tx, entry domain.TransactionEditHistory) error

	// ListEditHistory retrieves a transaction's edit history, newest first.
	ListEditHistory(ctx context.Context, transactionID string) ([]domain.TransactionEditHistory, error)

	// SaveStatusHistory appends status history rows within a transaction.
	SaveStatusHistory(ctx context.Context, tx pgx.Tx, entries []domain.TransactionStatusHistory) error

	// ListStatusHistory retrieves a transaction's status history, oldest first.
	ListStatusHistory(ctx context.Context, transactionID string) ([]domain.TransactionStatusHistory, error)
}
