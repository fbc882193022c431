package services

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
)

// BalanceAuditSvc recomputes balances from the transaction log.
type BalanceAuditSvc interface {
	// AuditBalances returns one entry per account of the organization comparing the
	// stored balance with opening balance plus the effects of existing transactions.
	AuditBalances(ctx context.Context, organizationID string) ([]domain.BalanceAudit, error)
}
