package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/utils/accounting"
)

// auditPageSize is the page size used to walk every account of an organization.
const auditPageSize = 200

// balanceAuditService recomputes balances from opening balances and the transaction log.
type balanceAuditService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
}

// NewBalanceAuditService creates the balance audit service
func NewBalanceAuditService(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader) portssvc.BalanceAuditSvc {
	return &balanceAuditService{accountRepo: accountRepo, txnRepo: txnRepo}
}

var _ portssvc.BalanceAuditSvc = (*balanceAuditService)(nil)

func (s *balanceAuditService) AuditBalances(ctx context.Context, organizationID string) ([]domain.BalanceAudit, error) {
	var accounts []domain.Account
	for offset := 0; ; offset += auditPageSize {
		page, err := s.accountRepo.ListAccounts(ctx, organizationID, auditPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		accounts = append(accounts, page...)
		if len(page) < auditPageSize {
			break
		}
	}

	txns, err := s.txnRepo.ListTransactionsByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	net := accounting.BalanceChanges{}
	for _, txn := range txns {
		effects, err := accounting.Effects(txn)
		if err != nil {
			return nil, err
		}
		net.Merge(effects)
	}

	audits := make([]domain.BalanceAudit, len(accounts))
	drifted := 0
	for i, acc := range accounts {
		audits[i] = domain.BalanceAudit{
			AccountID: acc.AccountID,
			Name:      acc.Name,
			Stored:    acc.Balance,
			Expected:  acc.OpeningBalance.Add(net[acc.AccountID]),
		}
		if !audits[i].Drift().IsZero() {
			drifted++
		}
	}

	s.LogInfo(ctx, "Balance audit finished",
		slog.String("organization_id", organizationID),
		slog.Int("accounts", len(audits)),
		slog.Int("drifted", drifted))
	return audits, nil
}
