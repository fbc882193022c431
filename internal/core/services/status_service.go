package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/platform/cache"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// transactionNotFoundReason is reported for bulk items that are missing or belong elsewhere.
const transactionNotFoundReason = "Transaction not found"

// statusService is the status transition engine.
type statusService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryWithTx
	accountRepo portsrepo.AccountReader
	historyRepo portsrepo.HistoryRepositoryFacade
	users       portssvc.UserReaderSvc
	summaries   *cache.Cache[string, domain.ReconciliationSummary]
	now         func() time.Time
}

// StatusServiceOption is a functional option for configuring the status service
type StatusServiceOption func(*statusService)

// WithStatusAuthorizer adds the organization authorizer dependency
func WithStatusAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) StatusServiceOption {
	return func(s *statusService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// WithStatusSummaryCache caches reconciliation summaries per account.
func WithStatusSummaryCache(summaries *cache.Cache[string, domain.ReconciliationSummary]) StatusServiceOption {
	return func(s *statusService) {
		s.summaries = summaries
	}
}

// WithStatusUserNames resolves the changer's display name on returned history rows.
func WithStatusUserNames(users portssvc.UserReaderSvc) StatusServiceOption {
	return func(s *statusService) {
		s.users = users
	}
}

// WithStatusClock overrides the time source used for status timestamps.
func WithStatusClock(now func() time.Time) StatusServiceOption {
	return func(s *statusService) {
		s.now = now
	}
}

// NewStatusService creates the status transition engine
func NewStatusService(
	txnRepo portsrepo.TransactionRepositoryWithTx,
	accountRepo portsrepo.AccountReader,
	historyRepo portsrepo.HistoryRepositoryFacade,
	options ...StatusServiceOption,
) portssvc.StatusSvcFacade {
	svc := &statusService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		historyRepo: historyRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.StatusSvcFacade = (*statusService)(nil)

// statusChange validates from -> to on txn and builds the write for it.
func statusChange(txn domain.Transaction, to domain.TransactionStatus, notes *string, userID string, now time.Time) (domain.StatusChange, error) {
	if err := domain.ValidateTransition(txn.Status, to); err != nil {
		return domain.StatusChange{}, err
	}
	from := txn.Status
	next := txn.Clone()
	domain.ApplyStatusTimestamps(&next, to, now)
	return domain.StatusChange{
		TransactionID: txn.TransactionID,
		Status:        to,
		ClearedAt:     next.ClearedAt,
		ReconciledAt:  next.ReconciledAt,
		History: domain.TransactionStatusHistory{
			ID:            uuid.NewString(),
			TransactionID: txn.TransactionID,
			FromStatus:    &from,
			ToStatus:      to,
			ChangedByID:   userID,
			ChangedAt:     now,
			Notes:         notes,
		},
	}, nil
}

// ChangeStatus reads the current status without a version check, so two concurrent
// changes evaluated against the same status can both commit.
func (s *statusService) ChangeStatus(ctx context.Context, organizationID, accountID, transactionID, userID string, input domain.ChangeStatusInput) (*domain.TransactionStatusHistory, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !input.Status.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status '%s'", input.Status))
	}

	now := s.now()
	var change domain.StatusChange
	err := withUnitOfWork(ctx, s.txnRepo, func(tx pgx.Tx) error {
		txn, err := s.txnRepo.FindTransactionByID(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if txn.OrganizationID != organizationID || txn.AccountID != accountID {
			return apperrors.NewNotFoundError("transaction", transactionID)
		}
		if change, err = statusChange(*txn, input.Status, input.Notes, userID, now); err != nil {
			return err
		}
		if err := s.txnRepo.UpdateTransactionStatuses(ctx, tx, []domain.StatusChange{change}); err != nil {
			return fmt.Errorf("failed to update transaction status: %w", err)
		}
		if err := s.historyRepo.SaveStatusHistory(ctx, tx, []domain.TransactionStatusHistory{change.History}); err != nil {
			return fmt.Errorf("failed to save status history: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidStatusTransition) || errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, err, "Status change rejected", slog.String("transaction_id", transactionID))
		} else {
			s.LogError(ctx, err, "Failed to change transaction status", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	s.summaries.Delete(accountID)

	history := change.History
	history.ChangedByName = s.displayName(ctx, userID)
	s.LogInfo(ctx, "Transaction status changed",
		slog.String("transaction_id", transactionID),
		slog.String("from", string(*history.FromStatus)),
		slog.String("to", string(history.ToStatus)))
	return &history, nil
}

// BulkChangeStatus validates each transaction on its own. The ones that pass are
// written in a single batch; if that batch fails, they are all reported as failed
// with the underlying error.
func (s *statusService) BulkChangeStatus(ctx context.Context, organizationID, accountID, userID string, input domain.BulkChangeStatusInput) (*domain.BulkStatusResult, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !input.Status.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status '%s'", input.Status))
	}
	ids := uniqueIDs(input.TransactionIDs)
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("at least one transaction ID is required")
	}

	now := s.now()
	result := &domain.BulkStatusResult{Successful: []string{}, Failed: []domain.BulkStatusFailure{}}
	var changes []domain.StatusChange
	staged := false
	err := withUnitOfWork(ctx, s.txnRepo, func(tx pgx.Tx) error {
		found, err := s.txnRepo.FindTransactionsByIDs(ctx, tx, ids)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		for _, id := range ids {
			txn, ok := found[id]
			if !ok || txn.OrganizationID != organizationID || txn.AccountID != accountID {
				result.Failed = append(result.Failed, domain.BulkStatusFailure{TransactionID: id, Error: transactionNotFoundReason})
				continue
			}
			change, err := statusChange(txn, input.Status, input.Notes, userID, now)
			if err != nil {
				result.Failed = append(result.Failed, domain.BulkStatusFailure{TransactionID: id, Error: err.Error()})
				continue
			}
			changes = append(changes, change)
		}
		if len(changes) == 0 {
			return nil
		}

		staged = true
		histories := make([]domain.TransactionStatusHistory, len(changes))
		for i, c := range changes {
			histories[i] = c.History
		}
		if err := s.txnRepo.UpdateTransactionStatuses(ctx, tx, changes); err != nil {
			return err
		}
		return s.historyRepo.SaveStatusHistory(ctx, tx, histories)
	})

	switch {
	case err != nil && !staged:
		s.LogError(ctx, err, "Failed to bulk change transaction status", slog.String("account_id", accountID))
		return nil, err
	case err != nil:
		s.LogError(ctx, err, "Bulk status batch write failed",
			slog.String("account_id", accountID),
			slog.Int("count", len(changes)))
		for _, c := range changes {
			result.Failed = append(result.Failed, domain.BulkStatusFailure{TransactionID: c.TransactionID, Error: err.Error()})
		}
	default:
		for _, c := range changes {
			result.Successful = append(result.Successful, c.TransactionID)
		}
		if len(changes) > 0 {
			s.summaries.Delete(accountID)
		}
	}

	s.LogInfo(ctx, "Bulk status change finished",
		slog.String("account_id", accountID),
		slog.String("status", string(input.Status)),
		slog.Int("successful", len(result.Successful)),
		slog.Int("failed", len(result.Failed)))
	return result, nil
}

func (s *statusService) GetReconciliationSummary(ctx context.Context, organizationID, accountID, userID string) (*domain.ReconciliationSummary, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.NewNotFoundError("account", accountID)
	}

	if summary, ok := s.summaries.Get(accountID); ok {
		s.LogDebug(ctx, "Reconciliation summary served from cache", slog.String("account_id", accountID))
		return &summary, nil
	}
	gen := s.summaries.Generation(accountID)
	rows, err := s.txnRepo.SumByStatus(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate transactions by status", slog.String("account_id", accountID))
		return nil, err
	}
	summary := domain.NewReconciliationSummary(accountID, rows)
	if !s.summaries.SetIfUnchanged(accountID, summary, gen) {
		s.LogDebug(ctx, "Reconciliation summary changed while loading, not cached", slog.String("account_id", accountID))
	}
	return &summary, nil
}

func (s *statusService) ValidateNotReconciled(ctx context.Context, transactionID string) error {
	txn, err := s.txnRepo.FindTransactionByID(ctx, nil, transactionID)
	if err != nil {
		return err
	}
	if txn.Status == domain.StatusReconciled {
		return domain.NewReconciledLockedError()
	}
	return nil
}

func (s *statusService) ValidateNotReconciledForAccount(ctx context.Context, organizationID, accountID, transactionID, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}
	txn, err := s.txnRepo.FindTransactionByID(ctx, nil, transactionID)
	if err != nil {
		return err
	}
	if txn.OrganizationID != organizationID || txn.AccountID != accountID {
		return apperrors.NewNotFoundError("transaction", transactionID)
	}
	if txn.Status == domain.StatusReconciled {
		return domain.NewReconciledLockedError()
	}
	return nil
}

func (s *statusService) GetStatusHistory(ctx context.Context, organizationID, accountID, transactionID, userID string) ([]domain.TransactionStatusHistory, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	txn, err := s.txnRepo.FindTransactionByID(ctx, nil, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.OrganizationID != organizationID ||
		(txn.AccountID != accountID && !equalIDs(txn.DestinationAccountID, &accountID)) {
		return nil, apperrors.NewNotFoundError("transaction", transactionID)
	}

	history, err := s.historyRepo.ListStatusHistory(ctx, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list status history", slog.String("transaction_id", transactionID))
		return nil, err
	}
	if history == nil {
		return []domain.TransactionStatusHistory{}, nil
	}
	return history, nil
}

func (s *statusService) displayName(ctx context.Context, userID string) string {
	if s.users == nil {
		return ""
	}
	names, err := s.users.DisplayNames(ctx, []string{userID})
	if err != nil {
		s.LogWarn(ctx, err, "Failed to resolve display name", slog.String("user_id", userID))
		return ""
	}
	return names[userID]
}

// uniqueIDs drops empty and repeated IDs, keeping the first occurrence.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
