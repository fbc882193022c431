package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/platform/cache"
	"github.com/SscSPs/treasury_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// transactionService is the ledger mutation engine. Every write locks the affected
// account rows, writes the transaction with its splits and history, and moves the
// balances by the net effect, all in one unit of work.
type transactionService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	vendorRepo  portsrepo.VendorReader
	historyRepo portsrepo.HistoryRepositoryFacade
	categories  portssvc.CategoryResolverSvc
	summaries   *cache.Cache[string, domain.ReconciliationSummary]
	now         func() time.Time
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionAuthorizer adds the organization authorizer dependency
func WithTransactionAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) TransactionServiceOption {
	return func(s *transactionService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// WithTransactionSummaryCache sets the reconciliation summary cache invalidated after each commit.
func WithTransactionSummaryCache(summaries *cache.Cache[string, domain.ReconciliationSummary]) TransactionServiceOption {
	return func(s *transactionService) {
		s.summaries = summaries
	}
}

// WithTransactionClock overrides the time source used for audit timestamps.
func WithTransactionClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.now = now
	}
}

// NewTransactionService creates the ledger mutation engine
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	vendorRepo portsrepo.VendorReader,
	historyRepo portsrepo.HistoryRepositoryFacade,
	categories portssvc.CategoryResolverSvc,
	options ...TransactionServiceOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		vendorRepo:  vendorRepo,
		historyRepo: historyRepo,
		categories:  categories,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, organizationID, accountID string, input domain.CreateTransactionInput) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, input.UserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !input.TransactionType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid transaction type '%s'", input.TransactionType))
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero")
	}
	if input.Date.IsZero() {
		return nil, apperrors.NewValidationError("date is required")
	}
	splits, err := pendingSplits(input.Splits)
	if err != nil {
		return nil, err
	}

	now := s.now()
	txn := domain.Transaction{
		TransactionID:        uuid.NewString(),
		OrganizationID:       organizationID,
		AccountID:            accountID,
		DestinationAccountID: nonEmpty(input.DestinationAccountID),
		VendorID:             nonEmpty(input.VendorID),
		Amount:               input.Amount,
		TransactionType:      input.TransactionType,
		Date:                 input.Date.UTC(),
		Memo:                 input.Memo,
		Status:               domain.StatusUncleared,
		Version:              1,
		CreatedByID:          input.UserID,
		LastModifiedByID:     input.UserID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := checkSplitSum(txn.Amount, splits); err != nil {
		return nil, err
	}

	var created *domain.Transaction
	var effects accounting.BalanceChanges
	err = withUnitOfWork(ctx, s.txnRepo, func(tx pgx.Tx) error {
		accounts, err := s.lockAccounts(ctx, tx, txn.AccountID, txn.DestinationAccountID)
		if err != nil {
			return err
		}
		source, err := ownedAccount(accounts, organizationID, txn.AccountID)
		if err != nil {
			return err
		}
		if !source.IsActive {
			return apperrors.NewValidationError("account is inactive and cannot receive new transactions")
		}
		if err := checkDestination(txn, accounts, organizationID, true); err != nil {
			return err
		}
		if err := s.checkVendor(ctx, tx, organizationID, txn.VendorID); err != nil {
			return err
		}
		if input.ApplyFee && source.TransactionFee != nil {
			fee := *source.TransactionFee
			txn.FeeAmount = &fee
		}

		if txn.Splits, err = s.resolveSplits(ctx, tx, organizationID, txn.TransactionID, splits, input.Splits); err != nil {
			return err
		}

		if effects, err = accounting.Effects(txn); err != nil {
			return err
		}
		if err := s.txnRepo.SaveTransaction(ctx, tx, txn); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, effects, input.UserID, now); err != nil {
			return fmt.Errorf("failed to apply balance changes: %w", err)
		}
		if err := s.historyRepo.SaveEditHistory(ctx, tx, domain.TransactionEditHistory{
			ID:            uuid.NewString(),
			TransactionID: txn.TransactionID,
			EditedByID:    input.UserID,
			EditType:      domain.EditCreate,
			Changes:       domain.CreationChanges(txn),
			EditedAt:      now,
		}); err != nil {
			return fmt.Errorf("failed to save edit history: %w", err)
		}
		if err := s.historyRepo.SaveStatusHistory(ctx, tx, []domain.TransactionStatusHistory{{
			ID:            uuid.NewString(),
			TransactionID: txn.TransactionID,
			ToStatus:      domain.StatusUncleared,
			ChangedByID:   input.UserID,
			ChangedAt:     now,
		}}); err != nil {
			return fmt.Errorf("failed to save status history: %w", err)
		}

		created, err = s.txnRepo.FindTransactionByID(ctx, tx, txn.TransactionID)
		return err
	})
	if err != nil {
		s.logMutationError(ctx, err, "Failed to create transaction",
			slog.String("account_id", accountID),
			slog.String("organization_id", organizationID))
		return nil, err
	}
	s.summaries.Delete(touchedAccounts(txn, txn)...)

	s.LogInfo(ctx, "Transaction created successfully",
		slog.String("transaction_id", created.TransactionID),
		slog.String("account_id", accountID),
		slog.String("type", string(created.TransactionType)))
	return created, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, organizationID, accountID, transactionID string, patch domain.TransactionPatch, policy domain.VersionPolicy, userID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if err := checkPatch(patch); err != nil {
		return nil, err
	}
	var newSplits []domain.TransactionSplit
	if patch.Splits.HasValue() {
		var err error
		if newSplits, err = pendingSplits(patch.Splits.Value); err != nil {
			return nil, err
		}
	}

	now := s.now()
	var updated *domain.Transaction
	var touched []string
	err := withUnitOfWork(ctx, s.txnRepo, func(tx pgx.Tx) error {
		stored, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if stored.OrganizationID != organizationID || stored.AccountID != accountID {
			return apperrors.NewNotFoundError("transaction", transactionID)
		}
		if stored.Status == domain.StatusReconciled {
			return domain.NewReconciledLockedError()
		}
		if !policy.Permits(stored.Version) {
			return &domain.VersionConflictError{
				CurrentVersion:     stored.Version,
				ExpectedVersion:    policy.Expected(),
				LastModifiedByID:   stored.LastModifiedByID,
				LastModifiedByName: stored.LastModifiedByName,
				LastModifiedAt:     stored.UpdatedAt,
				Current:            *stored,
			}
		}

		merged := mergePatch(*stored, patch)

		accounts, err := s.lockAccounts(ctx, tx, stored.AccountID, stored.DestinationAccountID, merged.DestinationAccountID)
		if err != nil {
			return err
		}
		source, err := ownedAccount(accounts, organizationID, stored.AccountID)
		if err != nil {
			return err
		}
		destinationMoved := !equalIDs(stored.DestinationAccountID, merged.DestinationAccountID)
		if err := checkDestination(merged, accounts, organizationID, destinationMoved); err != nil {
			return err
		}
		if !equalIDs(stored.VendorID, merged.VendorID) {
			if err := s.checkVendor(ctx, tx, organizationID, merged.VendorID); err != nil {
				return err
			}
		}
		if patch.ApplyFee.HasValue() {
			merged.FeeAmount = nil
			if patch.ApplyFee.Value && source.TransactionFee != nil {
				fee := *source.TransactionFee
				merged.FeeAmount = &fee
			}
		}

		if patch.Splits.HasValue() {
			if err := checkSplitSum(merged.Amount, newSplits); err != nil {
				return err
			}
			if merged.Splits, err = s.resolveSplits(ctx, tx, organizationID, transactionID, newSplits, patch.Splits.Value); err != nil {
				return err
			}
		} else if err := checkSplitSum(merged.Amount, merged.Splits); err != nil {
			return err
		}

		changes, editType := domain.DiffTransactions(*stored, merged)
		delta, err := accounting.Delta(*stored, merged)
		if err != nil {
			return err
		}

		merged.Version = stored.Version + 1
		merged.LastModifiedByID = userID
		merged.UpdatedAt = now
		if err := s.txnRepo.UpdateTransaction(ctx, tx, merged); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if len(delta) > 0 {
			if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, delta, userID, now); err != nil {
				return fmt.Errorf("failed to apply balance changes: %w", err)
			}
		}
		if len(changes) > 0 {
			previous := stored.Clone()
			if err := s.historyRepo.SaveEditHistory(ctx, tx, domain.TransactionEditHistory{
				ID:            uuid.NewString(),
				TransactionID: transactionID,
				EditedByID:    userID,
				EditType:      editType,
				Changes:       changes,
				PreviousState: &previous,
				EditedAt:      now,
			}); err != nil {
				return fmt.Errorf("failed to save edit history: %w", err)
			}
		}

		touched = touchedAccounts(*stored, merged)
		updated, err = s.txnRepo.FindTransactionByID(ctx, tx, transactionID)
		return err
	})
	if err != nil {
		s.logMutationError(ctx, err, "Failed to update transaction",
			slog.String("transaction_id", transactionID),
			slog.String("account_id", accountID))
		return nil, err
	}
	s.summaries.Delete(touched...)

	s.LogInfo(ctx, "Transaction updated successfully",
		slog.String("transaction_id", transactionID),
		slog.Int("version", updated.Version),
		slog.Bool("forced", policy.IsForce()))
	return updated, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, organizationID, accountID, transactionID, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	now := s.now()
	var reversal accounting.BalanceChanges
	var touched []string
	err := withUnitOfWork(ctx, s.txnRepo, func(tx pgx.Tx) error {
		stored, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if stored.OrganizationID != organizationID || stored.AccountID != accountID {
			return apperrors.NewNotFoundError("transaction", transactionID)
		}
		if stored.Status == domain.StatusReconciled {
			return domain.NewReconciledLockedError()
		}
		touched = touchedAccounts(*stored, *stored)
		if reversal, err = accounting.Reversal(*stored); err != nil {
			return err
		}
		if _, err := s.lockAccounts(ctx, tx, stored.AccountID, stored.DestinationAccountID); err != nil {
			return err
		}

		if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, reversal, userID, now); err != nil {
			return fmt.Errorf("failed to reverse balance changes: %w", err)
		}
		if err := s.txnRepo.DeleteTransaction(ctx, tx, transactionID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		previous := stored.Clone()
		if err := s.historyRepo.SaveEditHistory(ctx, tx, domain.TransactionEditHistory{
			ID:            uuid.NewString(),
			TransactionID: transactionID,
			EditedByID:    userID,
			EditType:      domain.EditDelete,
			Changes:       []domain.FieldChange{},
			PreviousState: &previous,
			EditedAt:      now,
		}); err != nil {
			return fmt.Errorf("failed to save edit history: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logMutationError(ctx, err, "Failed to delete transaction",
			slog.String("transaction_id", transactionID),
			slog.String("account_id", accountID))
		return err
	}
	s.summaries.Delete(touched...)

	s.LogInfo(ctx, "Transaction deleted successfully",
		slog.String("transaction_id", transactionID),
		slog.String("account_id", accountID))
	return nil
}

func (s *transactionService) GetTransaction(ctx context.Context, organizationID, accountID, transactionID, userID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findVisible(ctx, organizationID, accountID, transactionID)
}

func (s *transactionService) ListTransactions(ctx context.Context, organizationID, accountID, userID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, nil, apperrors.NewNotFoundError("account", accountID)
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, nil, apperrors.NewValidationError(fmt.Sprintf("invalid status filter '%s'", *filter.Status))
	}

	txns, next, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, filter)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		}
		return nil, nil, err
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, next, nil
}

func (s *transactionService) GetEditHistory(ctx context.Context, organizationID, accountID, transactionID, userID string) ([]domain.TransactionEditHistory, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	history, err := s.historyRepo.ListEditHistory(ctx, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list edit history", slog.String("transaction_id", transactionID))
		return nil, err
	}
	// History outlives the transaction, so ownership is checked against the last
	// recorded state when the transaction itself is gone.
	prev := latestRecordedState(history)
	if prev == nil {
		if _, err := s.findVisible(ctx, organizationID, accountID, transactionID); err != nil {
			return nil, err
		}
	} else if prev.OrganizationID != organizationID ||
		(prev.AccountID != accountID && !equalIDs(prev.DestinationAccountID, &accountID)) {
		return nil, apperrors.NewNotFoundError("transaction", transactionID)
	}
	if history == nil {
		history = []domain.TransactionEditHistory{}
	}
	return history, nil
}

// findVisible loads a transaction seen from accountID, as its source or its destination.
func (s *transactionService) findVisible(ctx context.Context, organizationID, accountID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, nil, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	if txn.OrganizationID != organizationID ||
		(txn.AccountID != accountID && !equalIDs(txn.DestinationAccountID, &accountID)) {
		return nil, apperrors.NewNotFoundError("transaction", transactionID)
	}
	return txn, nil
}

// latestRecordedState returns the newest previous state on the history rows, nil
// when only a CREATE row exists.
func latestRecordedState(history []domain.TransactionEditHistory) *domain.Transaction {
	for _, h := range history {
		if h.PreviousState != nil {
			return h.PreviousState
		}
	}
	return nil
}

// lockAccounts locks every referenced account row in ascending ID order.
func (s *transactionService) lockAccounts(ctx context.Context, tx pgx.Tx, accountID string, others ...*string) (map[string]domain.Account, error) {
	ids := []string{accountID}
	for _, id := range others {
		if id != nil && *id != "" {
			ids = append(ids, *id)
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	return accounts, nil
}

func (s *transactionService) checkVendor(ctx context.Context, tx pgx.Tx, organizationID string, vendorID *string) error {
	if vendorID == nil {
		return nil
	}
	vendor, err := s.vendorRepo.FindVendorByID(ctx, tx, *vendorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("vendor", *vendorID)
		}
		return err
	}
	if vendor.OrganizationID != organizationID {
		return apperrors.NewNotFoundError("vendor", *vendorID)
	}
	return nil
}

// resolveSplits assigns split IDs and resolves each category reference.
func (s *transactionService) resolveSplits(ctx context.Context, tx pgx.Tx, organizationID, transactionID string, splits []domain.TransactionSplit, inputs []domain.SplitInput) ([]domain.TransactionSplit, error) {
	resolved := make([]domain.TransactionSplit, len(splits))
	for i, split := range splits {
		categoryID, err := s.categories.ResolveCategory(ctx, tx, organizationID, inputs[i].Category)
		if err != nil {
			return nil, err
		}
		resolved[i] = domain.TransactionSplit{
			SplitID:       uuid.NewString(),
			TransactionID: transactionID,
			Amount:        split.Amount,
			CategoryID:    categoryID,
		}
	}
	return resolved, nil
}

// logMutationError logs user-correctable failures at warn and everything else at error.
func (s *transactionService) logMutationError(ctx context.Context, err error, msg string, keyvals ...any) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrVersionConflict),
		errors.Is(err, apperrors.ErrInvalidStatusTransition),
		errors.Is(err, apperrors.ErrForbidden):
		s.LogWarn(ctx, err, msg, keyvals...)
	default:
		s.LogError(ctx, err, msg, keyvals...)
	}
}

// checkPatch rejects explicit nulls on fields that cannot be cleared.
func checkPatch(patch domain.TransactionPatch) error {
	switch {
	case patch.Amount.Set && patch.Amount.Null:
		return apperrors.NewValidationError("amount cannot be null")
	case patch.TransactionType.Set && patch.TransactionType.Null:
		return apperrors.NewValidationError("transactionType cannot be null")
	case patch.Date.Set && patch.Date.Null:
		return apperrors.NewValidationError("date cannot be null")
	case patch.Splits.Set && patch.Splits.Null:
		return apperrors.NewValidationError("splits cannot be null")
	case patch.ApplyFee.Set && patch.ApplyFee.Null:
		return apperrors.NewValidationError("applyFee cannot be null")
	case patch.Amount.HasValue() && !patch.Amount.Value.IsPositive():
		return apperrors.NewValidationError("amount must be greater than zero")
	case patch.TransactionType.HasValue() && !patch.TransactionType.Value.IsValid():
		return apperrors.NewValidationError(fmt.Sprintf("invalid transaction type '%s'", patch.TransactionType.Value))
	case patch.Date.HasValue() && patch.Date.Value.IsZero():
		return apperrors.NewValidationError("date is required")
	}
	return nil
}

// mergePatch applies the account-independent parts of patch to a copy of stored.
func mergePatch(stored domain.Transaction, patch domain.TransactionPatch) domain.Transaction {
	merged := stored.Clone()
	if patch.Amount.HasValue() {
		merged.Amount = patch.Amount.Value
	}
	if patch.TransactionType.HasValue() {
		merged.TransactionType = patch.TransactionType.Value
	}
	if patch.Date.HasValue() {
		merged.Date = patch.Date.Value.UTC()
	}
	merged.Memo = patch.Memo.Ptr(merged.Memo)
	merged.VendorID = nonEmpty(patch.VendorID.Ptr(merged.VendorID))

	if patch.DestinationAccountID.Set {
		merged.DestinationAccountID = nonEmpty(patch.DestinationAccountID.Ptr(nil))
	} else if !merged.IsTransfer() {
		// The stored destination belonged to the old TRANSFER type.
		merged.DestinationAccountID = nil
	}

	// A single split follows the amount when the splits are left alone.
	if !patch.Splits.Set && !merged.Amount.Equal(stored.Amount) && len(merged.Splits) == 1 {
		merged.Splits[0].Amount = merged.Amount
	}
	return merged
}

func pendingSplits(inputs []domain.SplitInput) ([]domain.TransactionSplit, error) {
	if len(inputs) == 0 {
		return nil, apperrors.NewValidationError("at least one split is required")
	}
	splits := make([]domain.TransactionSplit, len(inputs))
	for i, in := range inputs {
		if !in.Amount.IsPositive() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("split %d: amount must be greater than zero", i+1))
		}
		if in.Category.CategoryID == "" && strings.TrimSpace(in.Category.CategoryName) == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("split %d: categoryID or categoryName is required", i+1))
		}
		splits[i] = domain.TransactionSplit{Amount: in.Amount}
	}
	return splits, nil
}

func checkSplitSum(amount decimal.Decimal, splits []domain.TransactionSplit) error {
	if accounting.SplitsMatchAmount(amount, splits) {
		return nil
	}
	sum := decimal.Zero
	for _, split := range splits {
		sum = sum.Add(split.Amount)
	}
	return apperrors.NewValidationError(fmt.Sprintf("split amounts (%s) must equal the transaction amount (%s)",
		sum.String(), amount.String()))
}

func ownedAccount(accounts map[string]domain.Account, organizationID, accountID string) (domain.Account, error) {
	account, ok := accounts[accountID]
	if !ok || account.OrganizationID != organizationID {
		return domain.Account{}, apperrors.NewNotFoundError("account", accountID)
	}
	return account, nil
}

// checkDestination enforces the TRANSFER destination rules. A destination that is
// newly set must also be active.
func checkDestination(txn domain.Transaction, accounts map[string]domain.Account, organizationID string, newlySet bool) error {
	if !txn.IsTransfer() {
		if txn.DestinationAccountID != nil {
			return apperrors.NewValidationError("destinationAccountID is only allowed for TRANSFER transactions")
		}
		return nil
	}
	if txn.DestinationAccountID == nil {
		return apperrors.NewValidationError("destinationAccountID is required for TRANSFER transactions")
	}
	destinationID := *txn.DestinationAccountID
	if destinationID == txn.AccountID {
		return apperrors.NewValidationError("destination account must differ from the source account")
	}
	destination, ok := accounts[destinationID]
	if !ok || destination.OrganizationID != organizationID {
		return apperrors.NewNotFoundError("destination account", destinationID)
	}
	if newlySet && !destination.IsActive {
		return apperrors.NewValidationError("destination account is inactive and cannot receive new transactions")
	}
	return nil
}

// touchedAccounts lists every account whose transactions changed.
func touchedAccounts(before, after domain.Transaction) []string {
	ids := []string{before.AccountID}
	for _, id := range []*string{before.DestinationAccountID, after.DestinationAccountID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func nonEmpty(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

func equalIDs(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
