package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountAuthorizer adds the organization authorizer dependency
func WithAccountAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		s.LogWarn(ctx, err, "User not authorized to create account",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return nil, err
	}
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidationError("invalid account type: " + string(req.AccountType))
	}

	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	}
	if req.TransactionFee != nil && req.TransactionFee.IsNegative() {
		return nil, apperrors.NewValidationError("transaction fee cannot be negative")
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		AccountType:    req.AccountType,
		CurrencyCode:   req.CurrencyCode,
		Balance:        opening,
		OpeningBalance: opening,
		TransactionFee: req.TransactionFee,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_name", account.Name),
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("organization_id", organizationID))
	return &account, nil
}

// findOwnedAccount loads an account and hides accounts of other organizations.
func (s *accountService) findOwnedAccount(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.NewNotFoundError("account", accountID)
	}
	return account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, organizationID, accountID, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findOwnedAccount(ctx, organizationID, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, organizationID, userID string, limit, offset int) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("organization_id", organizationID))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, organizationID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	account, err := s.findOwnedAccount(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && *req.Name != account.Name {
		account.Name = *req.Name
		updated = true
	}
	if req.IsActive != nil && *req.IsActive != account.IsActive {
		account.IsActive = *req.IsActive
		updated = true
	}
	if req.TransactionFee.Set {
		if req.TransactionFee.HasValue() && req.TransactionFee.Value.IsNegative() {
			return nil, apperrors.NewValidationError("transaction fee cannot be negative")
		}
		account.TransactionFee = req.TransactionFee.Ptr(account.TransactionFee)
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No account changes requested", slog.String("account_id", accountID))
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}
