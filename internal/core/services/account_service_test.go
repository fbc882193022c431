package services_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/core/services"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/SscSPs/treasury_app/internal/utils/optional"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// MockAuthorizer is a mock type for the OrganizationAuthorizerSvc interface
type MockAuthorizer struct {
	mock.Mock
}

var _ portssvc.OrganizationAuthorizerSvc = (*MockAuthorizer)(nil)

func (m *MockAuthorizer) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.MemberRole) error {
	args := m.Called(ctx, userID, organizationID, requiredRole)
	return args.Error(0)
}

// --- Account service test suite ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockAccountRepository
	mockAuthorizer *MockAuthorizer
	service        portssvc.AccountSvcFacade
	ctx            context.Context
	orgID          string
	userID         string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewAccountService(suite.mockRepo, services.WithAccountAuthorizer(suite.mockAuthorizer))
	suite.ctx = context.Background()
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) allow(role domain.MemberRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", suite.ctx, suite.userID, suite.orgID, role).Return(nil)
}

func (suite *AccountServiceTestSuite) storedAccount() *domain.Account {
	fee := decimal.NewFromInt(2)
	return &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Operating",
		AccountType:    domain.Checking,
		CurrencyCode:   "USD",
		Balance:        decimal.NewFromInt(700),
		OpeningBalance: decimal.NewFromInt(500),
		TransactionFee: &fee,
		IsActive:       true,
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	opening := decimal.RequireFromString("1250.75")
	req := dto.CreateAccountRequest{Name: "Operating", AccountType: domain.Checking, CurrencyCode: "USD", OpeningBalance: &opening}
	suite.allow(domain.RoleMember)
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.OrganizationID == suite.orgID &&
			acc.Balance.Equal(opening) &&
			acc.OpeningBalance.Equal(opening) &&
			acc.IsActive &&
			acc.CreatedBy == suite.userID
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.orgID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("Operating", account.Name)
	_, parseErr := uuid.Parse(account.AccountID)
	suite.NoError(parseErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DefaultsOpeningBalanceToZero() {
	suite.allow(domain.RoleMember)
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Balance.IsZero() && acc.OpeningBalance.IsZero()
	})).Return(nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, suite.orgID,
		dto.CreateAccountRequest{Name: "Petty cash", AccountType: domain.Cash, CurrencyCode: "USD"}, suite.userID)

	suite.NoError(err)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Forbidden() {
	forbidden := apperrors.NewAppError(http.StatusForbidden, "role MEMBER is required for this action", apperrors.ErrForbidden)
	suite.mockAuthorizer.On("AuthorizeUserAction", suite.ctx, suite.userID, suite.orgID, domain.RoleMember).Return(forbidden).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.orgID,
		dto.CreateAccountRequest{Name: "Operating", AccountType: domain.Checking, CurrencyCode: "USD"}, suite.userID)

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Validation() {
	negative := decimal.NewFromInt(-1)
	tests := []struct {
		name string
		req  dto.CreateAccountRequest
	}{
		{"unknown type", dto.CreateAccountRequest{Name: "X", AccountType: "BROKERAGE", CurrencyCode: "USD"}},
		{"negative fee", dto.CreateAccountRequest{Name: "X", AccountType: domain.Checking, CurrencyCode: "USD", TransactionFee: &negative}},
	}
	suite.allow(domain.RoleMember)
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateAccount(suite.ctx, suite.orgID, tt.req, suite.userID)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	suite.allow(domain.RoleMember)
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.Anything).Return(errors.New("db down")).Once()

	_, err := suite.service.CreateAccount(suite.ctx, suite.orgID,
		dto.CreateAccountRequest{Name: "Operating", AccountType: domain.Checking, CurrencyCode: "USD"}, suite.userID)

	suite.EqualError(err, "db down")
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherOrganizationIsNotFound() {
	account := suite.storedAccount()
	account.OrganizationID = uuid.NewString()
	suite.allow(domain.RoleReadOnly)
	suite.mockRepo.On("FindAccountByID", suite.ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.GetAccountByID(suite.ctx, suite.orgID, account.AccountID, suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts_EmptyIsNotNil() {
	suite.allow(domain.RoleReadOnly)
	suite.mockRepo.On("ListAccounts", suite.ctx, suite.orgID, 20, 0).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(suite.ctx, suite.orgID, suite.userID, 20, 0)

	suite.NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NeverTouchesBalance() {
	account := suite.storedAccount()
	newName := "Main checking"
	suite.allow(domain.RoleMember)
	suite.mockRepo.On("FindAccountByID", suite.ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Name == newName &&
			acc.TransactionFee == nil &&
			acc.Balance.Equal(decimal.NewFromInt(700)) &&
			acc.LastUpdatedBy == suite.userID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(suite.ctx, suite.orgID, account.AccountID, dto.UpdateAccountRequest{
		Name:           &newName,
		TransactionFee: optional.Null[decimal.Decimal](),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Nil(updated.TransactionFee)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoChanges() {
	account := suite.storedAccount()
	sameName := account.Name
	suite.allow(domain.RoleMember)
	suite.mockRepo.On("FindAccountByID", suite.ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.UpdateAccount(suite.ctx, suite.orgID, account.AccountID, dto.UpdateAccountRequest{Name: &sameName}, suite.userID)

	suite.NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NotFound() {
	accountID := uuid.NewString()
	suite.allow(domain.RoleMember)
	suite.mockRepo.On("FindAccountByID", suite.ctx, accountID).Return(nil, apperrors.NewNotFoundError("account", accountID)).Once()

	_, err := suite.service.UpdateAccount(suite.ctx, suite.orgID, accountID, dto.UpdateAccountRequest{}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// MockVendorRepository is a mock type for the VendorRepositoryFacade interface
type MockVendorRepository struct {
	mock.Mock
}

var _ portsrepo.VendorRepositoryFacade = (*MockVendorRepository)(nil)

func (m *MockVendorRepository) FindVendorByID(ctx context.Context, tx pgx.Tx, vendorID string) (*domain.Vendor, error) {
	args := m.Called(ctx, tx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindVendorByName(ctx context.Context, organizationID, name string) (*domain.Vendor, error) {
	args := m.Called(ctx, organizationID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *MockVendorRepository) ListVendors(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Vendor, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vendor), args.Error(1)
}

func (m *MockVendorRepository) CountTransactionsByVendor(ctx context.Context, vendorID string) (int, error) {
	args := m.Called(ctx, vendorID)
	return args.Int(0), args.Error(1)
}

func (m *MockVendorRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) UpdateVendor(ctx context.Context, vendor domain.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) DeleteVendor(ctx context.Context, vendorID string) error {
	args := m.Called(ctx, vendorID)
	return args.Error(0)
}

func TestVendorService(t *testing.T) {
	ctx := context.Background()
	orgID, userID := uuid.NewString(), uuid.NewString()
	newService := func() (*MockVendorRepository, portssvc.VendorSvcFacade) {
		repo := new(MockVendorRepository)
		authorizer := new(MockAuthorizer)
		authorizer.On("AuthorizeUserAction", ctx, userID, orgID, mock.Anything).Return(nil)
		return repo, services.NewVendorService(repo, services.WithVendorAuthorizer(authorizer))
	}

	t.Run("create rejects a duplicate name", func(t *testing.T) {
		repo, svc := newService()
		repo.On("FindVendorByName", ctx, orgID, "Seed Co").Return(&domain.Vendor{VendorID: uuid.NewString(), OrganizationID: orgID}, nil).Once()

		_, err := svc.CreateVendor(ctx, orgID, dto.CreateVendorRequest{Name: "Seed Co"}, userID)

		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
		repo.AssertNotCalled(t, "SaveVendor", mock.Anything, mock.Anything)
	})

	t.Run("create saves a new vendor", func(t *testing.T) {
		repo, svc := newService()
		repo.On("FindVendorByName", ctx, orgID, "Seed Co").Return(nil, apperrors.ErrNotFound).Once()
		repo.On("SaveVendor", ctx, mock.MatchedBy(func(v domain.Vendor) bool {
			return v.Name == "Seed Co" && v.OrganizationID == orgID && v.CreatedBy == userID
		})).Return(nil).Once()

		vendor, err := svc.CreateVendor(ctx, orgID, dto.CreateVendorRequest{Name: "Seed Co"}, userID)

		assert.NoError(t, err)
		assert.Equal(t, "Seed Co", vendor.Name)
	})

	t.Run("rename to own name is allowed", func(t *testing.T) {
		repo, svc := newService()
		vendor := &domain.Vendor{VendorID: uuid.NewString(), OrganizationID: orgID, Name: "Seed Co"}
		renamed := "SEED CO"
		repo.On("FindVendorByID", ctx, pgx.Tx(nil), vendor.VendorID).Return(vendor, nil).Once()
		repo.On("FindVendorByName", ctx, orgID, renamed).Return(vendor, nil).Once()
		repo.On("UpdateVendor", ctx, mock.MatchedBy(func(v domain.Vendor) bool { return v.Name == renamed })).Return(nil).Once()

		_, err := svc.UpdateVendor(ctx, orgID, vendor.VendorID, dto.UpdateVendorRequest{Name: &renamed}, userID)

		assert.NoError(t, err)
	})

	t.Run("delete refuses a vendor in use", func(t *testing.T) {
		repo, svc := newService()
		vendor := &domain.Vendor{VendorID: uuid.NewString(), OrganizationID: orgID, Name: "Seed Co"}
		repo.On("FindVendorByID", ctx, pgx.Tx(nil), vendor.VendorID).Return(vendor, nil).Once()
		repo.On("CountTransactionsByVendor", ctx, vendor.VendorID).Return(3, nil).Once()

		err := svc.DeleteVendor(ctx, orgID, vendor.VendorID, userID)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Equal(t, "vendor is referenced by 3 transactions", apperrors.Message(err))
		repo.AssertNotCalled(t, "DeleteVendor", mock.Anything, mock.Anything)
	})

	t.Run("delete hides other organizations", func(t *testing.T) {
		repo, svc := newService()
		vendor := &domain.Vendor{VendorID: uuid.NewString(), OrganizationID: uuid.NewString()}
		repo.On("FindVendorByID", ctx, pgx.Tx(nil), vendor.VendorID).Return(vendor, nil).Once()

		err := svc.DeleteVendor(ctx, orgID, vendor.VendorID, userID)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("delete surfaces repository errors", func(t *testing.T) {
		repo, svc := newService()
		vendor := &domain.Vendor{VendorID: uuid.NewString(), OrganizationID: orgID}
		repo.On("FindVendorByID", ctx, pgx.Tx(nil), vendor.VendorID).Return(vendor, nil).Once()
		repo.On("CountTransactionsByVendor", ctx, vendor.VendorID).Return(0, nil).Once()
		repo.On("DeleteVendor", ctx, vendor.VendorID).Return(fmt.Errorf("%w: still referenced", apperrors.ErrConflict)).Once()

		err := svc.DeleteVendor(ctx, orgID, vendor.VendorID, userID)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}
