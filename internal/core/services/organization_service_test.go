package services_test

import (
	"testing"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/SscSPs/treasury_app/internal/core/services"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationService_Roles(t *testing.T) {
	l := newLedger(t, services.Caches{})
	viewer, member := uuid.NewString(), uuid.NewString()
	require.NoError(t, l.svc.Organization.AddMember(l.ctx, l.orgID, dto.AddMemberRequest{UserID: viewer, Role: domain.RoleReadOnly}, l.userID))
	require.NoError(t, l.svc.Organization.AddMember(l.ctx, l.orgID, dto.AddMemberRequest{UserID: member, Role: domain.RoleMember}, l.userID))
	accountReq := dto.CreateAccountRequest{Name: "Operating", AccountType: domain.Checking, CurrencyCode: "USD"}

	t.Run("readonly can read but not write", func(t *testing.T) {
		_, err := l.svc.Organization.GetOrganization(l.ctx, l.orgID, viewer)
		assert.NoError(t, err)
		_, err = l.svc.Account.ListAccounts(l.ctx, l.orgID, viewer, 10, 0)
		assert.NoError(t, err)
		_, err = l.svc.Account.CreateAccount(l.ctx, l.orgID, accountReq, viewer)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("member can write but not manage membership", func(t *testing.T) {
		_, err := l.svc.Account.CreateAccount(l.ctx, l.orgID, accountReq, member)
		assert.NoError(t, err)
		err = l.svc.Organization.AddMember(l.ctx, l.orgID, dto.AddMemberRequest{UserID: uuid.NewString(), Role: domain.RoleAdmin}, member)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("non members are forbidden", func(t *testing.T) {
		_, err := l.svc.Organization.GetOrganization(l.ctx, l.orgID, uuid.NewString())
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("members list their organizations", func(t *testing.T) {
		orgs, err := l.svc.Organization.ListUserOrganizations(l.ctx, viewer)
		require.NoError(t, err)
		require.Len(t, orgs, 1)
		assert.Equal(t, l.orgID, orgs[0].OrganizationID)

		orgs, err = l.svc.Organization.ListUserOrganizations(l.ctx, uuid.NewString())
		assert.NoError(t, err)
		assert.NotNil(t, orgs)
		assert.Empty(t, orgs)
	})
}

func TestCategoryService_Tree(t *testing.T) {
	l := newLedger(t, services.Caches{})

	programs, err := l.svc.Category.CreateCategory(l.ctx, l.orgID, dto.CreateCategoryRequest{Name: "Programs"}, l.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, programs.Depth)

	meals, err := l.svc.Category.CreateCategory(l.ctx, l.orgID, dto.CreateCategoryRequest{Name: "Meals", ParentID: &programs.CategoryID}, l.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, meals.Depth)

	_, err = l.svc.Category.CreateCategory(l.ctx, l.orgID, dto.CreateCategoryRequest{Name: "Meals", ParentID: &programs.CategoryID}, l.userID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	_, err = l.svc.Category.CreateCategory(l.ctx, l.orgID, dto.CreateCategoryRequest{Name: "Meals"}, l.userID)
	assert.NoError(t, err, "the same name may be reused at another level")

	missing := uuid.NewString()
	_, err = l.svc.Category.CreateCategory(l.ctx, l.orgID, dto.CreateCategoryRequest{Name: "Orphan", ParentID: &missing}, l.userID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = l.svc.Category.CreateCategory(l.ctx, l.orgID, dto.CreateCategoryRequest{Name: "   "}, l.userID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	categories, err := l.svc.Category.ListCategories(l.ctx, l.orgID, l.userID)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, 0, categories[0].Depth)
	assert.Equal(t, 1, categories[2].Depth)
}

func TestUserService_DisplayNames(t *testing.T) {
	l := newLedger(t, services.Caches{})
	other := uuid.NewString()
	_, err := l.svc.User.UpsertProfile(l.ctx, other, dto.UpdateProfileRequest{Name: "Sam Bookkeeper", Email: "sam@example.org"})
	require.NoError(t, err)

	names, err := l.svc.User.DisplayNames(l.ctx, []string{l.userID, other, other, uuid.NewString()})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{l.userID: "Pat Treasurer", other: "Sam Bookkeeper"}, names)

	_, err = l.svc.User.UpsertProfile(l.ctx, other, dto.UpdateProfileRequest{Name: "Sam B."})
	require.NoError(t, err)
	user, err := l.svc.User.GetUserByID(l.ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "Sam B.", user.Name)

	_, err = l.svc.User.GetUserByID(l.ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
