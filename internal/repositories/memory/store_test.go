package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T) portsrepo.RepositoryProvider {
	t.Helper()
	ctx := context.Background()
	repos := NewRepositoryProvider()

	require.NoError(t, repos.UserRepo.UpsertUser(ctx, domain.User{UserID: "user-1", Name: "Ada", CreatedAt: baseTime}))
	require.NoError(t, repos.OrganizationRepo.SaveOrganization(ctx, nil, domain.Organization{OrganizationID: "org-1", Name: "Food Bank"}))
	for _, id := range []string{"acc-a", "acc-b"} {
		require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{
			AccountID:      id,
			OrganizationID: "org-1",
			Name:           "Account " + id,
			AccountType:    domain.Checking,
			CurrencyCode:   "USD",
			OpeningBalance: decimal.NewFromInt(1000),
			IsActive:       true,
		}))
	}
	require.NoError(t, repos.CategoryRepo.SaveCategory(ctx, nil, domain.Category{CategoryID: "cat-1", OrganizationID: "org-1", Name: "Rent", CreatedAt: baseTime}))
	return repos
}

func newTxn(id string, date time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID:    id,
		OrganizationID:   "org-1",
		AccountID:        "acc-a",
		Amount:           decimal.NewFromInt(10),
		TransactionType:  domain.Expense,
		Date:             date,
		Status:           domain.StatusUncleared,
		Version:          1,
		CreatedByID:      "user-1",
		LastModifiedByID: "user-1",
		CreatedAt:        baseTime,
		UpdatedAt:        baseTime,
		Splits:           []domain.TransactionSplit{{SplitID: id + "-s", Amount: decimal.NewFromInt(10), CategoryID: "cat-1"}},
	}
}

func insert(t *testing.T, repos portsrepo.RepositoryProvider, txn domain.Transaction) {
	t.Helper()
	ctx := context.Background()
	tx, err := repos.TransactionRepo.Begin(ctx)
	require.NoError(t, err)
	defer repos.TransactionRepo.Rollback(ctx, tx)
	require.NoError(t, repos.TransactionRepo.SaveTransaction(ctx, tx, txn))
	require.NoError(t, repos.TransactionRepo.Commit(ctx, tx))
}

func TestUnitOfWork_CommitPublishes(t *testing.T) {
	ctx := context.Background()
	repos := seed(t)

	tx, err := repos.TransactionRepo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repos.TransactionRepo.SaveTransaction(ctx, tx, newTxn("t1", baseTime)))
	require.NoError(t, repos.AccountRepo.UpdateAccountBalancesInTx(ctx, tx,
		map[string]decimal.Decimal{"acc-a": decimal.NewFromInt(-10)}, "user-1", baseTime))

	// Outside readers see the last committed state while the unit of work is open.
	_, err = repos.TransactionRepo.FindTransactionByID(ctx, nil, "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	acc, err := repos.AccountRepo.FindAccountByID(ctx, "acc-a")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(1000)))

	require.NoError(t, repos.TransactionRepo.Commit(ctx, tx))
	assert.NoError(t, repos.TransactionRepo.Rollback(ctx, tx), "rollback after commit is a no-op")

	got, err := repos.TransactionRepo.FindTransactionByID(ctx, nil, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Account acc-a", got.AccountName)
	assert.Equal(t, "Ada", got.CreatedByName)
	require.Len(t, got.Splits, 1)
	assert.Equal(t, "Rent", got.Splits[0].CategoryName)

	acc, err = repos.AccountRepo.FindAccountByID(ctx, "acc-a")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(990)))
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	ctx := context.Background()
	repos := seed(t)

	tx, err := repos.TransactionRepo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repos.TransactionRepo.SaveTransaction(ctx, tx, newTxn("t1", baseTime)))
	require.NoError(t, repos.AccountRepo.UpdateAccountBalancesInTx(ctx, tx,
		map[string]decimal.Decimal{"acc-a": decimal.NewFromInt(-10)}, "user-1", baseTime))
	require.NoError(t, repos.TransactionRepo.Rollback(ctx, tx))

	_, err = repos.TransactionRepo.FindTransactionByID(ctx, nil, "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	acc, err := repos.AccountRepo.FindAccountByID(ctx, "acc-a")
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(1000)))

	// The store is usable again after the rollback released it.
	insert(t, repos, newTxn("t2", baseTime))
}

func TestUnitOfWork_ReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := seed(t)
	insert(t, repos, newTxn("t1", baseTime))

	got, err := repos.TransactionRepo.FindTransactionByID(ctx, nil, "t1")
	require.NoError(t, err)
	got.Splits[0].Amount = decimal.NewFromInt(99)

	again, err := repos.TransactionRepo.FindTransactionByID(ctx, nil, "t1")
	require.NoError(t, err)
	assert.True(t, again.Splits[0].Amount.Equal(decimal.NewFromInt(10)))
}

func TestUpdateTransactionStatuses(t *testing.T) {
	ctx := context.Background()
	repos := seed(t)
	insert(t, repos, newTxn("t1", baseTime))

	tx, err := repos.TransactionRepo.Begin(ctx)
	require.NoError(t, err)
	cleared := baseTime.Add(time.Hour)
	require.NoError(t, repos.TransactionRepo.UpdateTransactionStatuses(ctx, tx, []domain.StatusChange{
		{TransactionID: "t1", Status: domain.StatusCleared, ClearedAt: &cleared},
	}))
	err = repos.TransactionRepo.UpdateTransactionStatuses(ctx, tx, []domain.StatusChange{
		{TransactionID: "missing", Status: domain.StatusCleared},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, repos.TransactionRepo.Commit(ctx, tx))

	got, err := repos.TransactionRepo.FindTransactionByID(ctx, nil, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCleared, got.Status)
	assert.Equal(t, 1, got.Version, "status changes do not bump the version")
}

func TestDeleteTransaction_KeepsEditHistory(t *testing.T) {
	ctx := context.Background()
	repos := seed(t)
	insert(t, repos, newTxn("t1", baseTime))

	tx, err := repos.TransactionRepo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repos.HistoryRepo.SaveEditHistory(ctx, tx, domain.TransactionEditHistory{
		ID: "e1", TransactionID: "t1", EditedByID: "user-1", EditType: domain.EditCreate, EditedAt: baseTime,
	}))
	require.NoError(t, repos.HistoryRepo.SaveStatusHistory(ctx, tx, []domain.TransactionStatusHistory{
		{ID: "h1", TransactionID: "t1", ToStatus: domain.StatusUncleared, ChangedByID: "user-1", ChangedAt: baseTime},
	}))
	require.NoError(t, repos.TransactionRepo.DeleteTransaction(ctx, tx, "t1"))
	require.NoError(t, repos.TransactionRepo.Commit(ctx, tx))

	edits, err := repos.HistoryRepo.ListEditHistory(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "Ada", edits[0].EditedByName)

	statuses, err := repos.HistoryRepo.ListStatusHistory(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestListTransactionsByAccount_Pages(t *testing.T) {
	ctx := context.Background()
	repos := seed(t)

	for i, id := range []string{"t1", "t2", "t3"} {
		insert(t, repos, newTxn(id, baseTime.AddDate(0, 0, i)))
	}
	transfer := newTxn("t4", baseTime.AddDate(0, 0, -1))
	transfer.TransactionType = domain.Transfer
	transfer.AccountID = "acc-b"
	dest := "acc-a"
	transfer.DestinationAccountID = &dest
	insert(t, repos, transfer)

	first, next, err := repos.TransactionRepo.ListTransactionsByAccount(ctx, "acc-a", domain.TransactionFilter{Limit: 3})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"t3", "t2", "t1"}, ids(first))

	second, next, err := repos.TransactionRepo.ListTransactionsByAccount(ctx, "acc-a", domain.TransactionFilter{Limit: 3, NextToken: next})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []string{"t4"}, ids(second), "transfers into the account are listed too")

	bad := "not-a-token"
	_, _, err = repos.TransactionRepo.ListTransactionsByAccount(ctx, "acc-a", domain.TransactionFilter{NextToken: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSumByStatus_SourceOnly(t *testing.T) {
	ctx := context.Background()
	repos := seed(t)
	insert(t, repos, newTxn("t1", baseTime))
	transfer := newTxn("t2", baseTime)
	transfer.TransactionType = domain.Transfer
	transfer.AccountID = "acc-b"
	dest := "acc-a"
	transfer.DestinationAccountID = &dest
	insert(t, repos, transfer)

	totals, err := repos.TransactionRepo.SumByStatus(ctx, "acc-a")
	require.NoError(t, err)
	assert.Equal(t, 1, totals[domain.StatusUncleared].Count)
	assert.True(t, totals[domain.StatusUncleared].Total.Equal(decimal.NewFromInt(10)))
}

func TestVendorConstraints(t *testing.T) {
	ctx := context.Background()
	repos := seed(t)

	require.NoError(t, repos.VendorRepo.SaveVendor(ctx, domain.Vendor{VendorID: "v1", OrganizationID: "org-1", Name: "Acme"}))
	err := repos.VendorRepo.SaveVendor(ctx, domain.Vendor{VendorID: "v2", OrganizationID: "org-1", Name: "ACME"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	txn := newTxn("t1", baseTime)
	vendorID := "v1"
	txn.VendorID = &vendorID
	insert(t, repos, txn)

	assert.ErrorIs(t, repos.VendorRepo.DeleteVendor(ctx, "v1"), apperrors.ErrConflict)
	count, err := repos.VendorRepo.CountTransactionsByVendor(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFindCategoryByName_MatchesLevel(t *testing.T) {
	ctx := context.Background()
	repos := seed(t)
	parent := "cat-1"
	require.NoError(t, repos.CategoryRepo.SaveCategory(ctx, nil, domain.Category{
		CategoryID: "cat-2", OrganizationID: "org-1", Name: "Utilities", ParentID: &parent, Depth: 1, CreatedAt: baseTime,
	}))

	got, err := repos.CategoryRepo.FindCategoryByName(ctx, nil, "org-1", nil, "rent")
	require.NoError(t, err)
	assert.Equal(t, "cat-1", got.CategoryID)

	_, err = repos.CategoryRepo.FindCategoryByName(ctx, nil, "org-1", nil, "utilities")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "child categories are not root matches")

	got, err = repos.CategoryRepo.FindCategoryByName(ctx, nil, "org-1", &parent, "UTILITIES")
	require.NoError(t, err)
	assert.Equal(t, "cat-2", got.CategoryID)
}

func ids(txns []domain.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.TransactionID
	}
	return out
}
