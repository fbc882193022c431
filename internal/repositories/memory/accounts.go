package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	*store
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.write(nil, func(st *state) error {
		if _, exists := st.accounts[account.AccountID]; exists {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
		}
		if _, ok := st.organizations[account.OrganizationID]; !ok {
			return fmt.Errorf("%w: organization %s does not exist", apperrors.ErrConflict, account.OrganizationID)
		}
		account.Balance = account.OpeningBalance
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	st, _ := r.read(nil)
	acc, ok := st.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	st, _ := r.read(nil)
	accounts := []domain.Account{}
	for _, acc := range st.accounts {
		if acc.OrganizationID == organizationID {
			accounts = append(accounts, acc)
		}
	}
	slices.SortFunc(accounts, func(a, b domain.Account) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.AccountID, b.AccountID))
	})
	return page(accounts, limit, offset), nil
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return r.write(nil, func(st *state) error {
		stored, ok := st.accounts[account.AccountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		stored.Name = account.Name
		stored.TransactionFee = account.TransactionFee
		stored.IsActive = account.IsActive
		stored.LastUpdatedAt = account.LastUpdatedAt
		stored.LastUpdatedBy = account.LastUpdatedBy
		st.accounts[account.AccountID] = stored
		return nil
	})
}

// FindAccountsByIDsForUpdate reads from the unit of work, which already excludes other writers.
func (r *accountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	st, err := r.read(tx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := st.accounts[id]; ok {
			result[id] = acc
		}
	}
	return result, nil
}

func (r *accountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	return r.write(tx, func(st *state) error {
		for accountID, delta := range balanceChanges {
			if delta.IsZero() {
				continue
			}
			acc, ok := st.accounts[accountID]
			if !ok {
				return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
			}
			acc.Balance = acc.Balance.Add(delta)
			acc.LastUpdatedAt = now
			acc.LastUpdatedBy = userID
			st.accounts[accountID] = acc
		}
		return nil
	})
}

// page applies LIMIT/OFFSET to an already ordered slice.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
