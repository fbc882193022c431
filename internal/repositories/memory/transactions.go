package memory

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type transactionRepository struct {
	*store
}

var _ portsrepo.TransactionRepositoryWithTx = (*transactionRepository)(nil)

// hydrate fills the display names the Postgres repository gets from its joins.
func hydrate(st *state, t domain.Transaction) domain.Transaction {
	t = t.Clone()
	t.AccountName = st.accounts[t.AccountID].Name
	if t.DestinationAccountID != nil {
		if acc, ok := st.accounts[*t.DestinationAccountID]; ok {
			t.DestinationAccountName = &acc.Name
		}
	}
	if t.VendorID != nil {
		if v, ok := st.vendors[*t.VendorID]; ok {
			t.VendorName = &v.Name
		}
	}
	t.CreatedByName = st.users[t.CreatedByID].Name
	t.LastModifiedByName = st.users[t.LastModifiedByID].Name
	if t.Splits == nil {
		t.Splits = []domain.TransactionSplit{}
	}
	for i := range t.Splits {
		t.Splits[i].CategoryName = st.categories[t.Splits[i].CategoryID].Name
	}
	return t
}

// forStorage strips everything that is derived on read.
func forStorage(t domain.Transaction) domain.Transaction {
	t = t.Clone()
	t.AccountName = ""
	t.DestinationAccountName = nil
	t.VendorName = nil
	t.CreatedByName = ""
	t.LastModifiedByName = ""
	for i := range t.Splits {
		t.Splits[i].TransactionID = t.TransactionID
		t.Splits[i].CategoryName = ""
	}
	return t
}

// checkReferences mirrors the foreign keys of the transactions table.
func checkReferences(st *state, t domain.Transaction) error {
	if _, ok := st.accounts[t.AccountID]; !ok {
		return fmt.Errorf("%w: account %s does not exist", apperrors.ErrConflict, t.AccountID)
	}
	if t.DestinationAccountID != nil {
		if _, ok := st.accounts[*t.DestinationAccountID]; !ok {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrConflict, *t.DestinationAccountID)
		}
	}
	if t.VendorID != nil {
		if _, ok := st.vendors[*t.VendorID]; !ok {
			return fmt.Errorf("%w: vendor %s does not exist", apperrors.ErrConflict, *t.VendorID)
		}
	}
	for _, s := range t.Splits {
		if _, ok := st.categories[s.CategoryID]; !ok {
			return fmt.Errorf("%w: category %s does not exist", apperrors.ErrConflict, s.CategoryID)
		}
	}
	return nil
}

func (r *transactionRepository) FindTransactionByID(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	st, err := r.read(tx)
	if err != nil {
		return nil, err
	}
	t, ok := st.transactions[transactionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction", transactionID)
	}
	h := hydrate(st, t)
	return &h, nil
}

func (r *transactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	if tx == nil {
		return nil, errForeignTx
	}
	return r.FindTransactionByID(ctx, tx, transactionID)
}

func (r *transactionRepository) FindTransactionsByIDs(ctx context.Context, tx pgx.Tx, transactionIDs []string) (map[string]domain.Transaction, error) {
	st, err := r.read(tx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]domain.Transaction, len(transactionIDs))
	for _, id := range transactionIDs {
		if t, ok := st.transactions[id]; ok {
			result[id] = hydrate(st, t)
		}
	}
	return result, nil
}

func newestFirst(a, b domain.Transaction) int {
	return cmp.Or(
		b.Date.Compare(a.Date),
		b.CreatedAt.Compare(a.CreatedAt),
		cmp.Compare(b.TransactionID, a.TransactionID),
	)
}

func (r *transactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit)

	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken",
				fmt.Errorf("%w: %w", apperrors.ErrValidation, decodeErr))
		}
		cursor = &c
	}

	st, _ := r.read(nil)
	matches := []domain.Transaction{}
	for _, t := range st.transactions {
		touches := t.AccountID == accountID || (t.DestinationAccountID != nil && *t.DestinationAccountID == accountID)
		if !touches {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if cursor != nil && !cursor.Before(t.Date, t.CreatedAt, t.TransactionID) {
			continue
		}
		matches = append(matches, t)
	}
	slices.SortFunc(matches, newestFirst)

	var nextToken *string
	if len(matches) > limit {
		matches = matches[:limit]
		last := matches[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
	}
	for i := range matches {
		matches[i] = hydrate(st, matches[i])
	}
	return matches, nextToken, nil
}

func (r *transactionRepository) ListTransactionsByOrganization(ctx context.Context, organizationID string) ([]domain.Transaction, error) {
	st, _ := r.read(nil)
	txns := []domain.Transaction{}
	for _, t := range st.transactions {
		if t.OrganizationID == organizationID {
			h := hydrate(st, t)
			h.Splits = []domain.TransactionSplit{}
			txns = append(txns, h)
		}
	}
	slices.SortFunc(txns, newestFirst)
	return txns, nil
}

func (r *transactionRepository) SumByStatus(ctx context.Context, accountID string) (map[domain.TransactionStatus]domain.StatusTotals, error) {
	st, _ := r.read(nil)
	totals := make(map[domain.TransactionStatus]domain.StatusTotals, len(domain.AllStatuses))
	for _, t := range st.transactions {
		if t.AccountID != accountID {
			continue
		}
		cur, ok := totals[t.Status]
		if !ok {
			cur.Total = decimal.Zero
		}
		cur.Count++
		cur.Total = cur.Total.Add(t.Amount)
		totals[t.Status] = cur
	}
	return totals, nil
}

func (r *transactionRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	if tx == nil {
		return errForeignTx
	}
	return r.write(tx, func(st *state) error {
		if _, exists := st.transactions[txn.TransactionID]; exists {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, txn.TransactionID)
		}
		if err := checkReferences(st, txn); err != nil {
			return err
		}
		st.transactions[txn.TransactionID] = forStorage(txn)
		return nil
	})
}

func (r *transactionRepository) UpdateTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	if tx == nil {
		return errForeignTx
	}
	return r.write(tx, func(st *state) error {
		current, ok := st.transactions[txn.TransactionID]
		if !ok {
			return apperrors.NewNotFoundError("transaction", txn.TransactionID)
		}
		if err := checkReferences(st, txn); err != nil {
			return err
		}
		next := forStorage(txn)
		// Status columns are owned by UpdateTransactionStatuses.
		next.Status = current.Status
		next.ClearedAt = current.ClearedAt
		next.ReconciledAt = current.ReconciledAt
		next.OrganizationID = current.OrganizationID
		next.AccountID = current.AccountID
		next.CreatedByID = current.CreatedByID
		next.CreatedAt = current.CreatedAt
		st.transactions[txn.TransactionID] = next
		return nil
	})
}

func (r *transactionRepository) DeleteTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error {
	if tx == nil {
		return errForeignTx
	}
	return r.write(tx, func(st *state) error {
		if _, ok := st.transactions[transactionID]; !ok {
			return apperrors.NewNotFoundError("transaction", transactionID)
		}
		delete(st.transactions, transactionID)
		st.statusHistory = slices.DeleteFunc(st.statusHistory, func(h domain.TransactionStatusHistory) bool {
			return h.TransactionID == transactionID
		})
		return nil
	})
}

func (r *transactionRepository) UpdateTransactionStatuses(ctx context.Context, tx pgx.Tx, changes []domain.StatusChange) error {
	if tx == nil {
		return errForeignTx
	}
	return r.write(tx, func(st *state) error {
		for _, c := range changes {
			t, ok := st.transactions[c.TransactionID]
			if !ok {
				return apperrors.NewNotFoundError("transaction", c.TransactionID)
			}
			t.Status = c.Status
			t.ClearedAt = c.ClearedAt
			t.ReconciledAt = c.ReconciledAt
			st.transactions[c.TransactionID] = t
		}
		return nil
	})
}
