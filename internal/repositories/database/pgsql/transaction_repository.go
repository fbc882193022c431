package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// selectTransactions reads transaction rows with the display names of every referenced entity.
const selectTransactions = `
	SELECT t.transaction_id, t.organization_id, t.account_id, t.destination_account_id, t.vendor_id,
		t.amount, t.transaction_type, t.transaction_date, t.fee_amount, t.memo, t.status,
		t.cleared_at, t.reconciled_at, t.version, t.created_by_id, t.last_modified_by_id,
		t.created_at, t.updated_at,
		a.name, da.name, v.name, COALESCE(cu.name, ''), COALESCE(mu.name, '')
	FROM transactions t
	JOIN accounts a ON a.account_id = t.account_id
	LEFT JOIN accounts da ON da.account_id = t.destination_account_id
	LEFT JOIN vendors v ON v.vendor_id = t.vendor_id
	LEFT JOIN users cu ON cu.user_id = t.created_by_id
	LEFT JOIN users mu ON mu.user_id = t.last_modified_by_id`

const orderTransactionsNewestFirst = `ORDER BY t.transaction_date DESC, t.created_at DESC, t.transaction_id DESC`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryWithTx
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.OrganizationID,
		&t.AccountID,
		&t.DestinationAccountID,
		&t.VendorID,
		&t.Amount,
		&t.TransactionType,
		&t.Date,
		&t.FeeAmount,
		&t.Memo,
		&t.Status,
		&t.ClearedAt,
		&t.ReconciledAt,
		&t.Version,
		&t.CreatedByID,
		&t.LastModifiedByID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.AccountName,
		&t.DestinationAccountName,
		&t.VendorName,
		&t.CreatedByName,
		&t.LastModifiedByName,
	)
	t.Splits = []domain.TransactionSplit{}
	return t, err
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, q querier, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// attachSplits loads the splits of every transaction in txns, in their stored order.
func (r *PgxTransactionRepository) attachSplits(ctx context.Context, q querier, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	index := make(map[string]int, len(txns))
	ids := make([]string, len(txns))
	for i, t := range txns {
		index[t.TransactionID] = i
		ids[i] = t.TransactionID
	}

	query := `
		SELECT s.split_id, s.transaction_id, s.amount, s.category_id, c.name
		FROM transaction_splits s
		JOIN categories c ON c.category_id = s.category_id
		WHERE s.transaction_id = ANY($1)
		ORDER BY s.transaction_id, s.position;
	`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query transaction splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.TransactionSplit
		if err := rows.Scan(&s.SplitID, &s.TransactionID, &s.Amount, &s.CategoryID, &s.CategoryName); err != nil {
			return fmt.Errorf("failed to scan transaction split row: %w", err)
		}
		i := index[s.TransactionID]
		txns[i].Splits = append(txns[i].Splits, s)
	}
	return rows.Err()
}

func (r *PgxTransactionRepository) findOne(ctx context.Context, q querier, query, transactionID string) (*domain.Transaction, error) {
	t, err := scanTransaction(q.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction", transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	txns := []domain.Transaction{t}
	if err := r.attachSplits(ctx, q, txns); err != nil {
		return nil, err
	}
	return &txns[0], nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, r.conn(tx), selectTransactions+` WHERE t.transaction_id = $1;`, transactionID)
}

// FindTransactionByIDForUpdate locks only the transaction row; the joined rows stay unlocked.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, tx, selectTransactions+` WHERE t.transaction_id = $1 FOR UPDATE OF t;`, transactionID)
}

func (r *PgxTransactionRepository) FindTransactionsByIDs(ctx context.Context, tx pgx.Tx, transactionIDs []string) (map[string]domain.Transaction, error) {
	result := make(map[string]domain.Transaction, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return result, nil
	}
	q := r.conn(tx)
	txns, err := r.queryTransactions(ctx, q, selectTransactions+` WHERE t.transaction_id = ANY($1);`, transactionIDs)
	if err != nil {
		return nil, err
	}
	if err := r.attachSplits(ctx, q, txns); err != nil {
		return nil, err
	}
	for _, t := range txns {
		result[t.TransactionID] = t
	}
	return result, nil
}

// ListTransactionsByAccount pages through an account's transactions newest first.
// One extra row is fetched to decide whether another page exists.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit)

	args := []any{accountID}
	query := selectTransactions + ` WHERE (t.account_id = $1 OR t.destination_account_id = $1)`
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND t.status = $` + strconv.Itoa(len(args))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken",
				fmt.Errorf("%w: %w", apperrors.ErrValidation, decodeErr))
		}
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
		n := len(args)
		query += fmt.Sprintf(` AND (t.transaction_date, t.created_at, t.transaction_id) < ($%d, $%d, $%d)`, n-2, n-1, n)
	}
	args = append(args, limit+1)
	query += ` ` + orderTransactionsNewestFirst + ` LIMIT $` + strconv.Itoa(len(args)) + `;`

	txns, err := r.queryTransactions(ctx, r.Pool, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}

	var nextToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
	}

	if err := r.attachSplits(ctx, r.Pool, txns); err != nil {
		return nil, nil, err
	}
	return txns, nextToken, nil
}

func (r *PgxTransactionRepository) ListTransactionsByOrganization(ctx context.Context, organizationID string) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, r.Pool, selectTransactions+` WHERE t.organization_id = $1 `+orderTransactionsNewestFirst+`;`, organizationID)
}

func (r *PgxTransactionRepository) SumByStatus(ctx context.Context, accountID string) (map[domain.TransactionStatus]domain.StatusTotals, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = $1
		GROUP BY status;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions by status for account %s: %w", accountID, err)
	}
	defer rows.Close()

	totals := make(map[domain.TransactionStatus]domain.StatusTotals, len(domain.AllStatuses))
	for rows.Next() {
		var (
			status domain.TransactionStatus
			count  int
			total  decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &total); err != nil {
			return nil, fmt.Errorf("failed to scan status totals row: %w", err)
		}
		totals[status] = domain.StatusTotals{Count: count, Total: total}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status totals rows: %w", err)
	}
	return totals, nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, organization_id, account_id, destination_account_id, vendor_id,
			amount, transaction_type, transaction_date, fee_amount, memo, status, cleared_at, reconciled_at,
			version, created_by_id, last_modified_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.OrganizationID,
		txn.AccountID,
		txn.DestinationAccountID,
		txn.VendorID,
		txn.Amount,
		txn.TransactionType,
		txn.Date,
		txn.FeeAmount,
		txn.Memo,
		txn.Status,
		txn.ClearedAt,
		txn.ReconciledAt,
		txn.Version,
		txn.CreatedByID,
		txn.LastModifiedByID,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return translatePgError(err, "failed to insert transaction %s", txn.TransactionID)
	}
	return r.insertSplits(ctx, tx, txn)
}

func (r *PgxTransactionRepository) insertSplits(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	if len(txn.Splits) == 0 {
		return nil
	}
	query := `
		INSERT INTO transaction_splits (split_id, transaction_id, amount, category_id, position)
		VALUES ($1, $2, $3, $4, $5);
	`
	batch := &pgx.Batch{}
	for i, s := range txn.Splits {
		batch.Queue(query, s.SplitID, txn.TransactionID, s.Amount, s.CategoryID, i)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = translatePgError(err, "failed to insert split %d of transaction %s", i, txn.TransactionID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close split insert batch: %w", err)
	}
	return batchErr
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	query := `
		UPDATE transactions
		SET destination_account_id = $2, vendor_id = $3, amount = $4, transaction_type = $5,
			transaction_date = $6, fee_amount = $7, memo = $8, version = $9,
			last_modified_by_id = $10, updated_at = $11
		WHERE transaction_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		txn.TransactionID,
		txn.DestinationAccountID,
		txn.VendorID,
		txn.Amount,
		txn.TransactionType,
		txn.Date,
		txn.FeeAmount,
		txn.Memo,
		txn.Version,
		txn.LastModifiedByID,
		txn.UpdatedAt,
	)
	if err != nil {
		return translatePgError(err, "failed to update transaction %s", txn.TransactionID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction", txn.TransactionID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_splits WHERE transaction_id = $1;`, txn.TransactionID); err != nil {
		return fmt.Errorf("failed to clear splits of transaction %s: %w", txn.TransactionID, err)
	}
	return r.insertSplits(ctx, tx, txn)
}

// DeleteTransaction removes the row; splits and status history go with it by cascade.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, tx pgx.Tx, transactionID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction", transactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) UpdateTransactionStatuses(ctx context.Context, tx pgx.Tx, changes []domain.StatusChange) error {
	if len(changes) == 0 {
		return nil
	}
	query := `
		UPDATE transactions
		SET status = $2, cleared_at = $3, reconciled_at = $4
		WHERE transaction_id = $1;
	`
	batch := &pgx.Batch{}
	for _, c := range changes {
		batch.Queue(query, c.TransactionID, c.Status, c.ClearedAt, c.ReconciledAt)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		switch {
		case err != nil:
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update status of transaction %s: %w", changes[i].TransactionID, err)
			}
		case ct.RowsAffected() == 0:
			if batchErr == nil {
				batchErr = apperrors.NewNotFoundError("transaction", changes[i].TransactionID)
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close status update batch: %w", err)
	}
	return batchErr
}
