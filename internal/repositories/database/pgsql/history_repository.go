package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxHistoryRepository stores the edit and status audit trails.
type PgxHistoryRepository struct {
	BaseRepository
}

func newPgxHistoryRepository(pool *pgxpool.Pool) portsrepo.HistoryRepositoryFacade {
	return &PgxHistoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.HistoryRepositoryFacade = (*PgxHistoryRepository)(nil)

func (r *PgxHistoryRepository) SaveEditHistory(ctx context.Context, tx pgx.Tx, entry domain.TransactionEditHistory) error {
	changes := entry.Changes
	if changes == nil {
		changes = []domain.FieldChange{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to encode changes of edit %s: %w", entry.ID, err)
	}
	var previousJSON []byte
	if entry.PreviousState != nil {
		if previousJSON, err = json.Marshal(entry.PreviousState); err != nil {
			return fmt.Errorf("failed to encode previous state of edit %s: %w", entry.ID, err)
		}
	}

	query := `
		INSERT INTO transaction_edit_history (id, transaction_id, edited_by_id, edit_type, changes, previous_state, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = r.conn(tx).Exec(ctx, query,
		entry.ID, entry.TransactionID, entry.EditedByID, entry.EditType, changesJSON, previousJSON, entry.EditedAt)
	if err != nil {
		return fmt.Errorf("failed to insert edit history for transaction %s: %w", entry.TransactionID, err)
	}
	return nil
}

func (r *PgxHistoryRepository) ListEditHistory(ctx context.Context, transactionID string) ([]domain.TransactionEditHistory, error) {
	query := `
		SELECT h.id, h.transaction_id, h.edited_by_id, COALESCE(u.name, ''), h.edit_type, h.changes, h.previous_state, h.edited_at
		FROM transaction_edit_history h
		LEFT JOIN users u ON u.user_id = h.edited_by_id
		WHERE h.transaction_id = $1
		ORDER BY h.edited_at DESC, h.id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edit history for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	entries := []domain.TransactionEditHistory{}
	for rows.Next() {
		var (
			entry        domain.TransactionEditHistory
			changesJSON  []byte
			previousJSON []byte
		)
		if err := rows.Scan(&entry.ID, &entry.TransactionID, &entry.EditedByID, &entry.EditedByName,
			&entry.EditType, &changesJSON, &previousJSON, &entry.EditedAt); err != nil {
			return nil, fmt.Errorf("failed to scan edit history row: %w", err)
		}
		if err := json.Unmarshal(changesJSON, &entry.Changes); err != nil {
			return nil, fmt.Errorf("failed to decode changes of edit %s: %w", entry.ID, err)
		}
		if len(previousJSON) > 0 {
			entry.PreviousState = &domain.Transaction{}
			if err := json.Unmarshal(previousJSON, entry.PreviousState); err != nil {
				return nil, fmt.Errorf("failed to decode previous state of edit %s: %w", entry.ID, err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edit history rows: %w", err)
	}
	return entries, nil
}

func (r *PgxHistoryRepository) SaveStatusHistory(ctx context.Context, tx pgx.Tx, entries []domain.TransactionStatusHistory) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO transaction_status_history (id, transaction_id, from_status, to_status, changed_by_id, changed_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query, e.ID, e.TransactionID, e.FromStatus, e.ToStatus, e.ChangedByID, e.ChangedAt, e.Notes)
	}

	br := r.conn(tx).SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert status history for transaction %s: %w", entries[i].TransactionID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close status history batch: %w", err)
	}
	return batchErr
}

func (r *PgxHistoryRepository) ListStatusHistory(ctx context.Context, transactionID string) ([]domain.TransactionStatusHistory, error) {
	query := `
		SELECT h.id, h.transaction_id, h.from_status, h.to_status, h.changed_by_id, COALESCE(u.name, ''), h.changed_at, h.notes
		FROM transaction_status_history h
		LEFT JOIN users u ON u.user_id = h.changed_by_id
		WHERE h.transaction_id = $1
		ORDER BY h.changed_at, h.id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	entries := []domain.TransactionStatusHistory{}
	for rows.Next() {
		var e domain.TransactionStatusHistory
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.FromStatus, &e.ToStatus, &e.ChangedByID,
			&e.ChangedByName, &e.ChangedAt, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan status history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status history rows: %w", err)
	}
	return entries, nil
}
