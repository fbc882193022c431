package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type historyRepository struct {
	*store
}

var _ portsrepo.HistoryRepositoryFacade = (*historyRepository)(nil)

func (r *historyRepository) SaveEditHistory(ctx context.Context, tx pgx.Tx, entry domain.TransactionEditHistory) error {
	if entry.PreviousState != nil {
		prev := entry.PreviousState.Clone()
		entry.PreviousState = &prev
	}
	entry.Changes = slices.Clone(entry.Changes)
	if entry.Changes == nil {
		entry.Changes = []domain.FieldChange{}
	}
	entry.EditedByName = ""
	return r.write(tx, func(st *state) error {
		st.editHistory = append(st.editHistory, entry)
		return nil
	})
}

func (r *historyRepository) ListEditHistory(ctx context.Context, transactionID string) ([]domain.TransactionEditHistory, error) {
	st, _ := r.read(nil)
	entries := []domain.TransactionEditHistory{}
	for _, e := range st.editHistory {
		if e.TransactionID == transactionID {
			e.EditedByName = st.users[e.EditedByID].Name
			entries = append(entries, e)
		}
	}
	// Appends happen in commit order; reverse it for newest first and keep it stable
	// for rows written within the same instant.
	slices.Reverse(entries)
	slices.SortStableFunc(entries, func(a, b domain.TransactionEditHistory) int {
		return b.EditedAt.Compare(a.EditedAt)
	})
	return entries, nil
}

func (r *historyRepository) SaveStatusHistory(ctx context.Context, tx pgx.Tx, entries []domain.TransactionStatusHistory) error {
	if len(entries) == 0 {
		return nil
	}
	return r.write(tx, func(st *state) error {
		for _, e := range entries {
			e.ChangedByName = ""
			st.statusHistory = append(st.statusHistory, e)
		}
		return nil
	})
}

func (r *historyRepository) ListStatusHistory(ctx context.Context, transactionID string) ([]domain.TransactionStatusHistory, error) {
	st, _ := r.read(nil)
	entries := []domain.TransactionStatusHistory{}
	for _, e := range st.statusHistory {
		if e.TransactionID == transactionID {
			e.ChangedByName = st.users[e.ChangedByID].Name
			entries = append(entries, e)
		}
	}
	slices.SortStableFunc(entries, func(a, b domain.TransactionStatusHistory) int {
		return cmp.Compare(a.ChangedAt.UnixNano(), b.ChangedAt.UnixNano())
	})
	return entries, nil
}
