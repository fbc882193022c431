package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the reconciliation state of a transaction.
type TransactionStatus string

const (
	StatusUncleared  TransactionStatus = "UNCLEARED"
	StatusCleared    TransactionStatus = "CLEARED"
	StatusReconciled TransactionStatus = "RECONCILED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []TransactionStatus{StatusUncleared, StatusCleared, StatusReconciled}

// IsValid reports whether s is a known status.
func (s TransactionStatus) IsValid() bool {
	return s == StatusUncleared || s == StatusCleared || s == StatusReconciled
}

// allowedTransitions is the complete transition table. RECONCILED is terminal.
var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusUncleared:  {StatusCleared},
	StatusCleared:    {StatusUncleared, StatusReconciled},
	StatusReconciled: {},
}

// CanTransition reports whether moving from -> to is an edge of the table.
func CanTransition(from, to TransactionStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a *StatusTransitionError when from -> to is not allowed.
// The checks run in a fixed order: same status, then terminal state, then the table.
func ValidateTransition(from, to TransactionStatus) error {
	switch {
	case from == to:
		return &StatusTransitionError{From: from, To: to, Reason: ReasonAlreadyInStatus}
	case from == StatusReconciled:
		return &StatusTransitionError{From: from, To: to, Reason: ReasonReconciledLocked}
	case !CanTransition(from, to):
		return &StatusTransitionError{From: from, To: to, Reason: ReasonInvalidTransition}
	}
	return nil
}

// ApplyStatusTimestamps sets the cleared/reconciled timestamps that accompany a move to status.
func ApplyStatusTimestamps(t *Transaction, status TransactionStatus, now time.Time) {
	switch status {
	case StatusCleared:
		t.ClearedAt = &now
	case StatusReconciled:
		t.ReconciledAt = &now
		if t.ClearedAt == nil {
			t.ClearedAt = &now
		}
	case StatusUncleared:
		t.ClearedAt = nil
		t.ReconciledAt = nil
	}
	t.Status = status
}

// TransactionStatusHistory is one append-only row per status change.
type TransactionStatusHistory struct {
	ID            string             `json:"id"`
	TransactionID string             `json:"transactionID"`
	FromStatus    *TransactionStatus `json:"fromStatus"` // Nil for the initial row
	ToStatus      TransactionStatus  `json:"toStatus"`
	ChangedByID   string             `json:"changedByID"`
	ChangedByName string             `json:"changedByName,omitempty"`
	ChangedAt     time.Time          `json:"changedAt"`
	Notes         *string            `json:"notes"`
}

// ChangeStatusInput is a request to move one transaction to a new status.
type ChangeStatusInput struct {
	Status TransactionStatus
	Notes  *string
}

// BulkChangeStatusInput is a request to move many transactions of one account to a new status.
type BulkChangeStatusInput struct {
	TransactionIDs []string
	Status         TransactionStatus
	Notes          *string
}

// StatusChange is a validated status update ready to be persisted.
type StatusChange struct {
	TransactionID string
	Status        TransactionStatus
	ClearedAt     *time.Time
	ReconciledAt  *time.Time
	History       TransactionStatusHistory
}

// BulkStatusFailure names a transaction that was not updated and why.
type BulkStatusFailure struct {
	TransactionID string `json:"transactionID"`
	Error         string `json:"error"`
}

// BulkStatusResult reports both halves of a bulk status change.
type BulkStatusResult struct {
	Successful []string            `json:"successful"`
	Failed     []BulkStatusFailure `json:"failed"`
}

// AllSucceeded reports whether no transaction failed.
func (r BulkStatusResult) AllSucceeded() bool {
	return len(r.Failed) == 0
}

// StatusTotals is the count and amount sum of transactions in one status.
type StatusTotals struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ReconciliationSummary aggregates an account's transactions by status.
type ReconciliationSummary struct {
	AccountID string                             `json:"accountID"`
	ByStatus  map[TransactionStatus]StatusTotals `json:"byStatus"`
	Overall   StatusTotals                       `json:"overall"`
}

// NewReconciliationSummary builds a summary with every status present, zero-filled,
// and the overall totals derived from the per-status rows.
func NewReconciliationSummary(accountID string, rows map[TransactionStatus]StatusTotals) ReconciliationSummary {
	summary := ReconciliationSummary{
		AccountID: accountID,
		ByStatus:  make(map[TransactionStatus]StatusTotals, len(AllStatuses)),
		Overall:   StatusTotals{Total: decimal.Zero},
	}
	for _, status := range AllStatuses {
		totals, ok := rows[status]
		if !ok {
			totals = StatusTotals{Total: decimal.Zero}
		}
		summary.ByStatus[status] = totals
		summary.Overall.Count += totals.Count
		summary.Overall.Total = summary.Overall.Total.Add(totals.Total)
	}
	return summary
}
