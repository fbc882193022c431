package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
)

// VersionConflictError reports a stale optimistic-concurrency version. It carries
// the current server state so the caller can present a diff instead of a bare error.
type VersionConflictError struct {
	CurrentVersion     int
	ExpectedVersion    int
	LastModifiedByID   string
	LastModifiedByName string
	LastModifiedAt     time.Time
	Current            Transaction
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("transaction %s was modified by another user (expected version %d, current version %d)",
		e.Current.TransactionID, e.ExpectedVersion, e.CurrentVersion)
}

func (e *VersionConflictError) Unwrap() error {
	return apperrors.ErrVersionConflict
}

// TransitionReason distinguishes the ways a status change can be rejected.
type TransitionReason string

const (
	ReasonAlreadyInStatus   TransitionReason = "ALREADY_IN_STATUS"
	ReasonReconciledLocked  TransitionReason = "RECONCILED_LOCKED"
	ReasonInvalidTransition TransitionReason = "INVALID_TRANSITION"
)

// ReconciledLockedMessage is returned whenever a RECONCILED transaction would be modified.
const ReconciledLockedMessage = "Cannot modify reconciled transactions"

// StatusTransitionError reports a rejected status change.
type StatusTransitionError struct {
	From   TransactionStatus
	To     TransactionStatus
	Reason TransitionReason
}

func (e *StatusTransitionError) Error() string {
	switch e.Reason {
	case ReasonAlreadyInStatus:
		return fmt.Sprintf("Transaction is already %s", e.To)
	case ReasonReconciledLocked:
		return ReconciledLockedMessage
	default:
		return fmt.Sprintf("Invalid status transition from %s to %s", e.From, e.To)
	}
}

func (e *StatusTransitionError) Unwrap() error {
	return apperrors.ErrInvalidStatusTransition
}

// NewReconciledLockedError is the guard failure used by update and delete paths.
func NewReconciledLockedError() *StatusTransitionError {
	return &StatusTransitionError{From: StatusReconciled, To: StatusReconciled, Reason: ReasonReconciledLocked}
}
