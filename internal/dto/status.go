package dto

import (
	"github.com/SscSPs/treasury_app/internal/core/domain"
)

// ChangeStatusRequest moves one transaction to a new reconciliation status.
type ChangeStatusRequest struct {
	Status domain.TransactionStatus `json:"status" binding:"required,oneof=UNCLEARED CLEARED RECONCILED"`
	Notes  *string                  `json:"notes" binding:"omitempty,max=1000"`
}

func (r ChangeStatusRequest) ToInput() domain.ChangeStatusInput {
	return domain.ChangeStatusInput{Status: r.Status, Notes: r.Notes}
}

// BulkChangeStatusRequest moves many transactions of one account to a new status.
type BulkChangeStatusRequest struct {
	TransactionIDs []string                 `json:"transactionIDs" binding:"required,min=1,max=500,dive,required"`
	Status         domain.TransactionStatus `json:"status" binding:"required,oneof=UNCLEARED CLEARED RECONCILED"`
	Notes          *string                  `json:"notes" binding:"omitempty,max=1000"`
}

func (r BulkChangeStatusRequest) ToInput() domain.BulkChangeStatusInput {
	return domain.BulkChangeStatusInput{TransactionIDs: r.TransactionIDs, Status: r.Status, Notes: r.Notes}
}

// StatusHistoryResponse wraps a transaction's status history, oldest first.
type StatusHistoryResponse struct {
	History []domain.TransactionStatusHistory `json:"history"`
}

// StatusTransitionErrorResponse is the 422 body of a rejected status change.
type StatusTransitionErrorResponse struct {
	Error  string                  `json:"error"`
	Reason domain.TransitionReason `json:"reason"`
}
