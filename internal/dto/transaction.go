package dto

import (
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/SscSPs/treasury_app/internal/utils/optional"
	"github.com/shopspring/decimal"
)

// SplitRequest assigns part of a transaction amount to a category given by ID or by name.
type SplitRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required,dgt0"`
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName" binding:"max=200"`
}

func toSplitInputs(splits []SplitRequest) []domain.SplitInput {
	inputs := make([]domain.SplitInput, len(splits))
	for i, s := range splits {
		inputs[i] = domain.SplitInput{
			Amount:   s.Amount,
			Category: domain.CategoryRef{CategoryID: s.CategoryID, CategoryName: s.CategoryName},
		}
	}
	return inputs
}

// CreateTransactionRequest defines the data needed to record a transaction.
type CreateTransactionRequest struct {
	TransactionType      domain.TransactionType `json:"transactionType" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	Amount               decimal.Decimal        `json:"amount" binding:"required,dgt0"`
	Date                 time.Time              `json:"date" binding:"required"`
	DestinationAccountID *string                `json:"destinationAccountID"` // TRANSFER only
	VendorID             *string                `json:"vendorID"`
	Memo                 *string                `json:"memo" binding:"omitempty,max=1000"`
	ApplyFee             bool                   `json:"applyFee"`
	Splits               []SplitRequest         `json:"splits" binding:"required,min=1,dive"`
}

// ToCreateTransactionInput converts the request for the mutation engine.
func (r CreateTransactionRequest) ToCreateTransactionInput(userID string) domain.CreateTransactionInput {
	return domain.CreateTransactionInput{
		UserID:               userID,
		TransactionType:      r.TransactionType,
		Amount:               r.Amount,
		Date:                 r.Date,
		DestinationAccountID: r.DestinationAccountID,
		VendorID:             r.VendorID,
		Memo:                 r.Memo,
		ApplyFee:             r.ApplyFee,
		Splits:               toSplitInputs(r.Splits),
	}
}

// UpdateTransactionRequest is a partial update. Omitted keys are left unchanged and
// explicit nulls clear nullable fields. Either version or force must be sent.
type UpdateTransactionRequest struct {
	Version              *int                                   `json:"version" binding:"omitempty,min=1"`
	Force                bool                                   `json:"force"` // Skip the version check, last write wins
	Amount               optional.Field[decimal.Decimal]        `json:"amount"`
	TransactionType      optional.Field[domain.TransactionType] `json:"transactionType"`
	Date                 optional.Field[time.Time]              `json:"date"`
	Memo                 optional.Field[string]                 `json:"memo"`
	VendorID             optional.Field[string]                 `json:"vendorID"`
	DestinationAccountID optional.Field[string]                 `json:"destinationAccountID"`
	ApplyFee             optional.Field[bool]                   `json:"applyFee"`
	Splits               optional.Field[[]SplitRequest]         `json:"splits"`
}

// VersionPolicy maps version/force onto the engine's concurrency policy.
func (r UpdateTransactionRequest) VersionPolicy() (domain.VersionPolicy, error) {
	if r.Force {
		return domain.ForceOverwrite(), nil
	}
	if r.Version == nil {
		return domain.VersionPolicy{}, apperrors.NewValidationError("version is required unless force is set")
	}
	return domain.CheckVersion(*r.Version), nil
}

// ToPatch converts the request for the mutation engine.
func (r UpdateTransactionRequest) ToPatch() domain.TransactionPatch {
	patch := domain.TransactionPatch{
		Amount:               r.Amount,
		TransactionType:      r.TransactionType,
		Date:                 r.Date,
		Memo:                 r.Memo,
		VendorID:             r.VendorID,
		DestinationAccountID: r.DestinationAccountID,
		ApplyFee:             r.ApplyFee,
	}
	switch {
	case r.Splits.HasValue():
		patch.Splits = optional.Of(toSplitInputs(r.Splits.Value))
	case r.Splits.Null:
		patch.Splits = optional.Null[[]domain.SplitInput]()
	}
	return patch
}

type SplitResponse struct {
	SplitID      string          `json:"splitID"`
	Amount       decimal.Decimal `json:"amount"`
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID          string                   `json:"transactionID"`
	OrganizationID         string                   `json:"organizationID"`
	AccountID              string                   `json:"accountID"`
	AccountName            string                   `json:"accountName"`
	DestinationAccountID   *string                  `json:"destinationAccountID"`
	DestinationAccountName *string                  `json:"destinationAccountName"`
	VendorID               *string                  `json:"vendorID"`
	VendorName             *string                  `json:"vendorName"`
	Amount                 decimal.Decimal          `json:"amount"`
	TransactionType        domain.TransactionType   `json:"transactionType"`
	Date                   time.Time                `json:"date"`
	FeeAmount              *decimal.Decimal         `json:"feeAmount"`
	Memo                   *string                  `json:"memo"`
	Status                 domain.TransactionStatus `json:"status"`
	ClearedAt              *time.Time               `json:"clearedAt"`
	ReconciledAt           *time.Time               `json:"reconciledAt"`
	Version                int                      `json:"version"`
	CreatedBy              AuditUser                `json:"createdBy"`
	LastModifiedBy         AuditUser                `json:"lastModifiedBy"`
	CreatedAt              time.Time                `json:"createdAt"`
	UpdatedAt              time.Time                `json:"updatedAt"`
	Splits                 []SplitResponse          `json:"splits"`
}

// AuditUser identifies who performed an action.
type AuditUser struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	splits := make([]SplitResponse, len(t.Splits))
	for i, s := range t.Splits {
		splits[i] = SplitResponse{SplitID: s.SplitID, Amount: s.Amount, CategoryID: s.CategoryID, CategoryName: s.CategoryName}
	}
	return TransactionResponse{
		TransactionID:          t.TransactionID,
		OrganizationID:         t.OrganizationID,
		AccountID:              t.AccountID,
		AccountName:            t.AccountName,
		DestinationAccountID:   t.DestinationAccountID,
		DestinationAccountName: t.DestinationAccountName,
		VendorID:               t.VendorID,
		VendorName:             t.VendorName,
		Amount:                 t.Amount,
		TransactionType:        t.TransactionType,
		Date:                   t.Date,
		FeeAmount:              t.FeeAmount,
		Memo:                   t.Memo,
		Status:                 t.Status,
		ClearedAt:              t.ClearedAt,
		ReconciledAt:           t.ReconciledAt,
		Version:                t.Version,
		CreatedBy:              AuditUser{UserID: t.CreatedByID, Name: t.CreatedByName},
		LastModifiedBy:         AuditUser{UserID: t.LastModifiedByID, Name: t.LastModifiedByName},
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
		Splits:                 splits,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// ListTransactionsParams defines query parameters for listing an account's transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit" binding:"min=0,max=200"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status" binding:"omitempty,oneof=UNCLEARED CLEARED RECONCILED"`
}

// ToFilter converts the query parameters for the repository.
func (p ListTransactionsParams) ToFilter() domain.TransactionFilter {
	filter := domain.TransactionFilter{Limit: p.Limit, NextToken: p.NextToken}
	if p.Status != nil {
		status := domain.TransactionStatus(*p.Status)
		filter.Status = &status
	}
	return filter
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// VersionConflictResponse is the 409 body of a stale update. It carries the current
// server state so a client can show what changed.
type VersionConflictResponse struct {
	Error              string              `json:"error"`
	CurrentVersion     int                 `json:"currentVersion"`
	ExpectedVersion    int                 `json:"expectedVersion"`
	LastModifiedBy     AuditUser           `json:"lastModifiedBy"`
	LastModifiedAt     time.Time           `json:"lastModifiedAt"`
	CurrentTransaction TransactionResponse `json:"currentTransaction"`
}

// ToVersionConflictResponse converts a domain.VersionConflictError to its response body.
func ToVersionConflictResponse(e *domain.VersionConflictError) VersionConflictResponse {
	return VersionConflictResponse{
		Error:              "version conflict",
		CurrentVersion:     e.CurrentVersion,
		ExpectedVersion:    e.ExpectedVersion,
		LastModifiedBy:     AuditUser{UserID: e.LastModifiedByID, Name: e.LastModifiedByName},
		LastModifiedAt:     e.LastModifiedAt,
		CurrentTransaction: ToTransactionResponse(&e.Current),
	}
}

// EditHistoryResponse wraps a transaction's edit history, newest first.
type EditHistoryResponse struct {
	History []domain.TransactionEditHistory `json:"history"`
}
