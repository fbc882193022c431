package domain

import (
	"time"

	"github.com/SscSPs/treasury_app/internal/utils/optional"
	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of money movement for a transaction.
type TransactionType string

const (
	Income   TransactionType = "INCOME"
	Expense  TransactionType = "EXPENSE"
	Transfer TransactionType = "TRANSFER"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense || t == Transfer
}

// SplitSumTolerance is the allowed difference between the split total and the
// transaction amount. User input is entered as decimals, so the check is lenient.
const SplitSumTolerance = 0.01

// TransactionSplit attributes a portion of a transaction's amount to one category.
type TransactionSplit struct {
	SplitID       string          `json:"splitID"`
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
	CategoryID    string          `json:"categoryID"`
	CategoryName  string          `json:"categoryName,omitempty"` // Hydrated on read
}

// Transaction is a single income, expense or transfer recorded against an account.
type Transaction struct {
	TransactionID        string             `json:"transactionID"`
	OrganizationID       string             `json:"organizationID"`
	AccountID            string             `json:"accountID"`
	DestinationAccountID *string            `json:"destinationAccountID"` // TRANSFER only
	VendorID             *string            `json:"vendorID"`
	Amount               decimal.Decimal    `json:"amount"`
	TransactionType      TransactionType    `json:"transactionType"`
	Date                 time.Time          `json:"date"`
	FeeAmount            *decimal.Decimal   `json:"feeAmount"` // Snapshot of the account fee when applied
	Memo                 *string            `json:"memo"`
	Status               TransactionStatus  `json:"status"`
	ClearedAt            *time.Time         `json:"clearedAt"`
	ReconciledAt         *time.Time         `json:"reconciledAt"`
	Version              int                `json:"version"`
	CreatedByID          string             `json:"createdByID"`
	LastModifiedByID     string             `json:"lastModifiedByID"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
	Splits               []TransactionSplit `json:"splits"`

	// Hydrated on read
	AccountName            string  `json:"accountName,omitempty"`
	DestinationAccountName *string `json:"destinationAccountName,omitempty"`
	VendorName             *string `json:"vendorName,omitempty"`
	CreatedByName          string  `json:"createdByName,omitempty"`
	LastModifiedByName     string  `json:"lastModifiedByName,omitempty"`
}

// IsTransfer reports whether the transaction moves money between two accounts.
func (t *Transaction) IsTransfer() bool {
	return t.TransactionType == Transfer
}

// Clone returns a deep copy so snapshots are not aliased by later mutation.
func (t Transaction) Clone() Transaction {
	c := t
	c.DestinationAccountID = clonePtr(t.DestinationAccountID)
	c.VendorID = clonePtr(t.VendorID)
	c.FeeAmount = clonePtr(t.FeeAmount)
	c.Memo = clonePtr(t.Memo)
	c.ClearedAt = clonePtr(t.ClearedAt)
	c.ReconciledAt = clonePtr(t.ReconciledAt)
	c.DestinationAccountName = clonePtr(t.DestinationAccountName)
	c.VendorName = clonePtr(t.VendorName)
	if t.Splits != nil {
		c.Splits = make([]TransactionSplit, len(t.Splits))
		copy(c.Splits, t.Splits)
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SplitInput is a requested split on create or update.
type SplitInput struct {
	Amount   decimal.Decimal `json:"amount"`
	Category CategoryRef     `json:"category"`
}

// CreateTransactionInput carries everything needed to record a new transaction.
type CreateTransactionInput struct {
	UserID               string
	TransactionType      TransactionType
	Amount               decimal.Decimal
	Date                 time.Time
	DestinationAccountID *string
	VendorID             *string
	Memo                 *string
	ApplyFee             bool
	Splits               []SplitInput
}

// TransactionPatch is a partial update. Each field distinguishes absent (keep),
// explicit null (clear) and a new value.
type TransactionPatch struct {
	Amount               optional.Field[decimal.Decimal]
	TransactionType      optional.Field[TransactionType]
	Date                 optional.Field[time.Time]
	Memo                 optional.Field[string]
	VendorID             optional.Field[string]
	DestinationAccountID optional.Field[string]
	ApplyFee             optional.Field[bool]
	Splits               optional.Field[[]SplitInput]
}

// VersionPolicy selects how an update treats the optimistic-concurrency version.
// Build one with CheckVersion or ForceOverwrite.
type VersionPolicy struct {
	force    bool
	expected int
}

// CheckVersion rejects the update unless the stored version equals expected.
func CheckVersion(expected int) VersionPolicy {
	return VersionPolicy{expected: expected}
}

// ForceOverwrite skips the version check (last write wins).
func ForceOverwrite() VersionPolicy {
	return VersionPolicy{force: true}
}

// IsForce reports whether the policy bypasses the version check.
func (p VersionPolicy) IsForce() bool {
	return p.force
}

// Expected returns the version the caller last read. Meaningless when IsForce.
func (p VersionPolicy) Expected() int {
	return p.expected
}

// Permits reports whether a stored version may be overwritten under this policy.
func (p VersionPolicy) Permits(stored int) bool {
	return p.force || p.expected == stored
}

// TransactionFilter selects a page of an account's transactions.
type TransactionFilter struct {
	Limit     int
	NextToken *string
	Status    *TransactionStatus
}
