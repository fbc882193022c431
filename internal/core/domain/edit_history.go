package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EditType classifies an edit history row.
type EditType string

const (
	EditCreate      EditType = "CREATE"
	EditUpdate      EditType = "UPDATE"
	EditDelete      EditType = "DELETE"
	EditRestore     EditType = "RESTORE"
	EditSplitChange EditType = "SPLIT_CHANGE"
)

// FieldChange is one changed field of an edit.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
}

// TransactionEditHistory records who changed what on a transaction.
type TransactionEditHistory struct {
	ID            string        `json:"id"`
	TransactionID string        `json:"transactionID"`
	EditedByID    string        `json:"editedByID"`
	EditedByName  string        `json:"editedByName,omitempty"`
	EditType      EditType      `json:"editType"`
	Changes       []FieldChange `json:"changes"`
	PreviousState *Transaction  `json:"previousState"`
	EditedAt      time.Time     `json:"editedAt"`
}

// SplitValue is the comparable part of a split as it appears in a change record.
type SplitValue struct {
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"categoryID"`
}

func splitValues(splits []TransactionSplit) []SplitValue {
	out := make([]SplitValue, len(splits))
	for i, s := range splits {
		out[i] = SplitValue{Amount: s.Amount, CategoryID: s.CategoryID}
	}
	return out
}

// SplitsEqual compares two split lists position by position on amount and category.
func SplitsEqual(a, b []TransactionSplit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Amount.Equal(b[i].Amount) || a[i].CategoryID != b[i].CategoryID {
			return false
		}
	}
	return true
}

// DiffTransactions compares every mutable field of before and after and returns the
// changes in a fixed field order, together with the edit type that classifies them.
// No changes means no edit history row should be written.
func DiffTransactions(before, after Transaction) ([]FieldChange, EditType) {
	var changes []FieldChange
	add := func(field string, oldValue, newValue any) {
		changes = append(changes, FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
	}

	if !equalPtr(before.Memo, after.Memo, func(a, b string) bool { return a == b }) {
		add("memo", derefOrNil(before.Memo), derefOrNil(after.Memo))
	}
	if !before.Amount.Equal(after.Amount) {
		add("amount", before.Amount, after.Amount)
	}
	if before.TransactionType != after.TransactionType {
		add("transactionType", before.TransactionType, after.TransactionType)
	}
	if !before.Date.Equal(after.Date) {
		add("date", before.Date, after.Date)
	}
	if !equalPtr(before.VendorID, after.VendorID, func(a, b string) bool { return a == b }) {
		add("vendorId", derefOrNil(before.VendorID), derefOrNil(after.VendorID))
	}
	if !equalPtr(before.DestinationAccountID, after.DestinationAccountID, func(a, b string) bool { return a == b }) {
		add("destinationAccountId", derefOrNil(before.DestinationAccountID), derefOrNil(after.DestinationAccountID))
	}
	if !equalPtr(before.FeeAmount, after.FeeAmount, decimal.Decimal.Equal) {
		add("feeAmount", derefOrNil(before.FeeAmount), derefOrNil(after.FeeAmount))
	}

	editType := EditUpdate
	if !SplitsEqual(before.Splits, after.Splits) {
		add("splits", splitValues(before.Splits), splitValues(after.Splits))
		editType = EditSplitChange
	}
	return changes, editType
}

// CreationChanges lists the initial values of a new transaction as changes from nothing.
func CreationChanges(t Transaction) []FieldChange {
	changes := []FieldChange{
		{Field: "amount", NewValue: t.Amount},
		{Field: "transactionType", NewValue: t.TransactionType},
		{Field: "date", NewValue: t.Date},
	}
	if t.Memo != nil {
		changes = append(changes, FieldChange{Field: "memo", NewValue: *t.Memo})
	}
	if t.VendorID != nil {
		changes = append(changes, FieldChange{Field: "vendorId", NewValue: *t.VendorID})
	}
	if t.DestinationAccountID != nil {
		changes = append(changes, FieldChange{Field: "destinationAccountId", NewValue: *t.DestinationAccountID})
	}
	if t.FeeAmount != nil {
		changes = append(changes, FieldChange{Field: "feeAmount", NewValue: *t.FeeAmount})
	}
	return append(changes, FieldChange{Field: "splits", NewValue: splitValues(t.Splits)})
}

func equalPtr[T any](a, b *T, eq func(T, T) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return eq(*a, *b)
}

func derefOrNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
