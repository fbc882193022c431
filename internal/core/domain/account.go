package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType describes what kind of real-world account is being tracked.
type AccountType string

const (
	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	CreditCard AccountType = "CREDIT_CARD"
	Cash       AccountType = "CASH"
	Investment AccountType = "INVESTMENT"
	Other      AccountType = "OTHER"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, CreditCard, Cash, Investment, Other:
		return true
	}
	return false
}

// Account represents a bank, card or cash account owned by an organization.
// Balance is maintained incrementally by the ledger and is never written directly.
type Account struct {
	AccountID      string           `json:"accountID"`
	OrganizationID string           `json:"organizationID"`
	Name           string           `json:"name"`
	AccountType    AccountType      `json:"accountType"`
	CurrencyCode   string           `json:"currencyCode"`
	Balance        decimal.Decimal  `json:"balance"`
	OpeningBalance decimal.Decimal  `json:"openingBalance"` // Balance at creation, the base for audits
	TransactionFee *decimal.Decimal `json:"transactionFee"` // Flat fee snapshotted onto transactions on request
	IsActive       bool             `json:"isActive"`
	AuditFields
}

// BalanceAudit compares an account's stored balance with the balance recomputed
// from its opening balance and the transactions that currently exist.
type BalanceAudit struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Stored    decimal.Decimal `json:"stored"`
	Expected  decimal.Decimal `json:"expected"`
}

// Drift is the stored balance minus the expected balance.
func (a BalanceAudit) Drift() decimal.Decimal {
	return a.Stored.Sub(a.Expected)
}
