package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceChanges maps an account ID to the signed amount to add to its balance.
type BalanceChanges map[string]decimal.Decimal

// add accumulates delta for accountID, dropping entries that net to zero.
func (c BalanceChanges) add(accountID string, delta decimal.Decimal) {
	sum := c[accountID].Add(delta)
	if sum.IsZero() {
		delete(c, accountID)
		return
	}
	c[accountID] = sum
}

// Merge adds every entry of other into c.
func (c BalanceChanges) Merge(other BalanceChanges) {
	for accountID, delta := range other {
		c.add(accountID, delta)
	}
}

// AccountIDs returns the affected account IDs sorted, the order in which rows are locked.
func (c BalanceChanges) AccountIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Fee returns the snapshotted fee of a transaction, zero when none was applied.
func Fee(txn domain.Transaction) decimal.Decimal {
	if txn.FeeAmount == nil {
		return decimal.Zero
	}
	return *txn.FeeAmount
}

// SourceImpact is the signed effect of a transaction on its source account.
// The fee always reduces the source, whatever the type.
func SourceImpact(txn domain.Transaction) (decimal.Decimal, error) {
	fee := Fee(txn)
	switch txn.TransactionType {
	case domain.Income:
		return txn.Amount.Sub(fee), nil
	case domain.Expense, domain.Transfer:
		return txn.Amount.Add(fee).Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown transaction type '%s' for transaction %s", txn.TransactionType, txn.TransactionID)
	}
}

// Effects returns the signed balance change txn applies to each account it touches.
// A TRANSFER credits its destination with the amount, never the fee.
func Effects(txn domain.Transaction) (BalanceChanges, error) {
	source, err := SourceImpact(txn)
	if err != nil {
		return nil, err
	}
	changes := BalanceChanges{}
	changes.add(txn.AccountID, source)
	if txn.TransactionType == domain.Transfer {
		if txn.DestinationAccountID == nil || *txn.DestinationAccountID == "" {
			return nil, fmt.Errorf("transfer %s has no destination account", txn.TransactionID)
		}
		changes.add(*txn.DestinationAccountID, txn.Amount)
	}
	return changes, nil
}

// Reversal returns the exact additive inverse of Effects(txn).
func Reversal(txn domain.Transaction) (BalanceChanges, error) {
	effects, err := Effects(txn)
	if err != nil {
		return nil, err
	}
	reversed := make(BalanceChanges, len(effects))
	for accountID, delta := range effects {
		reversed[accountID] = delta.Neg()
	}
	return reversed, nil
}

// Delta returns the balance changes that move the ledger from the effect of before
// to the effect of after. It reverses the old effect in full and applies the new one,
// so type changes into or out of TRANSFER and destination moves net out per account.
func Delta(before, after domain.Transaction) (BalanceChanges, error) {
	changes, err := Reversal(before)
	if err != nil {
		return nil, err
	}
	effects, err := Effects(after)
	if err != nil {
		return nil, err
	}
	changes.Merge(effects)
	return changes, nil
}

// splitTolerance is the half-open bound on |sum(splits) - amount|.
var splitTolerance = decimal.NewFromFloat(domain.SplitSumTolerance)

// SplitsMatchAmount reports whether the split amounts add up to amount within the tolerance.
func SplitsMatchAmount(amount decimal.Decimal, splits []domain.TransactionSplit) bool {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.Amount)
	}
	return sum.Sub(amount).Abs().LessThan(splitTolerance)
}
