package accounting

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func assertChanges(t *testing.T, want map[string]string, got BalanceChanges) {
	t.Helper()
	require.Len(t, got, len(want))
	for accountID, amount := range want {
		assert.True(t, dec(amount).Equal(got[accountID]), "account %s: want %s, got %s", accountID, amount, got[accountID])
	}
}

func TestEffects(t *testing.T) {
	tests := []struct {
		name string
		txn  domain.Transaction
		want map[string]string
	}{
		{
			name: "income without fee",
			txn:  domain.Transaction{AccountID: "A", TransactionType: domain.Income, Amount: dec("100")},
			want: map[string]string{"A": "100"},
		},
		{
			name: "income with fee",
			txn:  domain.Transaction{AccountID: "A", TransactionType: domain.Income, Amount: dec("100"), FeeAmount: ptr(dec("2.5"))},
			want: map[string]string{"A": "97.5"},
		},
		{
			name: "expense with fee",
			txn:  domain.Transaction{AccountID: "A", TransactionType: domain.Expense, Amount: dec("100"), FeeAmount: ptr(dec("5"))},
			want: map[string]string{"A": "-105"},
		},
		{
			name: "transfer with fee charges only the source",
			txn: domain.Transaction{
				AccountID: "A", DestinationAccountID: ptr("B"), TransactionType: domain.Transfer,
				Amount: dec("50"), FeeAmount: ptr(dec("2")),
			},
			want: map[string]string{"A": "-52", "B": "50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Effects(tt.txn)
			require.NoError(t, err)
			assertChanges(t, tt.want, got)
		})
	}
}

func TestEffects_Errors(t *testing.T) {
	_, err := Effects(domain.Transaction{AccountID: "A", TransactionType: domain.Transfer, Amount: dec("1")})
	assert.Error(t, err, "transfer without destination")

	_, err = Effects(domain.Transaction{AccountID: "A", TransactionType: "REFUND", Amount: dec("1")})
	assert.Error(t, err, "unknown type")
}

func TestDelta(t *testing.T) {
	expense := domain.Transaction{AccountID: "A", TransactionType: domain.Expense, Amount: dec("100"), FeeAmount: ptr(dec("5"))}

	t.Run("amount change applies only the difference", func(t *testing.T) {
		after := expense.Clone()
		after.Amount = dec("150")
		got, err := Delta(expense, after)
		require.NoError(t, err)
		assertChanges(t, map[string]string{"A": "-50"}, got)
	})

	t.Run("expense to transfer", func(t *testing.T) {
		before := expense.Clone()
		before.Amount = dec("150")
		after := before.Clone()
		after.TransactionType = domain.Transfer
		after.DestinationAccountID = ptr("B")
		got, err := Delta(before, after)
		require.NoError(t, err)
		// Source: +155 reversal, -155 new effect. Destination credited 150.
		assertChanges(t, map[string]string{"B": "150"}, got)
	})

	t.Run("transfer destination move", func(t *testing.T) {
		before := domain.Transaction{AccountID: "A", DestinationAccountID: ptr("B"), TransactionType: domain.Transfer, Amount: dec("40")}
		after := before.Clone()
		after.DestinationAccountID = ptr("C")
		got, err := Delta(before, after)
		require.NoError(t, err)
		assertChanges(t, map[string]string{"B": "-40", "C": "40"}, got)
	})

	t.Run("transfer to income", func(t *testing.T) {
		before := domain.Transaction{AccountID: "A", DestinationAccountID: ptr("B"), TransactionType: domain.Transfer, Amount: dec("40")}
		after := before.Clone()
		after.TransactionType = domain.Income
		after.DestinationAccountID = nil
		got, err := Delta(before, after)
		require.NoError(t, err)
		assertChanges(t, map[string]string{"A": "80", "B": "-40"}, got)
	})

	t.Run("no change nets to nothing", func(t *testing.T) {
		got, err := Delta(expense, expense.Clone())
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestReversal_IsExactInverse(t *testing.T) {
	txn := domain.Transaction{
		AccountID: "A", DestinationAccountID: ptr("B"), TransactionType: domain.Transfer,
		Amount: dec("0.10"), FeeAmount: ptr(dec("0.20")),
	}
	effects, err := Effects(txn)
	require.NoError(t, err)
	reversal, err := Reversal(txn)
	require.NoError(t, err)

	effects.Merge(reversal)
	assert.Empty(t, effects)
}

func TestSplitsMatchAmount(t *testing.T) {
	splits := func(amounts ...string) []domain.TransactionSplit {
		out := make([]domain.TransactionSplit, len(amounts))
		for i, a := range amounts {
			out[i] = domain.TransactionSplit{Amount: dec(a)}
		}
		return out
	}

	assert.True(t, SplitsMatchAmount(dec("100"), splits("60", "40")))
	assert.True(t, SplitsMatchAmount(dec("100"), splits("60", "39.995")))
	assert.True(t, SplitsMatchAmount(dec("10"), splits("9.991")))
	assert.True(t, SplitsMatchAmount(dec("10"), splits("10.009")))
	assert.False(t, SplitsMatchAmount(dec("100"), splits("60", "39.99")))
	assert.False(t, SplitsMatchAmount(dec("100"), splits("60", "40.01")))
	assert.False(t, SplitsMatchAmount(dec("100"), nil))
}

func TestAccountIDs_Sorted(t *testing.T) {
	changes := BalanceChanges{"c": dec("1"), "a": dec("2"), "b": dec("3")}
	assert.Equal(t, []string{"a", "b", "c"}, changes.AccountIDs())
}

// TestIncrementalBalancesMatchRecomputation drives random create/update/delete sequences
// through Effects, Delta and Reversal and checks the running balances against a full
// recomputation over the surviving transactions.
func TestIncrementalBalancesMatchRecomputation(t *testing.T) {
	accounts := []string{"A", "B", "C"}
	types := []domain.TransactionType{domain.Income, domain.Expense, domain.Transfer}
	rng := rand.New(rand.NewPCG(7, 11))

	randomTxn := func(id string) domain.Transaction {
		txn := domain.Transaction{
			TransactionID:   id,
			AccountID:       accounts[rng.IntN(len(accounts))],
			TransactionType: types[rng.IntN(len(types))],
			Amount:          decimal.New(int64(rng.IntN(100000)+1), -2),
		}
		if rng.IntN(2) == 0 {
			txn.FeeAmount = ptr(decimal.New(int64(rng.IntN(500)), -2))
		}
		if txn.TransactionType == domain.Transfer {
			dest := accounts[rng.IntN(len(accounts))]
			for dest == txn.AccountID {
				dest = accounts[rng.IntN(len(accounts))]
			}
			txn.DestinationAccountID = &dest
		}
		return txn
	}

	for run := 0; run < 50; run++ {
		balances := BalanceChanges{}
		live := map[string]domain.Transaction{}
		nextID := 0

		for step := 0; step < 200; step++ {
			var changes BalanceChanges
			var err error
			ids := make([]string, 0, len(live))
			for id := range live {
				ids = append(ids, id)
			}

			switch op := rng.IntN(3); {
			case op == 0 || len(ids) == 0:
				nextID++
				txn := randomTxn(fmt.Sprintf("t%d", nextID))
				changes, err = Effects(txn)
				live[txn.TransactionID] = txn
			case op == 1:
				before := live[ids[rng.IntN(len(ids))]]
				after := randomTxn(before.TransactionID)
				changes, err = Delta(before, after)
				live[after.TransactionID] = after
			default:
				victim := live[ids[rng.IntN(len(ids))]]
				changes, err = Reversal(victim)
				delete(live, victim.TransactionID)
			}
			require.NoError(t, err)
			balances.Merge(changes)
		}

		expected := BalanceChanges{}
		for _, txn := range live {
			effects, err := Effects(txn)
			require.NoError(t, err)
			expected.Merge(effects)
		}
		for _, accountID := range accounts {
			assert.True(t, expected[accountID].Equal(balances[accountID]),
				"run %d account %s: incremental %s, recomputed %s", run, accountID, balances[accountID], expected[accountID])
		}
	}
}
