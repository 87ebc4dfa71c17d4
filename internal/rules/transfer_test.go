package rules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minibank/internal/domain"
)

func activeAccount(balance string) *domain.BankAccount {
	return &domain.BankAccount{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Balance:  decimal.RequireFromString(balance),
		Currency: domain.CurrencyRUB,
		IsActive: true,
	}
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		from      *domain.BankAccount
		to        *domain.BankAccount
		wantCodes []Code
	}{
		{
			name:   "valid transfer",
			amount: "50",
			from:   activeAccount("100"),
			to:     activeAccount("100"),
		},
		{
			name:      "zero amount",
			amount:    "0",
			from:      activeAccount("100"),
			to:        activeAccount("100"),
			wantCodes: []Code{InvalidAmount},
		},
		{
			name:      "negative amount",
			amount:    "-5",
			from:      activeAccount("100"),
			to:        activeAccount("100"),
			wantCodes: []Code{InvalidAmount},
		},
		{
			name:      "missing source account",
			amount:    "50",
			from:      nil,
			to:        activeAccount("100"),
			wantCodes: []Code{FromAccountMissing},
		},
		{
			name:      "missing destination account",
			amount:    "50",
			from:      activeAccount("100"),
			to:        nil,
			wantCodes: []Code{ToAccountMissing},
		},
		{
			name:   "inactive source account",
			amount: "50",
			from: func() *domain.BankAccount {
				a := activeAccount("100")
				a.IsActive = false
				return a
			}(),
			to:        activeAccount("100"),
			wantCodes: []Code{FromAccountNotActive},
		},
		{
			name:   "inactive destination account",
			amount: "50",
			from:   activeAccount("100"),
			to: func() *domain.BankAccount {
				a := activeAccount("100")
				a.IsActive = false
				return a
			}(),
			wantCodes: []Code{ToAccountNotActive},
		},
		{
			name:      "same account on both sides",
			amount:    "50",
			from:      activeAccount("100"),
			to:        nil, // set below to the same value
			wantCodes: []Code{EqualAccountIDs},
		},
		{
			name:      "insufficient balance",
			amount:    "150",
			from:      activeAccount("100"),
			to:        activeAccount("100"),
			wantCodes: []Code{NotEnoughMoney},
		},
		{
			name:   "everything wrong at once is reported together",
			amount: "-1",
			from: func() *domain.BankAccount {
				a := activeAccount("0")
				a.IsActive = false
				return a
			}(),
			to: func() *domain.BankAccount {
				a := activeAccount("0")
				a.IsActive = false
				return a
			}(),
			wantCodes: []Code{InvalidAmount, FromAccountNotActive, ToAccountNotActive},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to := tc.from, tc.to
			if tc.name == "same account on both sides" {
				to = from
			}

			v := Transfer(decimal.RequireFromString(tc.amount), from, to)

			if len(tc.wantCodes) == 0 {
				assert.Empty(t, v)
				assert.NoError(t, v.AsError())
				return
			}

			require.Error(t, v.AsError())
			assert.Len(t, v, len(tc.wantCodes))
			for _, code := range tc.wantCodes {
				assert.True(t, v.Has(code), "missing violation %s in %v", code, v)
			}
		})
	}
}

func TestTransfer_InsufficientBalanceUsesGrossAmount(t *testing.T) {
	from := activeAccount("100")
	to := activeAccount("0")

	// Exactly the balance is fine; one kopeck more is not.
	assert.Empty(t, Transfer(decimal.RequireFromString("100"), from, to))
	assert.True(t, Transfer(decimal.RequireFromString("100.01"), from, to).Has(NotEnoughMoney))
}
