package rules

import (
	"github.com/shopspring/decimal"

	"minibank/internal/domain"
)

// Transfer evaluates a candidate transfer before any mutation. Amount is the
// gross amount the sender requested; the balance check runs against it, not
// the net-of-commission amount. Rules that need an account are skipped when
// that account is missing, its absence is already reported.
func Transfer(amount decimal.Decimal, from, to *domain.BankAccount) Violations {
	var v Violations

	if !amount.IsPositive() {
		v = violated(v, InvalidAmount, "transfer amount must be greater than zero")
	}

	if from == nil {
		v = violated(v, FromAccountMissing, "source account is missing")
	}
	if to == nil {
		v = violated(v, ToAccountMissing, "destination account is missing")
	}

	if from != nil && !from.IsActive {
		v = violated(v, FromAccountNotActive, "source account is not active")
	}
	if to != nil && !to.IsActive {
		v = violated(v, ToAccountNotActive, "destination account is not active")
	}

	if from != nil && to != nil && from.ID == to.ID {
		v = violated(v, EqualAccountIDs, "source and destination accounts are the same")
	}

	if from != nil && from.Balance.LessThan(amount) {
		v = violated(v, NotEnoughMoney, "source account balance is less than the transfer amount")
	}

	return v
}
