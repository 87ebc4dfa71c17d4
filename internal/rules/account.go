package rules

import (
	"minibank/internal/domain"
)

// AccountForOpen is the rule set a candidate account must pass before it is
// materialized: only supported currencies may be opened.
func AccountForOpen(currency domain.Currency) Violations {
	var v Violations
	if !currency.IsSupported() {
		v = violated(v, InvalidCurrencyCode, "unsupported currency code for a new account")
	}
	return v
}

// AccountForClose is the rule set an account must pass before closing:
// the balance must be exactly zero and the account must still be active.
func AccountForClose(acct *domain.BankAccount) Violations {
	var v Violations
	if !acct.Balance.IsZero() {
		v = violated(v, NotEmptyBalance, "account balance must be zero before closing")
	}
	if !acct.IsActive {
		v = violated(v, AlreadyClosed, "account is already closed")
	}
	return v
}
