// Package rules holds the batch-evaluated validation rule sets. Every rule of
// a set runs; all violations are collected into one error so the caller sees
// everything wrong at once instead of the first failure only.
package rules

import (
	"fmt"
	"strings"
)

// Code names a single rule inside a rule set.
type Code string

const (
	InvalidCurrencyCode Code = "InvalidCurrencyCode"
	NotEmptyBalance     Code = "NotEmptyBalance"
	AlreadyClosed       Code = "BankAccountAlreadyClosed"

	InvalidAmount        Code = "InvalidAmount"
	FromAccountMissing   Code = "FromAccountError"
	ToAccountMissing     Code = "ToAccountError"
	FromAccountNotActive Code = "FromAccountNotActive"
	ToAccountNotActive   Code = "ToAccountNotActive"
	EqualAccountIDs      Code = "EqualsBankAccountIds"
	NotEnoughMoney       Code = "NotEnoughMoney"

	LoginEmpty   Code = "LoginIsNullOrEmpty"
	LoginTooLong Code = "LoginIsTooLong"
	EmailEmpty   Code = "EmailIsNullOrEmpty"
	EmailTooLong Code = "EmailIsTooLong"
)

type Violation struct {
	Code    Code
	Message string
}

// Violations is the aggregated result of one rule-set evaluation.
// A non-empty value is an error.
type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, len(v))
	for i, viol := range v {
		msgs[i] = viol.Message
	}
	return fmt.Sprintf("rule violations: %s", strings.Join(msgs, "; "))
}

// Has reports whether the given rule is among the violations.
func (v Violations) Has(code Code) bool {
	for _, viol := range v {
		if viol.Code == code {
			return true
		}
	}
	return false
}

// AsError returns v as an error, or nil when no rule was violated. A typed
// nil Violations must not escape as a non-nil error value.
func (v Violations) AsError() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func violated(v Violations, code Code, message string) Violations {
	return append(v, Violation{Code: code, Message: message})
}
