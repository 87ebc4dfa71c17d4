package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCurrency = errors.New("unknown currency code")
	ErrRateSource      = errors.New("exchange rate source returned no data")
	ErrDuplicateUser   = errors.New("login or email already taken")
	ErrUserHasAccounts = errors.New("user still has active accounts")
	ErrVersionConflict = errors.New("optimistic lock conflict")
)
