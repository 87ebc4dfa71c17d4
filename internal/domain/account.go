package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccount references its owner by id only; incoming/outgoing transactions
// are obtained through ledger queries, never materialized on the account.
type BankAccount struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Balance  decimal.Decimal
	Currency Currency
	IsActive bool
	// Version is bumped on every balance update and checked by the
	// repository to detect lost updates.
	Version  int64
	OpenedAt time.Time
	ClosedAt *time.Time
}

// OpeningBalance is credited to every newly opened account.
var OpeningBalance = decimal.NewFromFloat(100.00)
