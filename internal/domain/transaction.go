package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a ledger entry for one transfer. Amount is the gross amount
// requested by the sender, in the source account's currency, before
// commission. Entries are immutable once written.
type Transaction struct {
	ID            uuid.UUID
	Amount        decimal.Decimal
	Currency      Currency
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	CreatedAt     time.Time
}
