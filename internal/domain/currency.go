package domain

// Currency is an ISO 4217 alphabetic code. Only the codes below are
// accepted for accounts and transfers.
type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// IsSupported reports whether accounts may be denominated in c.
func (c Currency) IsSupported() bool {
	switch c {
	case CurrencyRUB, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}
