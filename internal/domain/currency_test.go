package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyIsSupported(t *testing.T) {
	tests := []struct {
		currency Currency
		want     bool
	}{
		{CurrencyRUB, true},
		{CurrencyUSD, true},
		{CurrencyEUR, true},
		{Currency("GBP"), false},
		{Currency("rub"), false},
		{Currency(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.currency), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.currency.IsSupported())
		})
	}
}
