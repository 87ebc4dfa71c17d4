package exchange

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"minibank/internal/domain"
)

type rateSource interface {
	Rate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error)
	Knows(ctx context.Context, currency domain.Currency) (bool, error)
}

// Converter converts amounts between currencies using RUB as the pivot.
// It applies no rounding; callers round when crediting a balance.
type Converter struct {
	rates rateSource
}

func NewConverter(rates rateSource) *Converter {
	return &Converter{rates: rates}
}

func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error) {
	if err := c.validate(ctx, amount, from, to); err != nil {
		return decimal.Zero, fmt.Errorf("Convert: %w", err)
	}

	// Identity covers RUB->RUB as well, so every branch below has exactly
	// one side in RUB or neither.
	if from == to {
		return amount, nil
	}

	if from != domain.CurrencyRUB && to != domain.CurrencyRUB {
		fromInRub, err := c.rates.Rate(ctx, from)
		if err != nil {
			return decimal.Zero, fmt.Errorf("Convert: %w", err)
		}
		toInRub, err := c.rates.Rate(ctx, to)
		if err != nil {
			return decimal.Zero, fmt.Errorf("Convert: %w", err)
		}
		return amount.Mul(fromInRub).Div(toInRub), nil
	}

	if from != domain.CurrencyRUB {
		fromInRub, err := c.rates.Rate(ctx, from)
		if err != nil {
			return decimal.Zero, fmt.Errorf("Convert: %w", err)
		}
		return amount.Mul(fromInRub), nil
	}

	toInRub, err := c.rates.Rate(ctx, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Convert: %w", err)
	}
	return amount.Div(toInRub), nil
}

func (c *Converter) validate(ctx context.Context, amount decimal.Decimal, from, to domain.Currency) error {
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}

	if from != domain.CurrencyRUB {
		known, err := c.rates.Knows(ctx, from)
		if err != nil {
			return err
		}
		if !known {
			return fmt.Errorf("source currency %s: %w", from, domain.ErrUnknownCurrency)
		}
	}

	if to != domain.CurrencyRUB {
		known, err := c.rates.Knows(ctx, to)
		if err != nil {
			return err
		}
		if !known {
			return fmt.Errorf("target currency %s: %w", to, domain.ErrUnknownCurrency)
		}
	}

	return nil
}
