package domain

import (
	"context"
	"fmt"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ExchangeRateProvider supplies the rate needed to convert between two currencies.
type ExchangeRateProvider interface {
	ExchangeRate(ctx context.Context, from, to Currency) (ExchangeRate, error)
}

// Money is an immutable amount tagged with a currency. The amount always carries
// the scale of the currency's minor unit.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// MoneyKey is a comparable representation of Money, usable as a map key.
type MoneyKey struct {
	Amount   string
	Currency Currency
}

// NewMoney rounds amount half-up to the minor unit of currency.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount.Round(currency.MinorUnits()), currency: currency}
}

// ParseMoney builds Money from a decimal string and a currency code.
func ParseMoney(amount, currencyCode string) (Money, error) {
	currency, err := ParseCurrency(currencyCode)
	if err != nil {
		return Money{}, err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount '%s'", apperrors.ErrValidation, amount)
	}
	return NewMoney(value, currency), nil
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() Currency {
	return m.currency
}

// AmountString renders the amount with exactly the currency's minor-unit scale, e.g. "25.00".
func (m Money) AmountString() string {
	return m.amount.StringFixed(m.currency.MinorUnits())
}

func (m Money) String() string {
	return m.AmountString() + " " + string(m.currency)
}

// Equal reports whether both values carry the same currency and numerically equal amounts.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Key returns a value-based key; equal Money values produce equal keys.
func (m Money) Key() MoneyKey {
	return MoneyKey{Amount: m.AmountString(), Currency: m.currency}
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency), nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency), nil
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s and %s", apperrors.ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}

// Convert returns m expressed in target. Converting into the same currency returns m
// without consulting the provider; provider errors are returned unchanged.
func (m Money) Convert(ctx context.Context, provider ExchangeRateProvider, target Currency) (Money, error) {
	if m.currency == target {
		return m, nil
	}
	rate, err := provider.ExchangeRate(ctx, m.currency, target)
	if err != nil {
		return Money{}, err
	}
	return m.ConvertAt(rate)
}

// ConvertAt applies rate to m. The amount is multiplied and divided exactly and
// rounded half-up once, to the minor unit of rate.To.
func (m Money) ConvertAt(rate ExchangeRate) (Money, error) {
	if rate.From != m.currency {
		return Money{}, fmt.Errorf("%w: rate converts from %s, money is in %s", apperrors.ErrCurrencyMismatch, rate.From, m.currency)
	}
	if !rate.Numerator.IsPositive() || !rate.Denominator.IsPositive() {
		return Money{}, fmt.Errorf("%w: exchange rate %s -> %s must be positive", apperrors.ErrValidation, rate.From, rate.To)
	}
	places := rate.To.MinorUnits()
	scaled := m.amount.Mul(rate.Numerator).Shift(places)
	return Money{amount: divRoundHalfUp(scaled, rate.Denominator).Shift(-places), currency: rate.To}, nil
}

// divRoundHalfUp divides n by d and rounds the quotient to an integer, halves away from zero.
func divRoundHalfUp(n, d decimal.Decimal) decimal.Decimal {
	q, r := n.QuoRem(d, 0)
	if r.Abs().Mul(decimal.NewFromInt(2)).GreaterThanOrEqual(d.Abs()) {
		if n.Sign()*d.Sign() < 0 {
			return q.Sub(decimal.NewFromInt(1))
		}
		return q.Add(decimal.NewFromInt(1))
	}
	return q
}
