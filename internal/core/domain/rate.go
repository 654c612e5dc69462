package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/shopspring/decimal"
)

// RateTable identifies one of the exchange rate tables published by the national bank.
type RateTable string

const (
	// TableA holds mid rates of the most traded currencies, published every business day.
	TableA RateTable = "A"
	// TableB holds mid rates of less common currencies, published weekly.
	TableB RateTable = "B"
	// TableC holds bid/ask rates for a subset of table A currencies.
	TableC RateTable = "C"
)

// Rate is the reference rate of Currency, quoted as the number of base currency units
// for one unit of Currency. A Rate is valid only for the day it was published for.
type Rate struct {
	Currency Currency        `json:"currency"`
	Table    RateTable       `json:"table"`
	Mid      decimal.Decimal `json:"mid"`
	ValidOn  time.Time       `json:"validOn"`
}

// Validate checks that the rate can be used for arithmetic.
func (r Rate) Validate() error {
	if !r.Mid.IsPositive() {
		return fmt.Errorf("%w: rate for %s must be positive, got %s", apperrors.ErrValidation, r.Currency, r.Mid)
	}
	return nil
}

// tables is the static assignment of currencies to the table that publishes them.
var tables = map[Currency]RateTable{}

func init() {
	for _, code := range []Currency{
		"THB", "USD", "AUD", "HKD", "CAD", "NZD", "SGD", "EUR", "HUF", "CHF", "GBP",
		"UAH", "JPY", "CZK", "DKK", "ISK", "NOK", "SEK", "RON", "BGN", "TRY", "ILS",
		"CLP", "PHP", "MXN", "ZAR", "BRL", "MYR", "IDR", "INR", "KRW", "CNY", "XDR",
	} {
		tables[code] = TableA
	}
	for _, code := range []Currency{
		"AFN", "MGA", "PAB", "ETB", "VES", "BOB", "CRC", "SVC", "NIO", "GMD", "MKD",
		"DZD", "BHD", "IQD", "JOD", "KWD", "LYD", "RSD", "TND", "MAD", "AED", "STN",
		"BSD", "BBD", "BZD", "BND", "FJD", "GYD", "JMD", "LRD", "NAD", "SRD", "TTD",
		"XCD", "SBD", "VND", "AMD", "CVE", "AWG", "BIF", "XOF", "XAF", "XPF", "DJF",
		"GNF", "KMF", "CDF", "RWF", "EGP", "GIP", "LBP", "SSP", "SDG", "SYP", "GHS",
		"HTG", "PYG", "ANG", "PGK", "LAK", "MWK", "ZMW", "AOA", "MMK", "GEL", "MDL",
		"ALL", "HNL", "SLE", "SZL", "LSL", "AZN", "MZN", "NGN", "ERN", "TWD", "TMT",
		"MRU", "TOP", "MOP", "ARS", "DOP", "COP", "CUP", "UYU", "BWP", "GTQ", "IRR",
		"YER", "QAR", "OMR", "SAR", "KHR", "BYN", "RUB", "LKR", "MVR", "MUR", "NPR",
		"PKR", "SCR", "PEN", "KGS", "TJS", "UZS", "KES", "SOS", "TZS", "UGX", "BDT",
		"WST", "KZT", "MNT", "VUV", "BAM",
	} {
		tables[code] = TableB
	}
}

// TableFor returns the rate table that publishes currency.
func TableFor(currency Currency) (RateTable, error) {
	table, ok := tables[currency]
	if !ok {
		return "", fmt.Errorf("%w: no exchange rate table publishes %s", apperrors.ErrUnsupportedCurrency, currency)
	}
	return table, nil
}

// ExchangeRate converts From into To: one unit of From is worth Numerator/Denominator units of To.
// Keeping the fraction unevaluated lets Money apply it with a single rounding step.
type ExchangeRate struct {
	From        Currency
	To          Currency
	Numerator   decimal.Decimal
	Denominator decimal.Decimal
}

// FromBase builds the rate converting the base currency into the quoted currency of r.
func FromBase(base Currency, r Rate) ExchangeRate {
	return ExchangeRate{From: base, To: r.Currency, Numerator: decimal.NewFromInt(1), Denominator: r.Mid}
}

// ToBase builds the rate converting the quoted currency of r into the base currency.
func ToBase(base Currency, r Rate) ExchangeRate {
	return ExchangeRate{From: r.Currency, To: base, Numerator: r.Mid, Denominator: decimal.NewFromInt(1)}
}

// CrossRate builds the rate converting from.Currency into to.Currency through the common base.
func CrossRate(from, to Rate) ExchangeRate {
	return ExchangeRate{From: from.Currency, To: to.Currency, Numerator: from.Mid, Denominator: to.Mid}
}

// Value returns Numerator/Denominator, for display only.
func (x ExchangeRate) Value() decimal.Decimal {
	return x.Numerator.DivRound(x.Denominator, 8)
}
