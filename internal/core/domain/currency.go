package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/account_exchange/internal/apperrors"
)

// Currency is an ISO 4217 alphabetic currency code, e.g. "PLN".
type Currency string

// minorUnits maps every known ISO 4217 code to the number of digits of its minor unit.
// Codes absent from the map are unknown to the system.
var minorUnits = map[Currency]int32{
	// zero-decimal currencies
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0, "KRW": 0,
	"PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	// three-decimal currencies
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	// two-decimal currencies
	"AED": 2, "AFN": 2, "ALL": 2, "AMD": 2, "ANG": 2, "AOA": 2, "ARS": 2, "AUD": 2,
	"AWG": 2, "AZN": 2, "BAM": 2, "BBD": 2, "BDT": 2, "BGN": 2, "BND": 2, "BOB": 2,
	"BRL": 2, "BSD": 2, "BTN": 2, "BWP": 2, "BYN": 2, "BZD": 2, "CAD": 2, "CDF": 2,
	"CHF": 2, "CNY": 2, "COP": 2, "CRC": 2, "CUP": 2, "CVE": 2, "CZK": 2, "DKK": 2,
	"DOP": 2, "DZD": 2, "EGP": 2, "ERN": 2, "ETB": 2, "EUR": 2, "FJD": 2, "GBP": 2,
	"GEL": 2, "GHS": 2, "GIP": 2, "GMD": 2, "GTQ": 2, "GYD": 2, "HKD": 2, "HNL": 2,
	"HTG": 2, "HUF": 2, "IDR": 2, "ILS": 2, "INR": 2, "IRR": 2, "JMD": 2, "KES": 2,
	"KGS": 2, "KHR": 2, "KPW": 2, "KZT": 2, "LAK": 2, "LBP": 2, "LKR": 2, "LRD": 2,
	"LSL": 2, "MAD": 2, "MDL": 2, "MGA": 2, "MKD": 2, "MMK": 2, "MNT": 2, "MOP": 2,
	"MRU": 2, "MUR": 2, "MVR": 2, "MWK": 2, "MXN": 2, "MYR": 2, "MZN": 2, "NAD": 2,
	"NGN": 2, "NIO": 2, "NOK": 2, "NPR": 2, "NZD": 2, "PAB": 2, "PEN": 2, "PGK": 2,
	"PHP": 2, "PKR": 2, "PLN": 2, "QAR": 2, "RON": 2, "RSD": 2, "RUB": 2, "SAR": 2,
	"SBD": 2, "SCR": 2, "SDG": 2, "SEK": 2, "SGD": 2, "SLE": 2, "SOS": 2, "SRD": 2,
	"SSP": 2, "STN": 2, "SVC": 2, "SYP": 2, "SZL": 2, "THB": 2, "TJS": 2, "TMT": 2,
	"TOP": 2, "TRY": 2, "TTD": 2, "TWD": 2, "TZS": 2, "UAH": 2, "USD": 2, "UYU": 2,
	"UZS": 2, "VES": 2, "WST": 2, "XCD": 2, "XDR": 2, "YER": 2, "ZAR": 2, "ZMW": 2,
}

// ParseCurrency normalises code to upper case and checks that it is a known ISO 4217 code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if len(c) != 3 {
		return "", fmt.Errorf("%w: currency code must be 3 letters, got '%s'", apperrors.ErrValidation, code)
	}
	if _, ok := minorUnits[c]; !ok {
		return "", fmt.Errorf("%w: unknown currency code '%s'", apperrors.ErrValidation, code)
	}
	return c, nil
}

// MustParseCurrency is like ParseCurrency but panics on error. Intended for constants and tests.
func MustParseCurrency(code string) Currency {
	c, err := ParseCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// IsKnownCurrency reports whether code is a known ISO 4217 code.
func IsKnownCurrency(code string) bool {
	_, err := ParseCurrency(code)
	return err == nil
}

// MinorUnits returns the number of decimal places of the currency's minor unit.
// Unknown currencies default to 2.
func (c Currency) MinorUnits() int32 {
	if digits, ok := minorUnits[c]; ok {
		return digits
	}
	return 2
}

func (c Currency) String() string {
	return string(c)
}
