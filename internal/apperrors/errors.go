package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrAccountNotFound indicates that an account identifier did not resolve to an account.
var ErrAccountNotFound = errors.New("account not found")

// ErrUnsupportedCurrency indicates that no exchange rate table publishes the requested currency.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ErrCurrencyMismatch indicates arithmetic between two different currencies without a conversion step.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrCurrencyConversion indicates that a conversion was requested that the configured
// base currency cannot serve.
var ErrCurrencyConversion = errors.New("currency conversion error")

// ErrRateSourceUnavailable indicates that exchange rates could not be obtained from the upstream
// provider, either because retries were exhausted or because the circuit is open.
var ErrRateSourceUnavailable = errors.New("exchange rate service unavailable")

// ErrCircuitOpen is returned by the circuit breaker when a call is rejected without reaching the upstream.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CurrencyConversionError reports a conversion between From and To that cannot be performed.
type CurrencyConversionError struct {
	From string
	To   string
}

// NewCurrencyConversionError creates a CurrencyConversionError for the given currency codes.
func NewCurrencyConversionError(from, to string) *CurrencyConversionError {
	return &CurrencyConversionError{From: from, To: to}
}

func (e *CurrencyConversionError) Error() string {
	return fmt.Sprintf("cannot convert currency from %s to %s", e.From, e.To)
}

// Is makes errors.Is(err, ErrCurrencyConversion) match.
func (e *CurrencyConversionError) Is(target error) bool {
	return target == ErrCurrencyConversion
}
