package services

import (
	"context"

	"github.com/SscSPs/account_exchange/internal/core/domain"
)

// CurrencyConversionSvc converts money between currencies using published reference rates.
type CurrencyConversionSvc interface {
	domain.ExchangeRateProvider

	// Convert returns money expressed in target. Same-currency conversions never consult the rate source.
	Convert(ctx context.Context, money domain.Money, target domain.Currency) (domain.Money, error)
}

// HousekeepingSvc exposes maintenance operations triggered by an external scheduler.
type HousekeepingSvc interface {
	// EvictExchangeRates clears every cached exchange rate.
	EvictExchangeRates(ctx context.Context) error
}
