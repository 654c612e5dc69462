package gateways

import (
	"context"

	"github.com/SscSPs/account_exchange/internal/core/domain"
)

// RateSource fetches the current reference rate of a currency from a rate table.
type RateSource interface {
	FetchRate(ctx context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error)
}

// RateEvictor drops every cached rate. Calling it repeatedly has the same effect as calling it once.
type RateEvictor interface {
	EvictAll(ctx context.Context) error
}

// EvictingRateSource is a RateSource whose cached rates can be evicted in bulk.
type EvictingRateSource interface {
	RateSource
	RateEvictor
}
