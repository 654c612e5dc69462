package scheduler

import (
	"context"

	portssvc "github.com/SscSPs/account_exchange/internal/core/ports/services"
)

// EvictExchangeRatesJob clears the exchange rate cache so every day starts with fresh rates.
type EvictExchangeRatesJob struct {
	housekeeping portssvc.HousekeepingSvc
}

func NewEvictExchangeRatesJob(housekeeping portssvc.HousekeepingSvc) *EvictExchangeRatesJob {
	return &EvictExchangeRatesJob{housekeeping: housekeeping}
}

func (j *EvictExchangeRatesJob) Name() string {
	return "evict-exchange-rates"
}

func (j *EvictExchangeRatesJob) Run(ctx context.Context) error {
	return j.housekeeping.EvictExchangeRates(ctx)
}
