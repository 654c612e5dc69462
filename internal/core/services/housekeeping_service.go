package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/account_exchange/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/account_exchange/internal/core/ports/services"
)

type housekeepingService struct {
	BaseService
	evictor gateways.RateEvictor
}

// NewHousekeepingService creates the maintenance service.
func NewHousekeepingService(evictor gateways.RateEvictor) portssvc.HousekeepingSvc {
	return &housekeepingService{evictor: evictor}
}

// EvictExchangeRates drops every cached exchange rate so the next lookup fetches the current day's rates.
func (s *housekeepingService) EvictExchangeRates(ctx context.Context) error {
	start := time.Now()
	if err := s.evictor.EvictAll(ctx); err != nil {
		s.LogError(ctx, err, "Failed to evict exchange rates")
		return fmt.Errorf("evicting exchange rates: %w", err)
	}
	s.LogInfo(ctx, "Exchange rates evicted", slog.Duration("took", time.Since(start)))
	return nil
}
