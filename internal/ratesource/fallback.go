package ratesource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
)

// Fallback decorates next so that every infrastructure failure surfaces as
// apperrors.ErrRateSourceUnavailable. The original error is logged and not wrapped,
// so transport details never reach callers. Unsupported currencies pass through unchanged.
func Fallback(next FetchFunc, logger *slog.Logger) FetchFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
		rate, err := next(ctx, table, currency)
		if err == nil {
			return rate, nil
		}
		if errors.Is(err, apperrors.ErrUnsupportedCurrency) {
			return domain.Rate{}, err
		}

		logger.Error("Exchange rate source unavailable, using fallback",
			slog.String("table", string(table)),
			slog.String("currency", string(currency)),
			slog.Bool("circuit_open", errors.Is(err, apperrors.ErrCircuitOpen)),
			slog.String("error", err.Error()))
		return domain.Rate{}, fmt.Errorf("%w: rate of %s from table %s could not be fetched",
			apperrors.ErrRateSourceUnavailable, currency, table)
	}
}
