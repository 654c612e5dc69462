package ratesource

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/account_exchange/internal/core/domain"
)

// Logging decorates next with a log line per call.
func Logging(next FetchFunc, logger *slog.Logger) FetchFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, table domain.RateTable, currency domain.Currency) (rate domain.Rate, err error) {
		defer func(begin time.Time) {
			attrs := []any{
				slog.String("method", "fetch_rate"),
				slog.String("table", string(table)),
				slog.String("currency", string(currency)),
				slog.Duration("took", time.Since(begin)),
			}
			if err != nil {
				logger.Warn("Upstream exchange rate call failed", append(attrs, slog.String("error", err.Error()))...)
				return
			}
			logger.Debug("Upstream exchange rate call succeeded", append(attrs, slog.String("mid", rate.Mid.String()))...)
		}(time.Now())
		return next(ctx, table, currency)
	}
}
