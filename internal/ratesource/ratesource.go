// Package ratesource wraps a plain exchange rate fetch function in the policies needed to
// depend on an unreliable upstream: a daily cache, a fallback that normalises failures,
// a circuit breaker and a bounded retry. Every policy is a standalone decorator around
// a FetchFunc and can be used and tested on its own; New composes them in order.
package ratesource

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/SscSPs/account_exchange/internal/core/ports/gateways"
)

// FetchFunc fetches the current rate of currency from table.
// Implementations must be safe for concurrent use.
type FetchFunc func(ctx context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error)

// FetchRate lets a FetchFunc be used as a gateways.RateSource.
func (f FetchFunc) FetchRate(ctx context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
	return f(ctx, table, currency)
}

var _ gateways.RateSource = FetchFunc(nil)

// Config holds the settings of every policy of the pipeline.
type Config struct {
	// Name identifies the upstream endpoint guarded by the circuit breaker.
	Name    string
	Retry   RetryPolicy
	Breaker BreakerSettings

	// Clock and Sleep replace wall-clock time, mostly for tests. Nil means real time.
	Clock func() time.Time
	Sleep Sleeper
}

// Source is the composed rate pipeline:
//
//	cache -> fallback -> circuit breaker -> retry -> logging -> upstream
type Source struct {
	cache   *Cache
	breaker *CircuitBreaker
}

var _ gateways.EvictingRateSource = (*Source)(nil)

// New composes the pipeline around upstream, caching rates in store.
func New(upstream FetchFunc, store RateStore, cfg Config, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "ratesource"), slog.String("upstream", cfg.Name))

	breakerOpts := []BreakerOption{WithBreakerLogger(logger)}
	if cfg.Clock != nil {
		breakerOpts = append(breakerOpts, WithClock(cfg.Clock))
	}
	breaker := NewCircuitBreaker(cfg.Name, cfg.Breaker, breakerOpts...)

	retryOpts := []RetryOption{WithGate(breaker), WithRetryLogger(logger)}
	if cfg.Sleep != nil {
		retryOpts = append(retryOpts, WithSleeper(cfg.Sleep))
	}
	retrier := NewRetrier(Logging(upstream, logger), cfg.Retry, retryOpts...)

	guarded := breaker.Wrap(retrier.FetchRate)
	return &Source{
		cache:   NewCache(Fallback(guarded, logger), store, logger),
		breaker: breaker,
	}
}

// FetchRate returns the cached rate or fetches it through the resilience policies.
func (s *Source) FetchRate(ctx context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
	return s.cache.FetchRate(ctx, table, currency)
}

// EvictAll drops every cached rate.
func (s *Source) EvictAll(ctx context.Context) error {
	return s.cache.EvictAll(ctx)
}
