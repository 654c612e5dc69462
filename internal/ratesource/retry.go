package ratesource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the number of attempts and the wait between them.
// The wait doubles after every failed attempt, starting at InitialBackoff and capped at MaxBackoff.
// Non-positive durations fall back to DefaultRetryPolicy.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy makes three attempts, waiting 200ms and then 400ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialBackoff: 200 * time.Millisecond, MaxBackoff: 2 * time.Second}
}

func (p RetryPolicy) normalized() RetryPolicy {
	defaults := DefaultRetryPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = defaults.InitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = defaults.MaxBackoff
	}
	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = p.InitialBackoff
	}
	return p
}

// exponential builds the deterministic wait sequence of the policy.
func (p RetryPolicy) exponential() *backoff.ExponentialBackOff {
	p = p.normalized()
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialBackoff
	b.MaxInterval = p.MaxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Backoff returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	b := p.exponential()
	wait := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		wait = b.NextBackOff()
	}
	return wait
}

// Gate tells the retrier whether further attempts are allowed.
type Gate interface {
	IsOpen() bool
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// sleeperTimer drives the backoff loop with a Sleeper instead of a wall-clock timer.
type sleeperTimer struct {
	ctx   context.Context
	sleep Sleeper
	c     chan time.Time
}

func (t *sleeperTimer) Start(d time.Duration) {
	c := make(chan time.Time, 1)
	t.c = c
	go func() {
		if t.sleep(t.ctx, d) == nil {
			c <- time.Now()
		}
	}()
}

func (t *sleeperTimer) Stop() {}

func (t *sleeperTimer) C() <-chan time.Time {
	return t.c
}

// IsRetryable reports whether err is a transient failure worth another attempt.
// A currency the upstream does not publish will not appear on a retry.
func IsRetryable(err error) bool {
	return err != nil && !errors.Is(err, apperrors.ErrUnsupportedCurrency)
}

// Retrier decorates a FetchFunc with bounded retries of transient failures.
type Retrier struct {
	next   FetchFunc
	policy RetryPolicy
	gate   Gate
	sleep  Sleeper
	logger *slog.Logger
}

// RetryOption is a functional option for configuring the Retrier
type RetryOption func(*Retrier)

// WithGate stops retrying as soon as gate reports open.
func WithGate(gate Gate) RetryOption {
	return func(r *Retrier) {
		r.gate = gate
	}
}

// WithSleeper replaces the wait between attempts.
func WithSleeper(sleep Sleeper) RetryOption {
	return func(r *Retrier) {
		r.sleep = sleep
	}
}

func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(r *Retrier) {
		r.logger = logger
	}
}

// NewRetrier creates a Retrier around next. A policy with fewer than one attempt makes a single attempt.
func NewRetrier(next FetchFunc, policy RetryPolicy, options ...RetryOption) *Retrier {
	r := &Retrier{
		next:   next,
		policy: policy.normalized(),
		logger: slog.Default(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *Retrier) backOff(ctx context.Context) backoff.BackOffContext {
	retries := uint64(r.policy.MaxAttempts - 1)
	return backoff.WithContext(backoff.WithMaxRetries(r.policy.exponential(), retries), ctx)
}

// timer is nil without a Sleeper so the backoff package uses a real timer.
func (r *Retrier) timer(ctx context.Context) backoff.Timer {
	if r.sleep == nil {
		return nil
	}
	return &sleeperTimer{ctx: ctx, sleep: r.sleep}
}

// FetchRate calls next until it succeeds, fails permanently, the attempt budget is spent
// or the gate opens. The last failure is returned.
func (r *Retrier) FetchRate(ctx context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
	var (
		rate      domain.Rate
		lastErr   error
		attempts  int
		permanent bool
		gateOpen  bool
	)

	operation := func() error {
		attempts++
		var err error
		rate, err = r.next(ctx, table, currency)
		if err == nil {
			return nil
		}
		lastErr = err

		switch {
		case !IsRetryable(err) || ctx.Err() != nil:
			permanent = true
			return backoff.Permanent(err)
		case r.gate != nil && r.gate.IsOpen():
			gateOpen = true
			r.logger.Warn("Circuit opened, abandoning retries",
				slog.String("table", string(table)),
				slog.String("currency", string(currency)),
				slog.Int("attempt", attempts))
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		r.logger.Warn("Fetching exchange rate failed, retrying",
			slog.String("table", string(table)),
			slog.String("currency", string(currency)),
			slog.Int("attempt", attempts),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	}

	err := backoff.RetryNotifyWithTimer(operation, r.backOff(ctx), notify, r.timer(ctx))
	switch {
	case err == nil:
		return rate, nil
	case permanent:
		return domain.Rate{}, err
	case gateOpen:
		return domain.Rate{}, fmt.Errorf("circuit opened after %d attempts: %w", attempts, lastErr)
	case ctx.Err() != nil:
		return domain.Rate{}, fmt.Errorf("retry interrupted after %d attempts: %w", attempts, lastErr)
	}
	return domain.Rate{}, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
