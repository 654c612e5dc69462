package ratesource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
)

// State is the state of a circuit breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// BreakerSettings configures a CircuitBreaker.
type BreakerSettings struct {
	// WindowSize is the number of most recent outcomes the failure rate is computed over.
	WindowSize int
	// MinimumCalls is the number of recorded outcomes required before the rate is judged.
	MinimumCalls int
	// FailureRateThreshold opens the circuit when failures/outcomes reaches it (0 < t <= 1).
	FailureRateThreshold float64
	// Cooldown is how long the circuit stays open before letting a trial call through.
	Cooldown time.Duration
}

// DefaultBreakerSettings opens the circuit when half of the last 10 calls failed, judged after 5 calls.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{WindowSize: 10, MinimumCalls: 5, FailureRateThreshold: 0.5, Cooldown: 30 * time.Second}
}

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeFailure
	// outcomeIgnored is a call abandoned by its caller; it says nothing about the upstream.
	outcomeIgnored
)

// CircuitBreaker tracks a rolling window of call outcomes for one upstream endpoint and
// rejects calls while the endpoint is considered broken. All state changes happen under one lock.
type CircuitBreaker struct {
	name     string
	settings BreakerSettings
	now      func() time.Time
	logger   *slog.Logger

	lock     sync.Mutex
	state    State
	window   []bool // true marks a failure
	next     int
	filled   int
	failures int
	openedAt time.Time
	inTrial  bool

	// epoch changes whenever the window is reset; outcomes of calls admitted in an
	// earlier epoch are dropped.
	epoch uint64
}

// admission identifies an admitted call.
type admission struct {
	trial bool
	epoch uint64
}

// BreakerOption is a functional option for configuring the CircuitBreaker
type BreakerOption func(*CircuitBreaker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) BreakerOption {
	return func(b *CircuitBreaker) {
		b.now = now
	}
}

func WithBreakerLogger(logger *slog.Logger) BreakerOption {
	return func(b *CircuitBreaker) {
		b.logger = logger
	}
}

// NewCircuitBreaker creates a closed circuit breaker. Invalid settings fall back to the defaults.
func NewCircuitBreaker(name string, settings BreakerSettings, options ...BreakerOption) *CircuitBreaker {
	defaults := DefaultBreakerSettings()
	if settings.WindowSize < 1 {
		settings.WindowSize = defaults.WindowSize
	}
	if settings.MinimumCalls < 1 {
		settings.MinimumCalls = defaults.MinimumCalls
	}
	if settings.MinimumCalls > settings.WindowSize {
		settings.MinimumCalls = settings.WindowSize
	}
	if settings.FailureRateThreshold <= 0 || settings.FailureRateThreshold > 1 {
		settings.FailureRateThreshold = defaults.FailureRateThreshold
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = defaults.Cooldown
	}

	b := &CircuitBreaker{
		name:     name,
		settings: settings,
		now:      time.Now,
		logger:   slog.Default(),
		window:   make([]bool, settings.WindowSize),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// Wrap decorates next with the breaker. Rejected calls fail with apperrors.ErrCircuitOpen
// without calling next and without being recorded.
func (b *CircuitBreaker) Wrap(next FetchFunc) FetchFunc {
	return func(ctx context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
		call, err := b.acquire()
		if err != nil {
			return domain.Rate{}, err
		}
		rate, err := next(ctx, table, currency)
		b.record(call, classify(ctx, err))
		return rate, err
	}
}

func classify(ctx context.Context, err error) outcome {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, apperrors.ErrUnsupportedCurrency):
		// the upstream answered, it just does not publish the currency
		return outcomeSuccess
	case ctx.Err() != nil:
		return outcomeIgnored
	default:
		return outcomeFailure
	}
}

// State returns the current state. An open circuit whose cooldown elapsed reports
// half-open, since the next call will be let through as a trial call.
func (b *CircuitBreaker) State() State {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.state == StateOpen && b.cooldownElapsed() {
		return StateHalfOpen
	}
	return b.state
}

// IsOpen reports whether calls are currently being rejected.
func (b *CircuitBreaker) IsOpen() bool {
	return b.State() == StateOpen
}

// acquire admits or rejects a call. Only one trial call is admitted while half-open.
func (b *CircuitBreaker) acquire() (admission, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	switch b.state {
	case StateClosed:
		return admission{epoch: b.epoch}, nil
	case StateOpen:
		if !b.cooldownElapsed() {
			return admission{}, b.rejection()
		}
		b.transition(StateHalfOpen)
	}

	if b.inTrial {
		return admission{}, b.rejection()
	}
	b.inTrial = true
	return admission{trial: true, epoch: b.epoch}, nil
}

func (b *CircuitBreaker) record(call admission, result outcome) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if call.trial {
		b.inTrial = false
		if b.state != StateHalfOpen {
			return
		}
		switch result {
		case outcomeSuccess:
			b.resetWindow()
			b.transition(StateClosed)
		case outcomeFailure:
			b.trip()
		}
		return
	}

	// Calls admitted before the window was last reset belong to a window that no longer
	// exists, even when the circuit has closed again since.
	if call.epoch != b.epoch || b.state != StateClosed || result == outcomeIgnored {
		return
	}
	b.push(result == outcomeFailure)
	if b.filled >= b.settings.MinimumCalls && b.failureRate() >= b.settings.FailureRateThreshold {
		b.logger.Warn("Failure rate threshold reached",
			slog.String("breaker", b.name),
			slog.Int("failures", b.failures),
			slog.Int("calls", b.filled))
		b.trip()
	}
}

func (b *CircuitBreaker) push(failed bool) {
	if b.filled < len(b.window) {
		b.filled++
	} else if b.window[b.next] {
		b.failures--
	}
	b.window[b.next] = failed
	if failed {
		b.failures++
	}
	b.next = (b.next + 1) % len(b.window)
}

func (b *CircuitBreaker) failureRate() float64 {
	if b.filled == 0 {
		return 0
	}
	return float64(b.failures) / float64(b.filled)
}

func (b *CircuitBreaker) resetWindow() {
	for i := range b.window {
		b.window[i] = false
	}
	b.next, b.filled, b.failures = 0, 0, 0
	b.epoch++
}

func (b *CircuitBreaker) trip() {
	b.resetWindow()
	b.openedAt = b.now()
	b.transition(StateOpen)
}

func (b *CircuitBreaker) cooldownElapsed() bool {
	return b.now().Sub(b.openedAt) >= b.settings.Cooldown
}

func (b *CircuitBreaker) transition(to State) {
	if b.state == to {
		return
	}
	b.logger.Info("Circuit breaker state changed",
		slog.String("breaker", b.name),
		slog.String("from", b.state.String()),
		slog.String("to", to.String()))
	b.state = to
}

func (b *CircuitBreaker) rejection() error {
	return fmt.Errorf("%w: %s", apperrors.ErrCircuitOpen, b.name)
}
