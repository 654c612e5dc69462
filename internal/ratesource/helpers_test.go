package ratesource_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/shopspring/decimal"
)

var errUpstream = errors.New("upstream returned 503")

// fakeUpstream replays the queued results in order and repeats the last one afterwards.
type fakeUpstream struct {
	mu      sync.Mutex
	results []error
	calls   atomic.Int32
}

func newFakeUpstream(results ...error) *fakeUpstream {
	return &fakeUpstream{results: results}
}

func (f *fakeUpstream) fetch(_ context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
	n := int(f.calls.Add(1))

	f.mu.Lock()
	var err error
	if len(f.results) > 0 {
		idx := n - 1
		if idx >= len(f.results) {
			idx = len(f.results) - 1
		}
		err = f.results[idx]
	}
	f.mu.Unlock()

	if err != nil {
		return domain.Rate{}, err
	}
	return testRate(table, currency), nil
}

func (f *fakeUpstream) count() int {
	return int(f.calls.Load())
}

func testRate(table domain.RateTable, currency domain.Currency) domain.Rate {
	return domain.Rate{
		Currency: currency,
		Table:    table,
		Mid:      decimal.RequireFromString("4.00"),
		ValidOn:  time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingSleeper records requested waits without sleeping.
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.waits...)
}
