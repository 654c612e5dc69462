package ratesource_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/SscSPs/account_exchange/internal/ratesource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SourceTestSuite struct {
	suite.Suite
	clock   *fakeClock
	sleeper *recordingSleeper
	store   *ratesource.MemoryStore
	ctx     context.Context
}

func (s *SourceTestSuite) SetupTest() {
	s.clock = newFakeClock()
	s.sleeper = &recordingSleeper{}
	s.store = ratesource.NewMemoryStore()
	s.ctx = context.Background()
}

func (s *SourceTestSuite) newSource(upstream *fakeUpstream) *ratesource.Source {
	return ratesource.New(upstream.fetch, s.store, ratesource.Config{
		Name:    "nbp-test",
		Retry:   ratesource.RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
		Breaker: ratesource.BreakerSettings{WindowSize: 10, MinimumCalls: 1, FailureRateThreshold: 0.5, Cooldown: time.Minute},
		Clock:   s.clock.Now,
		Sleep:   s.sleeper.sleep,
	}, nil)
}

func TestSourceTestSuite(t *testing.T) {
	suite.Run(t, new(SourceTestSuite))
}

func (s *SourceTestSuite) TestFailingUpstreamFailsFastWhileOpen() {
	upstream := newFakeUpstream(errUpstream)
	source := s.newSource(upstream)

	_, err := source.FetchRate(s.ctx, domain.TableA, "USD")
	s.ErrorIs(err, apperrors.ErrRateSourceUnavailable)
	s.NotErrorIs(err, errUpstream, "transport errors must not leak")
	s.Equal(3, upstream.count())
	s.Equal(ratesource.StateOpen, source.BreakerState())

	_, err = source.FetchRate(s.ctx, domain.TableA, "USD")
	s.ErrorIs(err, apperrors.ErrRateSourceUnavailable)
	s.Equal(3, upstream.count(), "open circuit must not call the upstream")
}

func (s *SourceTestSuite) TestRecoversAfterCooldown() {
	upstream := newFakeUpstream(errUpstream, errUpstream, errUpstream, nil)
	source := s.newSource(upstream)

	_, err := source.FetchRate(s.ctx, domain.TableA, "USD")
	s.Require().ErrorIs(err, apperrors.ErrRateSourceUnavailable)

	s.clock.Advance(time.Minute)
	rate, err := source.FetchRate(s.ctx, domain.TableA, "USD")
	s.Require().NoError(err)
	s.Equal(domain.Currency("USD"), rate.Currency)
	s.Equal(ratesource.StateClosed, source.BreakerState())
	s.Equal(4, upstream.count())

	_, err = source.FetchRate(s.ctx, domain.TableA, "USD")
	s.NoError(err)
	s.Equal(4, upstream.count(), "second lookup must be served from the cache")
}

func (s *SourceTestSuite) TestTransientFailuresAreRetried() {
	upstream := newFakeUpstream(errUpstream, errUpstream, nil)
	source := s.newSource(upstream)

	rate, err := source.FetchRate(s.ctx, domain.TableA, "USD")

	s.Require().NoError(err)
	s.True(rate.Mid.Equal(testRate(domain.TableA, "USD").Mid))
	s.Equal(3, upstream.count())
	s.Equal(ratesource.StateClosed, source.BreakerState())
	s.Len(s.sleeper.recorded(), 2)
	s.Equal(1, s.store.Len())
}

func (s *SourceTestSuite) TestUnsupportedCurrencyPassesThroughUncached() {
	upstream := newFakeUpstream(fmt.Errorf("%w: XYZ", apperrors.ErrUnsupportedCurrency))
	source := s.newSource(upstream)

	_, err := source.FetchRate(s.ctx, domain.TableA, "XYZ")
	s.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
	s.NotErrorIs(err, apperrors.ErrRateSourceUnavailable)

	_, err = source.FetchRate(s.ctx, domain.TableA, "XYZ")
	s.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
	s.Equal(2, upstream.count())
	s.Equal(ratesource.StateClosed, source.BreakerState())
}

func (s *SourceTestSuite) TestCachedRatesServedWhileOpen() {
	upstream := newFakeUpstream(nil, errUpstream)
	source := s.newSource(upstream)

	_, err := source.FetchRate(s.ctx, domain.TableA, "USD")
	s.Require().NoError(err)

	_, err = source.FetchRate(s.ctx, domain.TableA, "EUR")
	s.Require().ErrorIs(err, apperrors.ErrRateSourceUnavailable)
	s.Require().Equal(ratesource.StateOpen, source.BreakerState())

	rate, err := source.FetchRate(s.ctx, domain.TableA, "USD")
	s.NoError(err)
	s.Equal(domain.Currency("USD"), rate.Currency)
}

func (s *SourceTestSuite) TestEvictAllRefetches() {
	upstream := newFakeUpstream()
	source := s.newSource(upstream)

	_, err := source.FetchRate(s.ctx, domain.TableA, "USD")
	s.Require().NoError(err)
	s.Require().NoError(source.EvictAll(s.ctx))
	s.Zero(s.store.Len())

	_, err = source.FetchRate(s.ctx, domain.TableA, "USD")
	s.NoError(err)
	s.Equal(2, upstream.count())
}

func TestFallback_MapsInfrastructureErrors(t *testing.T) {
	fetch := ratesource.Fallback(newFakeUpstream(errUpstream).fetch, nil)

	_, err := fetch(context.Background(), domain.TableA, "USD")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRateSourceUnavailable)
	assert.NotContains(t, err.Error(), "503")
}

func TestFallback_MapsOpenCircuit(t *testing.T) {
	fetch := ratesource.Fallback(newFakeUpstream(fmt.Errorf("%w: nbp", apperrors.ErrCircuitOpen)).fetch, nil)

	_, err := fetch(context.Background(), domain.TableA, "USD")

	assert.ErrorIs(t, err, apperrors.ErrRateSourceUnavailable)
	assert.NotErrorIs(t, err, apperrors.ErrCircuitOpen)
}

func TestFallback_PassesSuccessAndUnsupported(t *testing.T) {
	rate, err := ratesource.Fallback(newFakeUpstream().fetch, nil)(context.Background(), domain.TableB, "AFN")
	require.NoError(t, err)
	assert.Equal(t, domain.TableB, rate.Table)

	_, err = ratesource.Fallback(newFakeUpstream(apperrors.ErrUnsupportedCurrency).fetch, nil)(context.Background(), domain.TableA, "XYZ")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedCurrency)
}

func TestFetchFunc_ImplementsRateSource(t *testing.T) {
	var fetch ratesource.FetchFunc = newFakeUpstream().fetch

	rate, err := fetch.FetchRate(context.Background(), domain.TableA, "USD")

	require.NoError(t, err)
	assert.Equal(t, domain.Currency("USD"), rate.Currency)
}
