package ratesource_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/SscSPs/account_exchange/internal/ratesource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_HitBypassesUpstream(t *testing.T) {
	ctx := context.Background()
	upstream := newFakeUpstream()
	cache := ratesource.NewCache(upstream.fetch, ratesource.NewMemoryStore(), nil)

	first, err := cache.FetchRate(ctx, domain.TableA, "USD")
	require.NoError(t, err)
	second, err := cache.FetchRate(ctx, domain.TableA, "USD")
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.count())
	assert.Equal(t, first, second)
}

func TestCache_KeysByTableAndCurrency(t *testing.T) {
	ctx := context.Background()
	upstream := newFakeUpstream()
	cache := ratesource.NewCache(upstream.fetch, ratesource.NewMemoryStore(), nil)

	_, _ = cache.FetchRate(ctx, domain.TableA, "USD")
	_, _ = cache.FetchRate(ctx, domain.TableA, "EUR")
	_, _ = cache.FetchRate(ctx, domain.TableC, "USD")
	_, _ = cache.FetchRate(ctx, domain.TableA, "USD")

	assert.Equal(t, 3, upstream.count())
}

func TestCache_EvictAllForcesNewFetch(t *testing.T) {
	ctx := context.Background()
	upstream := newFakeUpstream()
	store := ratesource.NewMemoryStore()
	cache := ratesource.NewCache(upstream.fetch, store, nil)

	_, err := cache.FetchRate(ctx, domain.TableA, "USD")
	require.NoError(t, err)
	require.NoError(t, cache.EvictAll(ctx))
	assert.Zero(t, store.Len())

	// evicting an empty cache is fine
	require.NoError(t, cache.EvictAll(ctx))

	_, err = cache.FetchRate(ctx, domain.TableA, "USD")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.count())
}

func TestCache_FailuresAreNotCached(t *testing.T) {
	ctx := context.Background()
	upstream := newFakeUpstream(errUpstream, nil)
	cache := ratesource.NewCache(upstream.fetch, ratesource.NewMemoryStore(), nil)

	_, err := cache.FetchRate(ctx, domain.TableA, "USD")
	assert.ErrorIs(t, err, errUpstream)

	_, err = cache.FetchRate(ctx, domain.TableA, "USD")
	assert.NoError(t, err)
	assert.Equal(t, 2, upstream.count())
}

func TestCache_FetchStartedBeforeEvictionIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := ratesource.NewMemoryStore()
	entered := make(chan struct{})
	release := make(chan struct{})
	slow := func(_ context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
		close(entered)
		<-release
		return testRate(table, currency), nil
	}
	cache := ratesource.NewCache(slow, store, nil)

	done := make(chan error, 1)
	go func() {
		_, err := cache.FetchRate(ctx, domain.TableA, "USD")
		done <- err
	}()

	<-entered
	require.NoError(t, cache.EvictAll(ctx))
	close(release)

	require.NoError(t, <-done)
	assert.Zero(t, store.Len())
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, ratesource.RateKey) (domain.Rate, bool, error) {
	return domain.Rate{}, false, errors.New("connection refused")
}

func (brokenStore) Put(context.Context, ratesource.RateKey, domain.Rate) error {
	return errors.New("connection refused")
}

func (brokenStore) Clear(context.Context) error {
	return errors.New("connection refused")
}

func TestCache_BrokenStoreDegradesToUpstream(t *testing.T) {
	ctx := context.Background()
	upstream := newFakeUpstream()
	cache := ratesource.NewCache(upstream.fetch, brokenStore{}, nil)

	rate, err := cache.FetchRate(ctx, domain.TableA, "USD")
	require.NoError(t, err)
	assert.Equal(t, domain.Currency("USD"), rate.Currency)

	assert.Error(t, cache.EvictAll(ctx))
}

func TestCache_ConcurrentFetchAndEvict(t *testing.T) {
	ctx := context.Background()
	upstream := newFakeUpstream()
	cache := ratesource.NewCache(upstream.fetch, ratesource.NewMemoryStore(), nil)
	currencies := []domain.Currency{"USD", "EUR", "GBP", "CHF"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			currency := currencies[i%len(currencies)]
			rate, err := cache.FetchRate(ctx, domain.TableA, currency)
			assert.NoError(t, err)
			assert.Equal(t, currency, rate.Currency)
		}(i)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.EvictAll(ctx))
		}()
	}
	wg.Wait()
}
