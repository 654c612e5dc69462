package ratesource

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/account_exchange/internal/core/domain"
)

// RateKey identifies a cache entry.
type RateKey struct {
	Table    domain.RateTable
	Currency domain.Currency
}

func (k RateKey) String() string {
	return fmt.Sprintf("%s:%s", k.Table, k.Currency)
}

// RateStore holds cached rates. Implementations must be safe for concurrent use and
// Clear must remove every entry at once.
type RateStore interface {
	Get(ctx context.Context, key RateKey) (domain.Rate, bool, error)
	Put(ctx context.Context, key RateKey, rate domain.Rate) error
	Clear(ctx context.Context) error
}

// MemoryStore is an in-process RateStore.
type MemoryStore struct {
	lock  sync.RWMutex
	rates map[RateKey]domain.Rate
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rates: map[RateKey]domain.Rate{}}
}

func (s *MemoryStore) Get(_ context.Context, key RateKey) (domain.Rate, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	rate, ok := s.rates[key]
	return rate, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, key RateKey, rate domain.Rate) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.rates[key] = rate
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.rates = map[RateKey]domain.Rate{}
	return nil
}

// Len returns the number of cached rates.
func (s *MemoryStore) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.rates)
}

// Cache decorates a FetchFunc with a cache of the current day's rates.
// Entries never expire on their own; EvictAll clears the whole cache.
type Cache struct {
	next  FetchFunc
	store RateStore

	// lock orders populating writes against evictions; generation counts evictions
	// so a fetch that started before an eviction does not repopulate the cache.
	lock       sync.Mutex
	generation uint64

	logger *slog.Logger
}

// NewCache returns a Cache in front of next.
func NewCache(next FetchFunc, store RateStore, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{next: next, store: store, logger: logger}
}

// FetchRate returns the cached rate for (table, currency), fetching and caching it on a miss.
// Concurrent misses for the same key may each reach next; the last one to finish wins.
func (c *Cache) FetchRate(ctx context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
	key := RateKey{Table: table, Currency: currency}

	rate, ok, err := c.store.Get(ctx, key)
	if err != nil {
		// A broken cache must not fail lookups; treat it as a miss.
		c.logger.Warn("Reading exchange rate cache failed", slog.String("key", key.String()), slog.String("error", err.Error()))
	}
	if ok {
		return rate, nil
	}

	generation := c.currentGeneration()
	rate, err = c.next(ctx, table, currency)
	if err != nil {
		return domain.Rate{}, err
	}
	c.populate(ctx, key, rate, generation)
	return rate, nil
}

// EvictAll removes every cached rate. It is idempotent and safe to call concurrently with FetchRate.
func (c *Cache) EvictAll(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.generation++
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("evicting exchange rate cache: %w", err)
	}
	c.logger.Info("Exchange rate cache evicted", slog.Uint64("generation", c.generation))
	return nil
}

func (c *Cache) currentGeneration() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.generation
}

func (c *Cache) populate(ctx context.Context, key RateKey, rate domain.Rate, generation uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.generation != generation {
		c.logger.Debug("Discarding exchange rate fetched before eviction", slog.String("key", key.String()))
		return
	}
	if err := c.store.Put(ctx, key, rate); err != nil {
		c.logger.Warn("Writing exchange rate cache failed", slog.String("key", key.String()), slog.String("error", err.Error()))
	}
}
