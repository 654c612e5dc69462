// Package rediscache keeps cached exchange rates in a single Redis hash so that
// every instance of the service shares them and eviction is one DEL.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/SscSPs/account_exchange/internal/ratesource"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the hash holding the rates.
const DefaultKey = "exchange-rates"

// RateStore is a ratesource.RateStore backed by a Redis hash, one field per table and currency.
type RateStore struct {
	client redis.UniversalClient
	key    string
}

var _ ratesource.RateStore = (*RateStore)(nil)

// NewClient connects to a single Redis node.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRateStore stores rates under key, or DefaultKey when key is empty.
func NewRateStore(client redis.UniversalClient, key string) *RateStore {
	if key == "" {
		key = DefaultKey
	}
	return &RateStore{client: client, key: key}
}

func (s *RateStore) Get(ctx context.Context, key ratesource.RateKey) (domain.Rate, bool, error) {
	raw, err := s.client.HGet(ctx, s.key, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Rate{}, false, nil
	}
	if err != nil {
		return domain.Rate{}, false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	rate, err := decodeRate(raw)
	if err != nil {
		return domain.Rate{}, false, err
	}
	return rate, true, nil
}

func (s *RateStore) Put(ctx context.Context, key ratesource.RateKey, rate domain.Rate) error {
	raw, err := encodeRate(rate)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key, key.String(), raw).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (s *RateStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}

// Ping checks the connection.
func (s *RateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func encodeRate(rate domain.Rate) ([]byte, error) {
	raw, err := json.Marshal(rate)
	if err != nil {
		return nil, fmt.Errorf("encoding rate of %s: %w", rate.Currency, err)
	}
	return raw, nil
}

func decodeRate(raw []byte) (domain.Rate, error) {
	var rate domain.Rate
	if err := json.Unmarshal(raw, &rate); err != nil {
		return domain.Rate{}, fmt.Errorf("decoding cached rate: %w", err)
	}
	if err := rate.Validate(); err != nil {
		return domain.Rate{}, fmt.Errorf("decoding cached rate: %w", err)
	}
	return rate, nil
}
