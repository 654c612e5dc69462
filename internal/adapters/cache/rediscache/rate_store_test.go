package rediscache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/SscSPs/account_exchange/internal/ratesource"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRate() domain.Rate {
	return domain.Rate{
		Currency: "USD",
		Table:    domain.TableA,
		Mid:      decimal.RequireFromString("3.9432"),
		ValidOn:  time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
	}
}

func TestEncodeDecodeRate(t *testing.T) {
	raw, err := encodeRate(sampleRate())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"mid":"3.9432"`)

	rate, err := decodeRate(raw)
	require.NoError(t, err)
	assert.True(t, rate.Mid.Equal(sampleRate().Mid))
	assert.Equal(t, sampleRate().ValidOn, rate.ValidOn)
	assert.Equal(t, domain.Currency("USD"), rate.Currency)
}

func TestDecodeRate_RejectsGarbage(t *testing.T) {
	_, err := decodeRate([]byte("not json"))
	assert.Error(t, err)

	_, err = decodeRate([]byte(`{"currency":"USD","table":"A","mid":"0","validOn":"2024-03-08T00:00:00Z"}`))
	assert.Error(t, err)
}

func TestNewRateStore_DefaultKey(t *testing.T) {
	store := NewRateStore(NewClient("localhost:6379", "", 0), "")
	assert.Equal(t, DefaultKey, store.key)
}

func TestRateStore_UnreachableServer(t *testing.T) {
	client := NewClient("127.0.0.1:1", "", 0)
	defer client.Close()
	store := NewRateStore(client, "")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok, err := store.Get(ctx, ratesource.RateKey{Table: domain.TableA, Currency: "USD"})
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, store.Put(ctx, ratesource.RateKey{Table: domain.TableA, Currency: "USD"}, sampleRate()))
	assert.Error(t, store.Clear(ctx))
}

// TestRateStore_Redis runs against a real server when REDIS_TEST_ADDR is set.
func TestRateStore_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	client := NewClient(addr, "", 0)
	defer client.Close()
	store := NewRateStore(client, "exchange-rates-test")
	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Clear(ctx))

	key := ratesource.RateKey{Table: domain.TableA, Currency: "USD"}
	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, key, sampleRate()))
	rate, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rate.Mid.Equal(sampleRate().Mid))

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
