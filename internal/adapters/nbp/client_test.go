package nbp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(status)
		_, _ = rw.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_FetchRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/exchangerates/rates/a/USD/", req.URL.Path)
		assert.Equal(t, "json", req.URL.Query().Get("format"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		_, _ = rw.Write([]byte(`{
			"table": "A",
			"currency": "dolar amerykański",
			"code": "USD",
			"rates": [{"no": "049/A/NBP/2024", "effectiveDate": "2024-03-08", "mid": 3.9432}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nil)
	rate, err := client.FetchRate(context.Background(), domain.TableA, "USD")

	require.NoError(t, err)
	assert.Equal(t, domain.Currency("USD"), rate.Currency)
	assert.Equal(t, domain.TableA, rate.Table)
	assert.True(t, decimal.RequireFromString("3.9432").Equal(rate.Mid), "got %s", rate.Mid)
	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), rate.ValidOn)
}

func TestClient_FetchRateBidAsk(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{
		"table": "C",
		"currency": "euro",
		"code": "EUR",
		"rates": [{"no": "049/C/NBP/2024", "effectiveDate": "2024-03-08", "bid": 4.2700, "ask": 4.3562}]
	}`)

	rate, err := NewClient(server.URL, time.Second, nil).FetchRate(context.Background(), domain.TableC, "EUR")

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("4.3131").Equal(rate.Mid), "got %s", rate.Mid)
}

func TestClient_FetchRateNotPublished(t *testing.T) {
	server := newTestServer(t, http.StatusNotFound, "404 NotFound - Not Found - Brak danych")

	_, err := NewClient(server.URL, time.Second, nil).FetchRate(context.Background(), domain.TableA, "XYZ")

	assert.ErrorIs(t, err, apperrors.ErrUnsupportedCurrency)
}

func TestClient_FetchRateServerError(t *testing.T) {
	server := newTestServer(t, http.StatusServiceUnavailable, "")

	_, err := NewClient(server.URL, time.Second, nil).FetchRate(context.Background(), domain.TableA, "USD")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.NotErrorIs(t, err, apperrors.ErrUnsupportedCurrency)
}

func TestClient_FetchRateBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"code": "USD", "rates": [`},
		{name: "no rates", body: `{"code": "USD", "rates": []}`},
		{name: "other currency", body: `{"code": "EUR", "rates": [{"effectiveDate": "2024-03-08", "mid": 4.3}]}`},
		{name: "missing mid", body: `{"code": "USD", "rates": [{"effectiveDate": "2024-03-08"}]}`},
		{name: "zero mid", body: `{"code": "USD", "rates": [{"effectiveDate": "2024-03-08", "mid": 0}]}`},
		{name: "bad date", body: `{"code": "USD", "rates": [{"effectiveDate": "08.03.2024", "mid": 3.9}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, http.StatusOK, tt.body)

			_, err := NewClient(server.URL, time.Second, nil).FetchRate(context.Background(), domain.TableA, "USD")

			assert.Error(t, err)
			assert.NotErrorIs(t, err, apperrors.ErrUnsupportedCurrency)
		})
	}
}

func TestClient_FetchRateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-req.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, 10*time.Millisecond, nil)
	_, err := client.FetchRate(context.Background(), domain.TableA, "USD")

	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", 0, nil)

	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.client.Timeout)
	assert.Equal(t, "https://example.org/api", NewClient("https://example.org/api/", 0, nil).BaseURL())
}
