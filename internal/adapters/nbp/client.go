// Package nbp is the HTTP client of the exchange rate API of Narodowy Bank Polski.
package nbp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the public NBP web API.
	DefaultBaseURL = "https://api.nbp.pl/api"
	DefaultTimeout = 5 * time.Second

	// QuoteCurrency is the currency every NBP mid is expressed in.
	QuoteCurrency = domain.Currency("PLN")

	// responses are a few hundred bytes; anything bigger is not a rate
	maxBodySize = 1 << 20
)

// StatusError is returned when the API answers with an unexpected status code.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nbp api: unexpected status %d from %s", e.StatusCode, e.URL)
}

// Client fetches the latest published rate of a currency.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client. An empty baseURL means DefaultBaseURL, a non-positive timeout DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL identifies the upstream endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type rateResponse struct {
	Table    string `json:"table"`
	Currency string `json:"currency"`
	Code     string `json:"code"`
	Rates    []struct {
		No            string              `json:"no"`
		EffectiveDate string              `json:"effectiveDate"`
		Mid           decimal.NullDecimal `json:"mid"`
		Bid           decimal.NullDecimal `json:"bid"`
		Ask           decimal.NullDecimal `json:"ask"`
	} `json:"rates"`
}

// FetchRate loads the latest rate of currency from table. A currency the table does not
// publish fails with apperrors.ErrUnsupportedCurrency; every other failure is transient.
func (c *Client) FetchRate(ctx context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
	url := fmt.Sprintf("%s/exchangerates/rates/%s/%s/?format=json",
		c.baseURL, strings.ToLower(string(table)), strings.ToUpper(string(currency)))

	c.logger.DebugContext(ctx, "Loading exchange rate", slog.String("url", url))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("building http request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	httpResponse, err := c.client.Do(request)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("http get: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode == http.StatusNotFound {
		return domain.Rate{}, fmt.Errorf("%w: %s is not published in table %s", apperrors.ErrUnsupportedCurrency, currency, table)
	}
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return domain.Rate{}, &StatusError{StatusCode: httpResponse.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxBodySize))
	if err != nil {
		return domain.Rate{}, fmt.Errorf("reading json: %w", err)
	}

	var response rateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return domain.Rate{}, fmt.Errorf("decoding json: %w", err)
	}
	return toRate(response, table, currency)
}

func toRate(response rateResponse, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
	if !strings.EqualFold(response.Code, string(currency)) {
		return domain.Rate{}, fmt.Errorf("nbp api: asked for %s, got %q", currency, response.Code)
	}
	if len(response.Rates) == 0 {
		return domain.Rate{}, errors.New("nbp api: response holds no rates")
	}

	latest := response.Rates[len(response.Rates)-1]
	validOn, err := time.Parse(time.DateOnly, latest.EffectiveDate)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("bad effective date %q: %w", latest.EffectiveDate, err)
	}

	var mid decimal.Decimal
	switch {
	case latest.Mid.Valid:
		mid = latest.Mid.Decimal
	case latest.Bid.Valid && latest.Ask.Valid:
		mid = latest.Bid.Decimal.Add(latest.Ask.Decimal).Div(decimal.NewFromInt(2))
	default:
		return domain.Rate{}, fmt.Errorf("nbp api: rate %s of %s has neither mid nor bid/ask", latest.No, currency)
	}

	rate := domain.Rate{
		Currency: currency,
		Table:    table,
		Mid:      mid,
		ValidOn:  validOn,
	}
	if err := rate.Validate(); err != nil {
		return domain.Rate{}, fmt.Errorf("nbp api: %w", err)
	}
	return rate, nil
}
