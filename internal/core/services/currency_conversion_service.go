package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/SscSPs/account_exchange/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/account_exchange/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// currencyConversionService converts money using reference rates quoted against the base currency.
type currencyConversionService struct {
	BaseService
	rates gateways.RateSource
	base  domain.Currency
}

// NewCurrencyConversionService creates a conversion service whose rates are quoted in base.
func NewCurrencyConversionService(rates gateways.RateSource, base domain.Currency) portssvc.CurrencyConversionSvc {
	return &currencyConversionService{rates: rates, base: base}
}

// Convert returns money expressed in target.
func (s *currencyConversionService) Convert(ctx context.Context, money domain.Money, target domain.Currency) (domain.Money, error) {
	converted, err := money.Convert(ctx, s, target)
	if err != nil {
		s.LogDebug(ctx, "Currency conversion failed",
			slog.String("from", string(money.Currency())),
			slog.String("to", string(target)),
			slog.String("error", err.Error()))
		return domain.Money{}, err
	}
	return converted, nil
}

// ExchangeRate builds the rate converting from into to. Rates of currencies other than the
// base are looked up in the table that publishes them; a pair of foreign currencies is
// crossed through the base currency.
func (s *currencyConversionService) ExchangeRate(ctx context.Context, from, to domain.Currency) (domain.ExchangeRate, error) {
	one := decimal.NewFromInt(1)
	switch {
	case from == to:
		return domain.ExchangeRate{From: from, To: to, Numerator: one, Denominator: one}, nil
	case from == s.base:
		rate, err := s.fetch(ctx, to)
		if err != nil {
			return domain.ExchangeRate{}, err
		}
		return domain.FromBase(s.base, rate), nil
	case to == s.base:
		rate, err := s.fetch(ctx, from)
		if err != nil {
			return domain.ExchangeRate{}, err
		}
		return domain.ToBase(s.base, rate), nil
	}

	fromRate, err := s.fetch(ctx, from)
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	toRate, err := s.fetch(ctx, to)
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	cross := domain.CrossRate(fromRate, toRate)
	s.LogDebug(ctx, "Crossed exchange rate through base currency",
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("base", string(s.base)),
		slog.String("rate", cross.Value().String()))
	return cross, nil
}

func (s *currencyConversionService) fetch(ctx context.Context, currency domain.Currency) (domain.Rate, error) {
	table, err := domain.TableFor(currency)
	if err != nil {
		return domain.Rate{}, err
	}
	rate, err := s.rates.FetchRate(ctx, table, currency)
	if err != nil {
		return domain.Rate{}, err
	}
	if err := rate.Validate(); err != nil {
		return domain.Rate{}, fmt.Errorf("rate of %s from table %s: %w", currency, table, err)
	}
	s.LogDebug(ctx, "Using exchange rate",
		slog.String("currency", string(currency)),
		slog.String("table", string(table)),
		slog.String("mid", rate.Mid.String()),
		slog.Time("valid_on", rate.ValidOn))
	return rate, nil
}
