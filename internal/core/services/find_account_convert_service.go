package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
	portssvc "github.com/SscSPs/account_exchange/internal/core/ports/services"
)

// findAccountConvertService looks accounts up and reports their balance in a requested currency.
type findAccountConvertService struct {
	BaseService
	finder    portssvc.AccountFinderSvc
	converter portssvc.CurrencyConversionSvc
	base      domain.Currency
}

// NewFindAccountConvertService creates the converting lookup. base is the currency the
// rate source quotes its rates in.
func NewFindAccountConvertService(finder portssvc.AccountFinderSvc, converter portssvc.CurrencyConversionSvc, base domain.Currency) portssvc.AccountConverterSvc {
	return &findAccountConvertService{finder: finder, converter: converter, base: base}
}

func (s *findAccountConvertService) FindByIDAndConvert(ctx context.Context, id domain.AccountID, target domain.Currency) (*domain.Account, error) {
	s.LogInfo(ctx, "Searching account by id with conversion",
		slog.String("account_id", id.String()),
		slog.String("currency", string(target)))

	account, err := s.finder.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withConvertedBalance(ctx, account, target)
}

func (s *findAccountConvertService) FindByNumberAndConvert(ctx context.Context, number domain.AccountNumber, target domain.Currency) (*domain.Account, error) {
	s.LogInfo(ctx, "Searching account by number with conversion",
		slog.String("account_number", number.String()),
		slog.String("currency", string(target)))

	account, err := s.finder.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.withConvertedBalance(ctx, account, target)
}

func (s *findAccountConvertService) withConvertedBalance(ctx context.Context, account *domain.Account, target domain.Currency) (*domain.Account, error) {
	balance := account.Balance()
	if balance.Currency() == target {
		return account, nil
	}
	// Asking for the base currency only makes sense for balances already held in it.
	if target == s.base {
		return nil, apperrors.NewCurrencyConversionError(string(balance.Currency()), string(target))
	}

	converted, err := s.converter.Convert(ctx, balance, target)
	if err != nil {
		return nil, err
	}
	result := account.WithBalance(converted)
	return &result, nil
}
