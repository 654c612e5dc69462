package services

import (
	"context"

	"github.com/SscSPs/account_exchange/internal/core/domain"
)

// AccountFinderSvc looks accounts up without converting their balance.
type AccountFinderSvc interface {
	// FindByID returns the account identified by id or apperrors.ErrAccountNotFound.
	FindByID(ctx context.Context, id domain.AccountID) (*domain.Account, error)

	// FindByNumber returns the account with the given number or apperrors.ErrAccountNotFound.
	FindByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error)
}

// AccountConverterSvc looks accounts up and reports their balance in a requested currency.
type AccountConverterSvc interface {
	FindByIDAndConvert(ctx context.Context, id domain.AccountID, target domain.Currency) (*domain.Account, error)
	FindByNumberAndConvert(ctx context.Context, number domain.AccountNumber, target domain.Currency) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountFinderSvc
	AccountConverterSvc
}
