package repositories

import (
	"context"

	"github.com/SscSPs/account_exchange/internal/core/domain"
)

// AccountReader defines read operations for account data.
// Implementations return apperrors.ErrNotFound when no account matches.
type AccountReader interface {
	// FindAccountByID retrieves an account by its opaque identifier.
	FindAccountByID(ctx context.Context, id domain.AccountID) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its account number.
	FindAccountByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
