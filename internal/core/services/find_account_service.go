package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
	portsrepo "github.com/SscSPs/account_exchange/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/account_exchange/internal/core/ports/services"
)

// findAccountService looks accounts up without touching their balance.
type findAccountService struct {
	BaseService
	accountRepo portsrepo.AccountReader
}

// NewFindAccountService creates a lookup-only account service.
func NewFindAccountService(accountRepo portsrepo.AccountReader) portssvc.AccountFinderSvc {
	return &findAccountService{accountRepo: accountRepo}
}

func (s *findAccountService) FindByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	s.LogInfo(ctx, "Searching account by id", slog.String("account_id", id.String()))

	account, err := s.accountRepo.FindAccountByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, err, "id", id.String())
	}
	return account, nil
}

func (s *findAccountService) FindByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	s.LogInfo(ctx, "Searching account by number", slog.String("account_number", number.String()))

	account, err := s.accountRepo.FindAccountByNumber(ctx, number)
	if err != nil {
		return nil, s.lookupError(ctx, err, "number", number.String())
	}
	return account, nil
}

func (s *findAccountService) lookupError(ctx context.Context, err error, by, value string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: no account with %s %s", apperrors.ErrAccountNotFound, by, value)
	}
	s.LogError(ctx, err, "Failed to find account in repository", slog.String(by, value))
	return fmt.Errorf("finding account by %s: %w", by, err)
}
