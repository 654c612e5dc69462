// Package memory holds repositories that keep their data in process memory.
// They back the service when no database is configured and serve as fakes in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
	portsrepo "github.com/SscSPs/account_exchange/internal/core/ports/repositories"
)

// AccountRepository stores accounts in maps indexed by id and by number.
type AccountRepository struct {
	lock     sync.RWMutex
	byID     map[domain.AccountID]domain.Account
	byNumber map[domain.AccountNumber]domain.AccountID
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

// NewAccountRepository returns a repository holding accounts.
func NewAccountRepository(accounts ...domain.Account) (*AccountRepository, error) {
	r := &AccountRepository{
		byID:     map[domain.AccountID]domain.Account{},
		byNumber: map[domain.AccountNumber]domain.AccountID{},
	}
	for _, account := range accounts {
		if err := r.SaveAccount(context.Background(), account); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *AccountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.byID[account.ID()]; exists {
		return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, account.ID())
	}
	if _, exists := r.byNumber[account.Number()]; exists {
		return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, account.Number())
	}
	r.byID[account.ID()] = account
	r.byNumber[account.Number()] = account.ID()
	return nil
}

func (r *AccountRepository) FindAccountByID(_ context.Context, id domain.AccountID) (*domain.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
	}
	return &account, nil
}

func (r *AccountRepository) FindAccountByNumber(_ context.Context, number domain.AccountNumber) (*domain.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.byNumber[number]
	if !ok {
		return nil, fmt.Errorf("%w: account number %s", apperrors.ErrNotFound, number)
	}
	account := r.byID[id]
	return &account, nil
}

// DemoAccounts are the accounts served when no database is configured.
func DemoAccounts() []domain.Account {
	return []domain.Account{
		domain.NewAccount(
			"fa07c538-8ce4-4ee3-8b7f-3a7fbd2bf6f4",
			"PL82114020004000030020135538",
			mustMoney("123.45", "PLN"),
		),
		domain.NewAccount(
			"78743539-4c0e-4c4a-b2ef-1e8a6bb2a5e2",
			"PL28102010400000010200000000",
			mustMoney("456.78", "EUR"),
		),
	}
}

func mustMoney(amount, currency string) domain.Money {
	money, err := domain.ParseMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return money
}

// NewRepositoryProvider returns a provider backed by a repository seeded with accounts.
func NewRepositoryProvider(accounts ...domain.Account) (portsrepo.RepositoryProvider, error) {
	accountRepo, err := NewAccountRepository(accounts...)
	if err != nil {
		return portsrepo.RepositoryProvider{}, err
	}
	return portsrepo.RepositoryProvider{AccountRepo: accountRepo}, nil
}
