package services_test

import (
	"context"

	"github.com/SscSPs/account_exchange/internal/core/domain"
	portsrepo "github.com/SscSPs/account_exchange/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockRateSource is a mock type for the EvictingRateSource interface
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRate(ctx context.Context, table domain.RateTable, currency domain.Currency) (domain.Rate, error) {
	args := m.Called(ctx, table, currency)
	return args.Get(0).(domain.Rate), args.Error(1)
}

func (m *MockRateSource) EvictAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func mustMoney(amount, currency string) domain.Money {
	money, err := domain.ParseMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return money
}

func rateOf(table domain.RateTable, currency domain.Currency, mid string) domain.Rate {
	return domain.Rate{Currency: currency, Table: table, Mid: decimal.RequireFromString(mid)}
}

func portsRepositories(accounts *MockAccountRepository) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{AccountRepo: accounts}
}
