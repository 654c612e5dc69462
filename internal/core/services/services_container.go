package services

import (
	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/SscSPs/account_exchange/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/account_exchange/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/account_exchange/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(base domain.Currency, repos portsrepo.RepositoryProvider, rates gateways.EvictingRateSource) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Conversion first since the account service depends on it
	container.CurrencyConversion = NewCurrencyConversionService(rates, base)
	container.Account = NewAccountService(repos.AccountRepo, container.CurrencyConversion, base)
	container.Housekeeping = NewHousekeepingService(rates)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.AccountFinderSvc      = (*findAccountService)(nil)
	_ portssvc.AccountConverterSvc   = (*findAccountConvertService)(nil)
	_ portssvc.CurrencyConversionSvc = (*currencyConversionService)(nil)
	_ portssvc.HousekeepingSvc       = (*housekeepingService)(nil)
)
