package services

import (
	"github.com/SscSPs/account_exchange/internal/core/domain"
	portsrepo "github.com/SscSPs/account_exchange/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/account_exchange/internal/core/ports/services"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	portssvc.AccountFinderSvc
	portssvc.AccountConverterSvc
}

// NewAccountService wires the lookup-only and the converting account services over one repository.
func NewAccountService(repo portsrepo.AccountReader, converter portssvc.CurrencyConversionSvc, base domain.Currency) portssvc.AccountSvcFacade {
	finder := NewFindAccountService(repo)
	return &accountService{
		AccountFinderSvc:    finder,
		AccountConverterSvc: NewFindAccountConvertService(finder, converter, base),
	}
}
