package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/SscSPs/account_exchange/internal/core/services"
	portssvc "github.com/SscSPs/account_exchange/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CurrencyConversionServiceTestSuite struct {
	suite.Suite
	rates   *MockRateSource
	service portssvc.CurrencyConversionSvc
	ctx     context.Context
}

func (s *CurrencyConversionServiceTestSuite) SetupTest() {
	s.rates = new(MockRateSource)
	s.service = services.NewCurrencyConversionService(s.rates, "PLN")
	s.ctx = context.Background()
}

func (s *CurrencyConversionServiceTestSuite) TearDownTest() {
	s.rates.AssertExpectations(s.T())
}

func TestCurrencyConversionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyConversionServiceTestSuite))
}

func (s *CurrencyConversionServiceTestSuite) TestConvert_SameCurrencySkipsRates() {
	money := mustMoney("100.00", "PLN")

	converted, err := s.service.Convert(s.ctx, money, "PLN")

	s.Require().NoError(err)
	s.True(converted.Equal(money))
	s.rates.AssertNotCalled(s.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *CurrencyConversionServiceTestSuite) TestConvert_FromBase() {
	s.rates.On("FetchRate", mock.Anything, domain.TableA, domain.Currency("USD")).
		Return(rateOf(domain.TableA, "USD", "4.00"), nil).Once()

	converted, err := s.service.Convert(s.ctx, mustMoney("100.00", "PLN"), "USD")

	s.Require().NoError(err)
	s.Equal("25.00 USD", converted.String())
}

func (s *CurrencyConversionServiceTestSuite) TestConvert_ToBase() {
	s.rates.On("FetchRate", mock.Anything, domain.TableA, domain.Currency("EUR")).
		Return(rateOf(domain.TableA, "EUR", "4.3131"), nil).Once()

	converted, err := s.service.Convert(s.ctx, mustMoney("10.00", "EUR"), "PLN")

	s.Require().NoError(err)
	s.Equal("43.13 PLN", converted.String())
}

func (s *CurrencyConversionServiceTestSuite) TestConvert_CrossThroughBase() {
	s.rates.On("FetchRate", mock.Anything, domain.TableA, domain.Currency("EUR")).
		Return(rateOf(domain.TableA, "EUR", "4.30"), nil).Once()
	s.rates.On("FetchRate", mock.Anything, domain.TableA, domain.Currency("USD")).
		Return(rateOf(domain.TableA, "USD", "4.00"), nil).Once()

	converted, err := s.service.Convert(s.ctx, mustMoney("100.00", "EUR"), "USD")

	s.Require().NoError(err)
	s.Equal("107.50 USD", converted.String())
}

func (s *CurrencyConversionServiceTestSuite) TestConvert_TableBCurrency() {
	s.rates.On("FetchRate", mock.Anything, domain.TableB, domain.Currency("AFN")).
		Return(rateOf(domain.TableB, "AFN", "0.0550"), nil).Once()

	converted, err := s.service.Convert(s.ctx, mustMoney("11.00", "PLN"), "AFN")

	s.Require().NoError(err)
	s.Equal("200.00 AFN", converted.String())
}

func (s *CurrencyConversionServiceTestSuite) TestConvert_UnpublishedCurrency() {
	_, err := s.service.Convert(s.ctx, mustMoney("100.00", "PLN"), "XYZ")

	s.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
	s.rates.AssertNotCalled(s.T(), "FetchRate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *CurrencyConversionServiceTestSuite) TestConvert_SourceUnavailable() {
	s.rates.On("FetchRate", mock.Anything, domain.TableA, domain.Currency("USD")).
		Return(domain.Rate{}, fmt.Errorf("%w: rate of USD", apperrors.ErrRateSourceUnavailable)).Once()

	_, err := s.service.Convert(s.ctx, mustMoney("100.00", "PLN"), "USD")

	s.ErrorIs(err, apperrors.ErrRateSourceUnavailable)
}

func (s *CurrencyConversionServiceTestSuite) TestConvert_NonPositiveRateRejected() {
	s.rates.On("FetchRate", mock.Anything, domain.TableA, domain.Currency("USD")).
		Return(rateOf(domain.TableA, "USD", "0"), nil).Once()

	_, err := s.service.Convert(s.ctx, mustMoney("100.00", "PLN"), "USD")

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *CurrencyConversionServiceTestSuite) TestExchangeRate_Identity() {
	rate, err := s.service.ExchangeRate(s.ctx, "USD", "USD")

	s.Require().NoError(err)
	s.Equal("1", rate.Value().String())
}
