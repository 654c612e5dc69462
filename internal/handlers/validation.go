package handlers

import (
	"fmt"

	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain specific binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("currency_code", validateCurrencyCode); err != nil {
		return fmt.Errorf("registering currency_code: %w", err)
	}
	if err := v.RegisterValidation("account_number", validateAccountNumber); err != nil {
		return fmt.Errorf("registering account_number: %w", err)
	}
	return nil
}

func validateCurrencyCode(fl validator.FieldLevel) bool {
	return domain.IsKnownCurrency(fl.Field().String())
}

func validateAccountNumber(fl validator.FieldLevel) bool {
	return domain.IsValidAccountNumber(fl.Field().String())
}
