package dto

import (
	"github.com/SscSPs/account_exchange/internal/core/domain"
)

// FindAccountQuery holds the optional target currency of an account lookup.
type FindAccountQuery struct {
	Currency string `form:"currency" binding:"omitempty,currency_code"`
}

// AccountNumberURI binds the account number path parameter.
type AccountNumberURI struct {
	Number string `uri:"number" binding:"required,account_number"`
}

// MoneyResponse renders an amount at the fixed scale of its currency, e.g. "25.00".
type MoneyResponse struct {
	Amount   string `json:"amount" example:"25.00"`
	Currency string `json:"currency" example:"USD"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	ID      string        `json:"id" example:"fa07c538-8ce4-4ee3-8b7f-3a7fbd2bf6f4"`
	Number  string        `json:"number" example:"PL82114020004000030020135538"`
	Balance MoneyResponse `json:"balance"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToMoneyResponse converts domain.Money to its DTO
func ToMoneyResponse(m domain.Money) MoneyResponse {
	return MoneyResponse{
		Amount:   m.AmountString(),
		Currency: m.Currency().String(),
	}
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		ID:      acc.ID().String(),
		Number:  acc.Number().String(),
		Balance: ToMoneyResponse(acc.Balance()),
	}
}
