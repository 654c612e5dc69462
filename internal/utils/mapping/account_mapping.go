package mapping

import (
	"fmt"
	"time"

	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/SscSPs/account_exchange/internal/models"
)

// ToModelAccount converts a domain Account to a model Account stamped with now
func ToModelAccount(d domain.Account, now time.Time) models.Account {
	return models.Account{
		AccountID:     d.ID().String(),
		AccountNumber: d.Number().String(),
		Balance:       d.Balance().Amount(),
		CurrencyCode:  d.Balance().Currency().String(),
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
}

// ToDomainAccount converts a model Account to a domain Account.
// The stored balance is rounded to the minor unit of its currency.
func ToDomainAccount(m models.Account) (domain.Account, error) {
	currency, err := domain.ParseCurrency(m.CurrencyCode)
	if err != nil {
		return domain.Account{}, fmt.Errorf("account %s has a corrupt currency: %w", m.AccountID, err)
	}
	return domain.NewAccount(
		domain.AccountID(m.AccountID),
		domain.AccountNumber(m.AccountNumber),
		domain.NewMoney(m.Balance, currency),
	), nil
}
