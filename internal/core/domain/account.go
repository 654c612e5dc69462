package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/account_exchange/internal/apperrors"
)

// AccountID is the opaque identifier assigned to an account by the account store.
type AccountID string

// ParseAccountID trims id and rejects empty values.
func ParseAccountID(id string) (AccountID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: account id cannot be empty", apperrors.ErrValidation)
	}
	return AccountID(id), nil
}

func (id AccountID) String() string {
	return string(id)
}

// AccountNumber is an IBAN-structured account number stored without spaces, upper case.
type AccountNumber string

// ParseAccountNumber removes spaces from number and validates its structure and check digits.
func ParseAccountNumber(number string) (AccountNumber, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(number), " ", ""))
	if len(normalized) < 15 || len(normalized) > 34 {
		return "", fmt.Errorf("%w: account number '%s' must have between 15 and 34 characters", apperrors.ErrValidation, number)
	}
	for i, ch := range normalized {
		switch {
		case i < 2 && (ch < 'A' || ch > 'Z'):
			return "", fmt.Errorf("%w: account number '%s' must start with a country code", apperrors.ErrValidation, number)
		case i >= 2 && i < 4 && (ch < '0' || ch > '9'):
			return "", fmt.Errorf("%w: account number '%s' has invalid check digits", apperrors.ErrValidation, number)
		case !isAlphanumeric(ch):
			return "", fmt.Errorf("%w: account number '%s' contains invalid characters", apperrors.ErrValidation, number)
		}
	}
	if mod97(normalized[4:]+normalized[:4]) != 1 {
		return "", fmt.Errorf("%w: account number '%s' failed checksum validation", apperrors.ErrValidation, number)
	}
	return AccountNumber(normalized), nil
}

// IsValidAccountNumber reports whether number passes ParseAccountNumber.
func IsValidAccountNumber(number string) bool {
	_, err := ParseAccountNumber(number)
	return err == nil
}

func (n AccountNumber) String() string {
	return string(n)
}

func isAlphanumeric(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'A' && ch <= 'Z')
}

// mod97 computes the ISO 7064 remainder with letters expanded to 10..35.
func mod97(s string) int {
	remainder := 0
	for _, ch := range s {
		if ch >= 'A' && ch <= 'Z' {
			remainder = (remainder*100 + int(ch-'A'+10)) % 97
		} else {
			remainder = (remainder*10 + int(ch-'0')) % 97
		}
	}
	return remainder
}

// Account is an immutable snapshot of an account and its balance.
type Account struct {
	id      AccountID
	number  AccountNumber
	balance Money
}

func NewAccount(id AccountID, number AccountNumber, balance Money) Account {
	return Account{id: id, number: number, balance: balance}
}

func (a Account) ID() AccountID {
	return a.id
}

func (a Account) Number() AccountNumber {
	return a.number
}

func (a Account) Balance() Money {
	return a.balance
}

// WithBalance returns a copy of the account carrying balance. The receiver is left untouched.
func (a Account) WithBalance(balance Money) Account {
	return Account{id: a.id, number: a.number, balance: balance}
}

// Equal compares accounts by value.
func (a Account) Equal(other Account) bool {
	return a.id == other.id && a.number == other.number && a.balance.Equal(other.balance)
}
