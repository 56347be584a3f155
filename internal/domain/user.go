package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// WithdrawalField names one of the user's withdrawal detail slots.
type WithdrawalField string

const (
	WithdrawalExchangeID    WithdrawalField = "exchange_id"
	WithdrawalCryptoAddress WithdrawalField = "crypto_address"
	WithdrawalBankDetails   WithdrawalField = "bank_details"
)

func (f WithdrawalField) Label() string {
	switch f {
	case WithdrawalExchangeID:
		return "Exchange ID"
	case WithdrawalCryptoAddress:
		return "Crypto Address"
	case WithdrawalBankDetails:
		return "Bank Details"
	default:
		return string(f)
	}
}

func (f WithdrawalField) Valid() bool {
	switch f {
	case WithdrawalExchangeID, WithdrawalCryptoAddress, WithdrawalBankDetails:
		return true
	}
	return false
}

type WithdrawalDetails struct {
	ExchangeID    string
	CryptoAddress string
	BankDetails   string
}

func (w WithdrawalDetails) Get(f WithdrawalField) string {
	switch f {
	case WithdrawalExchangeID:
		return w.ExchangeID
	case WithdrawalCryptoAddress:
		return w.CryptoAddress
	case WithdrawalBankDetails:
		return w.BankDetails
	}
	return ""
}

type User struct {
	ID             int64 // Telegram user id, also the private chat id
	Username       string
	FirstName      string
	LastName       string
	Balance        int64
	Referrals      int
	CompletedTasks []int64
	Withdrawal     WithdrawalDetails
	CryptoBalances map[string]decimal.Decimal
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasCompleted(taskID int64) bool {
	for _, id := range u.CompletedTasks {
		if id == taskID {
			return true
		}
	}
	return false
}

// CryptoBalance returns the balance held in currency, zero when absent.
func (u *User) CryptoBalance(currency string) decimal.Decimal {
	if u.CryptoBalances == nil {
		return decimal.Zero
	}
	return u.CryptoBalances[currency]
}

// NewUser carries the profile fields known when a user first contacts the bot.
type NewUser struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Balance   int64
	Role      Role
}
