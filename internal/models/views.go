package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserView is the read-optimised projection of a user.
// It never exposes PasswordHash.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

// AccountView is the read-optimised projection of an account.
// UserID is populated for ownership checks but never serialised to the API response.
type AccountView struct {
	ID            string          `json:"id"`
	UserID        string          `json:"-"`
	AccountNumber string          `json:"accountNumber"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdTimestamp"`
	UpdatedAt     time.Time       `json:"updatedTimestamp"`
}

// TransactionDirection labels a transaction relative to the account being
// viewed — it is not an intrinsic property of the transaction.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// TransactionView is a transaction as seen from one account's history:
// Direction is IN when the viewed account is the destination, OUT otherwise.
type TransactionView struct {
	ID                string          `json:"id"`
	FromAccountNumber string          `json:"fromAccountNumber"`
	ToAccountNumber   string          `json:"toAccountNumber"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	Direction         string          `json:"direction"`
	Description       string          `json:"description,omitempty"`
	CreatedAt         time.Time       `json:"createdTimestamp"`
}
