package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

// Account is the write model. Balance is an exact decimal — money is never
// represented as float64 anywhere in this service. Version counts balance
// writes and backs the optimistic transfer guard.
type Account struct {
	ID            string          `json:"id"`
	UserID        string          `json:"-"`
	AccountNumber string          `json:"accountNumber"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	Version       int64           `json:"-"`
	CreatedAt     time.Time       `json:"createdTimestamp"`
	UpdatedAt     time.Time       `json:"updatedTimestamp"`
}

// TransactionStatus is the lifecycle state of a transfer. Only Completed is
// produced today; Failed and Reversed are reserved for future states so the
// schema won't need a breaking change.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
	TransactionReversed  TransactionStatus = "REVERSED"
)

// Transaction is an append-only record of a completed transfer. Immutable
// once created. The account numbers are denormalised copies for API responses;
// the IDs are the authoritative references.
type Transaction struct {
	ID                string            `json:"id"`
	FromAccountID     string            `json:"-"`
	ToAccountID       string            `json:"-"`
	FromAccountNumber string            `json:"fromAccountNumber"`
	ToAccountNumber   string            `json:"toAccountNumber"`
	Amount            decimal.Decimal   `json:"amount"`
	Currency          string            `json:"currency"`
	Status            TransactionStatus `json:"status"`
	Description       string            `json:"description,omitempty"`
	CreatedAt         time.Time         `json:"createdTimestamp"`
}
