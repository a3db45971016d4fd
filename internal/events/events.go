package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	UserCreated = "user.created"

	AccountOpened = "account.opened"

	TransferCompleted = "transfer.completed"
)

// Stream names
const (
	UserEventsStream     = "user.events"
	AccountEventsStream  = "account.events"
	TransferEventsStream = "transfer.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type AccountOpenedEvent struct {
	AccountID     string `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
	UserID        string `json:"userId"`
	Currency      string `json:"currency"`
}

// TransferCompletedEvent is published after the balance mutations and the
// transaction append have committed. Consumers use it to refresh read models;
// handling it is idempotent because the balances are re-read from the write
// store, not incremented.
type TransferCompletedEvent struct {
	TransactionID string          `json:"transactionId"`
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}
