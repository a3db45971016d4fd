package cqrs

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------- User queries ----------

// GetUserQuery fetches a single user by ID.
type GetUserQuery struct {
	UserID string
}

// ---------- Account queries ----------

// GetAccountQuery fetches a single account by ID, subject to ownership check.
type GetAccountQuery struct {
	AccountID        string
	RequestingUserID string
}

// ListAccountsQuery fetches all accounts belonging to a user.
type ListAccountsQuery struct {
	UserID string
}

// ---------- Transaction queries ----------

// ListTransactionsQuery fetches the transaction history of an account.
// All filter fields are optional: nil pointers mean unbounded, an empty or
// unrecognized Direction means no direction filtering.
type ListTransactionsQuery struct {
	AccountID        string
	RequestingUserID string
	From             *time.Time
	To               *time.Time
	Direction        string
	MinAmount        *decimal.Decimal
	MaxAmount        *decimal.Decimal
}
