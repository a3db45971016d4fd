package cqrs

import "github.com/shopspring/decimal"

type CreateUserCommand struct {
	Name     string
	Email    string
	Password string
}

type OpenAccountCommand struct {
	UserID   string
	Currency string
}

// TransferCommand moves Amount from one account to another.
// RequestingUserID is the authenticated caller; it must own the source account.
type TransferCommand struct {
	FromAccountID    string
	ToAccountID      string
	RequestingUserID string
	Amount           decimal.Decimal
	Description      string
}

type LoginCommand struct {
	Email    string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}
