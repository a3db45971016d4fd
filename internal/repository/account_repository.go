package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/lib/pq"
)

// ErrDuplicateAccountNumber signals that a freshly drawn account number
// collided with an existing row. The command service retries with a new draw.
var ErrDuplicateAccountNumber = errors.New("duplicate account number")

// AccountWriteRepository handles all state-mutating operations for accounts.
// It operates exclusively against the PostgreSQL write store (source of truth).
// Balance mutations happen only through TransactionWriteRepository.AppendTransfer,
// so both sides of a transfer and its log entry commit as one unit.
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

func (r *AccountWriteRepository) Create(account *models.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, account_number, currency, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		account.ID, account.UserID, account.AccountNumber, account.Currency,
		account.Balance, account.Version, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateAccountNumber
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID fetches the full write model including UserID for ownership checks
// and Version for the optimistic transfer guard.
func (r *AccountWriteRepository) GetByID(id string) (*models.Account, error) {
	query := `
		SELECT id, user_id, account_number, currency, balance, version, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var account models.Account
	err := r.db.QueryRow(query, id).Scan(
		&account.ID, &account.UserID, &account.AccountNumber, &account.Currency,
		&account.Balance, &account.Version, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
