package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eaglebank/ledger-service/internal/models"
)

// TransactionWriteRepository owns the append-only transaction log and the
// atomic commit of a transfer: both balance mutations and the log insert
// happen in one PostgreSQL transaction, so a crash can never leave a transfer
// half-applied.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// AppendTransfer debits the source account, credits the destination and
// inserts the transaction record, all in one database transaction.
//
// The debit is a relative decrement (balance = balance - amount): the funds
// check was done by the caller against a snapshot, and in the unguarded mode
// nothing re-checks the balance here — two concurrent transfers that both
// passed the check will both commit, possibly overdrawing the account.
//
// When guardVersion is non-nil the debit is additionally conditioned on the
// account version observed at read time; a concurrent balance write makes the
// update match zero rows and the whole transfer rolls back with
// models.ErrTransferConflict.
func (r *TransactionWriteRepository) AppendTransfer(ctx context.Context, txn *models.Transaction, guardVersion *int64) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transfer: %w", err)
	}
	defer dbTx.Rollback()

	var result sql.Result
	if guardVersion != nil {
		result, err = dbTx.ExecContext(ctx, `
			UPDATE accounts
			SET balance = balance - $2, version = version + 1, updated_at = NOW()
			WHERE id = $1 AND version = $3
		`, txn.FromAccountID, txn.Amount, *guardVersion)
	} else {
		result, err = dbTx.ExecContext(ctx, `
			UPDATE accounts
			SET balance = balance - $2, version = version + 1, updated_at = NOW()
			WHERE id = $1
		`, txn.FromAccountID, txn.Amount)
	}
	if err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		if guardVersion != nil {
			return models.ErrTransferConflict
		}
		return models.ErrAccountNotFound
	}

	result, err = dbTx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = balance + $2, version = version + 1, updated_at = NOW()
		WHERE id = $1
	`, txn.ToAccountID, txn.Amount)
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}
	rows, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}

	_, err = dbTx.ExecContext(ctx, `
		INSERT INTO transactions (id, from_account_id, to_account_id, amount, currency, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		txn.ID, txn.FromAccountID, txn.ToAccountID, txn.Amount,
		txn.Currency, string(txn.Status), nullString(txn.Description), txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	return nil
}

// TransactionReadRepository serves the history scan for an account.
type TransactionReadRepository struct {
	db *sql.DB
}

func NewTransactionReadRepository(db *sql.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// ListForAccount returns every transaction where the account is either the
// source or the destination, newest first. limit 0 means no bound — the
// historical full scan; a positive limit caps the result while preserving
// the ordering contract.
func (r *TransactionReadRepository) ListForAccount(ctx context.Context, accountID string, limit int) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.from_account_id, t.to_account_id, fa.account_number, ta.account_number,
		       t.amount, t.currency, t.status, t.description, t.created_at
		FROM transactions t
		JOIN accounts fa ON fa.id = t.from_account_id
		JOIN accounts ta ON ta.id = t.to_account_id
		WHERE t.from_account_id = $1 OR t.to_account_id = $1
		ORDER BY t.created_at DESC
	`
	args := []any{accountID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var txn models.Transaction
		var status string
		var description sql.NullString
		if err := rows.Scan(
			&txn.ID, &txn.FromAccountID, &txn.ToAccountID,
			&txn.FromAccountNumber, &txn.ToAccountNumber,
			&txn.Amount, &txn.Currency, &status, &description, &txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Status = models.TransactionStatus(status)
		if description.Valid {
			txn.Description = description.String
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
