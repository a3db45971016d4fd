package query

import (
	"context"
	"strings"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/models"
)

// TransactionScanner loads an account's transaction history from storage,
// newest first. A limit of 0 means unbounded.
type TransactionScanner interface {
	ListForAccount(ctx context.Context, accountID string, limit int) ([]models.Transaction, error)
}

// AccountResolver resolves the account whose history is being viewed.
type AccountResolver interface {
	GetByID(ctx context.Context, id string) (*models.AccountView, error)
}

// TransactionQueryService serves per-account transaction history.
//
// Filtering happens in memory over the scanned rows. With scanLimit=0 (the
// historical behavior) the scan loads the account's entire history regardless
// of how narrow the filters are; a positive scanLimit caps the scan at the
// N most recent rows, trading completeness for a bounded working set.
type TransactionQueryService struct {
	txns      TransactionScanner
	accounts  AccountResolver
	scanLimit int
}

func NewTransactionQueryService(txns TransactionScanner, accounts AccountResolver, scanLimit int) *TransactionQueryService {
	return &TransactionQueryService{
		txns:      txns,
		accounts:  accounts,
		scanLimit: scanLimit,
	}
}

// ListTransactions returns the account's history, newest first, with all
// requested filters applied. Time and amount bounds are inclusive. Direction
// matching is case-insensitive; anything other than IN or OUT (including
// empty) matches every transaction.
func (s *TransactionQueryService) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	ctx := context.Background()

	account, err := s.accounts.GetByID(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != q.RequestingUserID {
		return nil, models.ErrForbidden
	}

	all, err := s.txns.ListForAccount(ctx, q.AccountID, s.scanLimit)
	if err != nil {
		return nil, err
	}

	views := make([]models.TransactionView, 0, len(all))
	for i := range all {
		txn := &all[i]

		if q.From != nil && txn.CreatedAt.Before(*q.From) {
			continue
		}
		if q.To != nil && txn.CreatedAt.After(*q.To) {
			continue
		}

		switch strings.ToUpper(q.Direction) {
		case models.DirectionIn:
			if txn.ToAccountID != q.AccountID {
				continue
			}
		case models.DirectionOut:
			if txn.FromAccountID != q.AccountID {
				continue
			}
		default:
			// No direction filtering.
		}

		if q.MinAmount != nil && txn.Amount.Cmp(*q.MinAmount) < 0 {
			continue
		}
		if q.MaxAmount != nil && txn.Amount.Cmp(*q.MaxAmount) > 0 {
			continue
		}

		views = append(views, transactionToView(txn, q.AccountID))
	}

	return views, nil
}

// transactionToView labels the transaction relative to the viewed account:
// IN when the account is the destination, OUT otherwise.
func transactionToView(txn *models.Transaction, viewedAccountID string) models.TransactionView {
	direction := models.DirectionOut
	if txn.ToAccountID == viewedAccountID {
		direction = models.DirectionIn
	}
	return models.TransactionView{
		ID:                txn.ID,
		FromAccountNumber: txn.FromAccountNumber,
		ToAccountNumber:   txn.ToAccountNumber,
		Amount:            txn.Amount,
		Currency:          txn.Currency,
		Status:            string(txn.Status),
		Direction:         direction,
		Description:       txn.Description,
		CreatedAt:         txn.CreatedAt,
	}
}
