package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/utils"
	"github.com/shopspring/decimal"
)

// TransferAccountStore resolves the current write-model state of an account.
type TransferAccountStore interface {
	GetByID(id string) (*models.Account, error)
}

// TransferLog commits a transfer: both balance mutations and the transaction
// append as one atomic unit. A non-nil guardVersion makes the debit
// conditional on the version observed at read time.
type TransferLog interface {
	AppendTransfer(ctx context.Context, txn *models.Transaction, guardVersion *int64) error
}

// EventPublisher publishes domain events to a stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// TransferCommandService moves money between two accounts. It validates
// against a snapshot of both accounts, then hands the balance mutations and
// the log append to the TransferLog as a single atomic commit.
//
// With optimistic=false (the historical behavior) the funds check and the
// debit are not serialized against concurrent transfers: two transfers
// debiting the same account can both pass the check on a stale snapshot and
// both commit, overdrawing the account. With optimistic=true a losing
// concurrent writer gets models.ErrTransferConflict and may retry.
type TransferCommandService struct {
	accounts   TransferAccountStore
	ledger     TransferLog
	publisher  EventPublisher
	optimistic bool
}

func NewTransferCommandService(
	accounts TransferAccountStore,
	ledger TransferLog,
	publisher EventPublisher,
	optimistic bool,
) *TransferCommandService {
	return &TransferCommandService{
		accounts:   accounts,
		ledger:     ledger,
		publisher:  publisher,
		optimistic: optimistic,
	}
}

// Transfer executes the transfer protocol. Every check fails fast and aborts
// the whole transfer with no mutation.
func (s *TransferCommandService) Transfer(cmd cqrs.TransferCommand) (*models.Transaction, error) {
	if cmd.FromAccountID == cmd.ToAccountID {
		return nil, models.ErrSelfTransfer
	}
	if cmd.Amount.Cmp(decimal.Zero) <= 0 {
		return nil, models.ErrNonPositiveAmount
	}

	from, err := s.accounts.GetByID(cmd.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accounts.GetByID(cmd.ToAccountID)
	if err != nil {
		return nil, err
	}

	if from.UserID != cmd.RequestingUserID {
		return nil, models.ErrForbidden
	}
	if from.Currency != to.Currency {
		return nil, fmt.Errorf("%w: %s vs %s", models.ErrCurrencyMismatch, from.Currency, to.Currency)
	}
	if from.Balance.Cmp(cmd.Amount) < 0 {
		return nil, models.ErrInsufficientFunds
	}

	txn := &models.Transaction{
		ID:                utils.GenerateID("tan"),
		FromAccountID:     from.ID,
		ToAccountID:       to.ID,
		FromAccountNumber: from.AccountNumber,
		ToAccountNumber:   to.AccountNumber,
		Amount:            cmd.Amount,
		Currency:          from.Currency,
		Status:            models.TransactionCompleted,
		Description:       cmd.Description,
		CreatedAt:         time.Now().UTC(),
	}

	var guard *int64
	if s.optimistic {
		v := from.Version
		guard = &v
	}

	ctx := context.Background()
	if err := s.ledger.AppendTransfer(ctx, txn, guard); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.TransferEventsStream, events.TransferCompleted, events.TransferCompletedEvent{
		TransactionID: txn.ID,
		FromAccountID: txn.FromAccountID,
		ToAccountID:   txn.ToAccountID,
		Amount:        txn.Amount,
		Currency:      txn.Currency,
	}); err != nil {
		log.Printf("Failed to publish transfer.completed event: %v", err)
	}

	return txn, nil
}
