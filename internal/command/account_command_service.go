package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/eaglebank/ledger-service/internal/utils"
	"github.com/shopspring/decimal"
)

// maxAccountNumberAttempts bounds the retry loop when a freshly generated
// account number collides with an existing one.
const maxAccountNumberAttempts = 5

// AccountWriteStore is the write-model surface the account command service
// needs: inserts and point lookups.
type AccountWriteStore interface {
	Create(account *models.Account) error
	GetByID(id string) (*models.Account, error)
}

// AccountViewCache warms the account read model after a write.
type AccountViewCache interface {
	CacheAccountView(ctx context.Context, view *models.AccountView)
}

// AccountCommandService opens accounts and keeps the account read model in
// sync with committed transfers.
type AccountCommandService struct {
	writeRepo       AccountWriteStore
	readRepo        AccountViewCache
	publisher       EventPublisher
	defaultCurrency string
}

func NewAccountCommandService(
	writeRepo AccountWriteStore,
	readRepo AccountViewCache,
	publisher EventPublisher,
	defaultCurrency string,
) *AccountCommandService {
	return &AccountCommandService{
		writeRepo:       writeRepo,
		readRepo:        readRepo,
		publisher:       publisher,
		defaultCurrency: defaultCurrency,
	}
}

// OpenAccount creates an account with a zero balance and a fresh account
// number. Account numbers are random, so a collision is possible; the insert
// is retried with a new number a bounded number of times before giving up
// with models.ErrAccountNumberExhausted.
func (s *AccountCommandService) OpenAccount(cmd cqrs.OpenAccountCommand) (*models.Account, error) {
	currency := utils.NormalizeCurrency(cmd.Currency, s.defaultCurrency)
	ctx := context.Background()

	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		now := time.Now().UTC()
		account := &models.Account{
			ID:            utils.GenerateID("acc"),
			UserID:        cmd.UserID,
			AccountNumber: utils.GenerateAccountNumber(),
			Currency:      currency,
			Balance:       decimal.Zero,
			Version:       0,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		err := s.writeRepo.Create(account)
		if errors.Is(err, repository.ErrDuplicateAccountNumber) {
			log.Printf("Account number collision on attempt %d, regenerating", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.readRepo.CacheAccountView(ctx, accountToView(account))

		if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountOpened, events.AccountOpenedEvent{
			AccountID:     account.ID,
			AccountNumber: account.AccountNumber,
			UserID:        account.UserID,
			Currency:      account.Currency,
		}); err != nil {
			log.Printf("Failed to publish account.opened event: %v", err)
		}

		return account, nil
	}

	return nil, models.ErrAccountNumberExhausted
}

// HandleTransferEvent refreshes the read views of both accounts touched by a
// committed transfer. Balances are re-read from the write store rather than
// incremented, so redelivered events are harmless.
func (s *AccountCommandService) HandleTransferEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.TransferCompleted {
		return nil
	}

	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	var data events.TransferCompletedEvent
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return fmt.Errorf("failed to unmarshal transfer.completed event: %w", err)
	}

	for _, id := range []string{data.FromAccountID, data.ToAccountID} {
		account, err := s.writeRepo.GetByID(id)
		if err != nil {
			return fmt.Errorf("failed to reload account %s: %w", id, err)
		}
		s.readRepo.CacheAccountView(ctx, accountToView(account))
	}

	log.Printf("Refreshed account views for transaction %s", data.TransactionID)
	return nil
}

func accountToView(account *models.Account) *models.AccountView {
	return &models.AccountView{
		ID:            account.ID,
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		Currency:      account.Currency,
		Balance:       account.Balance,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
}
