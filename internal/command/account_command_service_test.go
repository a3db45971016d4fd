package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/eaglebank/ledger-service/internal/utils"
)

// ---- fakes ----

type fakeAccountWriteStore struct {
	accounts   map[string]*models.Account
	created    []*models.Account
	duplicates int // number of initial Create calls to reject as duplicates
}

func (f *fakeAccountWriteStore) Create(account *models.Account) error {
	if f.duplicates > 0 {
		f.duplicates--
		return repository.ErrDuplicateAccountNumber
	}
	f.created = append(f.created, account)
	if f.accounts == nil {
		f.accounts = make(map[string]*models.Account)
	}
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountWriteStore) GetByID(id string) (*models.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	snapshot := *account
	return &snapshot, nil
}

type fakeAccountViewCache struct {
	cached []*models.AccountView
}

func (f *fakeAccountViewCache) CacheAccountView(_ context.Context, view *models.AccountView) {
	f.cached = append(f.cached, view)
}

// ---- tests ----

func TestOpenAccountDefaults(t *testing.T) {
	tests := []struct {
		name         string
		currency     string
		wantCurrency string
	}{
		{"blank currency falls back to default", "", "USD"},
		{"lowercase currency is uppercased", "eur", "EUR"},
		{"explicit currency kept", "GBP", "GBP"},
		{"surrounding whitespace trimmed", "  sek  ", "SEK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeAccountWriteStore{}
			cache := &fakeAccountViewCache{}
			publisher := &recordingPublisher{}
			svc := NewAccountCommandService(store, cache, publisher, "USD")

			account, err := svc.OpenAccount(cqrs.OpenAccountCommand{
				UserID:   "usr-alice",
				Currency: tt.currency,
			})
			if err != nil {
				t.Fatalf("OpenAccount returned error: %v", err)
			}

			if account.Currency != tt.wantCurrency {
				t.Errorf("expected currency %s, got %s", tt.wantCurrency, account.Currency)
			}
			if !account.Balance.IsZero() {
				t.Errorf("expected zero opening balance, got %s", account.Balance)
			}
			if account.Version != 0 {
				t.Errorf("expected version 0, got %d", account.Version)
			}
			if !strings.HasPrefix(account.ID, "acc-") {
				t.Errorf("expected acc- prefixed ID, got %q", account.ID)
			}
			if !utils.ValidateAccountNumber(account.AccountNumber) {
				t.Errorf("invalid account number %q", account.AccountNumber)
			}
			if len(cache.cached) != 1 {
				t.Errorf("expected the view to be warmed once, got %d", len(cache.cached))
			}
			if len(publisher.events) != 1 || publisher.events[0] != events.AccountOpened {
				t.Errorf("expected one account.opened event, got %v", publisher.events)
			}
		})
	}
}

func TestOpenAccountRetriesOnNumberCollision(t *testing.T) {
	store := &fakeAccountWriteStore{duplicates: 2}
	svc := NewAccountCommandService(store, &fakeAccountViewCache{}, &recordingPublisher{}, "USD")

	account, err := svc.OpenAccount(cqrs.OpenAccountCommand{UserID: "usr-alice"})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected exactly one persisted account, got %d", len(store.created))
	}
	if account.ID != store.created[0].ID {
		t.Errorf("returned account does not match persisted account")
	}
}

func TestOpenAccountGivesUpAfterBoundedAttempts(t *testing.T) {
	store := &fakeAccountWriteStore{duplicates: maxAccountNumberAttempts}
	svc := NewAccountCommandService(store, &fakeAccountViewCache{}, &recordingPublisher{}, "USD")

	_, err := svc.OpenAccount(cqrs.OpenAccountCommand{UserID: "usr-alice"})
	if !errors.Is(err, models.ErrAccountNumberExhausted) {
		t.Fatalf("expected ErrAccountNumberExhausted, got %v", err)
	}
	if len(store.created) != 0 {
		t.Errorf("expected no persisted accounts, got %d", len(store.created))
	}
}

func TestHandleTransferEventRefreshesBothViews(t *testing.T) {
	store := &fakeAccountWriteStore{
		accounts: map[string]*models.Account{
			"acc-a": {ID: "acc-a", UserID: "usr-alice", AccountNumber: "1000000001", Currency: "USD", Balance: dec("700")},
			"acc-b": {ID: "acc-b", UserID: "usr-bob", AccountNumber: "1000000002", Currency: "USD", Balance: dec("350")},
		},
	}
	cache := &fakeAccountViewCache{}
	svc := NewAccountCommandService(store, cache, &recordingPublisher{}, "USD")

	// Event data arrives as a generic map after JSON decoding from the stream.
	err := svc.HandleTransferEvent(context.Background(), events.Event{
		Type: events.TransferCompleted,
		Data: map[string]any{
			"transactionId": "tan-001",
			"fromAccountId": "acc-a",
			"toAccountId":   "acc-b",
			"amount":        "300",
			"currency":      "USD",
		},
	})
	if err != nil {
		t.Fatalf("HandleTransferEvent returned error: %v", err)
	}

	if len(cache.cached) != 2 {
		t.Fatalf("expected both views refreshed, got %d", len(cache.cached))
	}
	if !cache.cached[0].Balance.Equal(dec("700")) || !cache.cached[1].Balance.Equal(dec("350")) {
		t.Errorf("refreshed views carry wrong balances: %s, %s", cache.cached[0].Balance, cache.cached[1].Balance)
	}
}

func TestHandleTransferEventIgnoresOtherTypes(t *testing.T) {
	cache := &fakeAccountViewCache{}
	svc := NewAccountCommandService(&fakeAccountWriteStore{}, cache, &recordingPublisher{}, "USD")

	err := svc.HandleTransferEvent(context.Background(), events.Event{Type: events.UserCreated})
	if err != nil {
		t.Fatalf("expected nil for unrelated event type, got %v", err)
	}
	if len(cache.cached) != 0 {
		t.Errorf("expected no view refreshes, got %d", len(cache.cached))
	}
}
