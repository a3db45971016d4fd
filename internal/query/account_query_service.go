package query

import (
	"context"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/models"
)

// AccountViewReader is the read-model surface the account query service needs.
type AccountViewReader interface {
	GetByID(ctx context.Context, id string) (*models.AccountView, error)
	ListByUserID(ctx context.Context, userID string) ([]models.AccountView, error)
}

// AccountQueryService serves account read models.
type AccountQueryService struct {
	readRepo AccountViewReader
}

func NewAccountQueryService(readRepo AccountViewReader) *AccountQueryService {
	return &AccountQueryService{readRepo: readRepo}
}

// GetAccount returns one account. Only the owner may see it; everyone else
// gets models.ErrForbidden regardless of whether the account exists, once it
// has been resolved.
func (s *AccountQueryService) GetAccount(q cqrs.GetAccountQuery) (*models.AccountView, error) {
	view, err := s.readRepo.GetByID(context.Background(), q.AccountID)
	if err != nil {
		return nil, err
	}
	if view.UserID != q.RequestingUserID {
		return nil, models.ErrForbidden
	}
	return view, nil
}

// ListAccounts returns all accounts owned by the user, newest first.
func (s *AccountQueryService) ListAccounts(q cqrs.ListAccountsQuery) ([]models.AccountView, error) {
	return s.readRepo.ListByUserID(context.Background(), q.UserID)
}
