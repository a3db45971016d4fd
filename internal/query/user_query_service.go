package query

import (
	"context"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/models"
)

// UserViewReader is the read-model surface the user query service needs.
type UserViewReader interface {
	GetByID(ctx context.Context, id string) (*models.UserView, error)
}

// UserQueryService serves user read models.
type UserQueryService struct {
	readRepo UserViewReader
}

func NewUserQueryService(readRepo UserViewReader) *UserQueryService {
	return &UserQueryService{readRepo: readRepo}
}

func (s *UserQueryService) GetUser(q cqrs.GetUserQuery) (*models.UserView, error) {
	return s.readRepo.GetByID(context.Background(), q.UserID)
}
