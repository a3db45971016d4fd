package command

import (
	"context"
	"log"
	"time"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/utils"
)

// UserWriteStore is the write-model surface the user command service needs.
type UserWriteStore interface {
	Create(user *models.User) error
}

// UserViewCache warms the user read model after a write.
type UserViewCache interface {
	CacheUserView(ctx context.Context, view *models.UserView)
}

// UserCommandService registers users.
type UserCommandService struct {
	writeRepo UserWriteStore
	readRepo  UserViewCache
	publisher EventPublisher
}

func NewUserCommandService(writeRepo UserWriteStore, readRepo UserViewCache, publisher EventPublisher) *UserCommandService {
	return &UserCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

// CreateUser registers a new user. The email must be unique; a duplicate
// surfaces as models.ErrEmailTaken.
func (s *UserCommandService) CreateUser(cmd cqrs.CreateUserCommand) (*models.User, error) {
	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.writeRepo.Create(user); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.readRepo.CacheUserView(ctx, &models.UserView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})

	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}); err != nil {
		log.Printf("Failed to publish user.created event: %v", err)
	}

	return user, nil
}
