package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eaglebank/ledger-service/internal/models"
	ledgerredis "github.com/eaglebank/ledger-service/internal/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const accountViewKeyPrefix = "account:view:"

// accountCacheEntry is the internal Redis representation of an account.
// Unlike models.AccountView, it serialises UserID so ownership checks can be
// answered from the cache without touching PostgreSQL.
type accountCacheEntry struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	AccountNumber string          `json:"accountNumber"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdTimestamp"`
	UpdatedAt     time.Time       `json:"updatedTimestamp"`
}

// AccountReadRepository handles all read operations for accounts.
// It treats Redis as the primary read store (the CQRS read model) and falls
// back to PostgreSQL transparently, warming the cache on every cold read.
type AccountReadRepository struct {
	db    *sql.DB
	cache *ledgerredis.ViewCache[accountCacheEntry]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: ledgerredis.NewViewCache[accountCacheEntry](redisClient, 0),
	}
}

// cacheEntryToView converts an internal cache entry back to a public AccountView.
func cacheEntryToView(e *accountCacheEntry) *models.AccountView {
	return &models.AccountView{
		ID:            e.ID,
		UserID:        e.UserID,
		AccountNumber: e.AccountNumber,
		Currency:      e.Currency,
		Balance:       e.Balance,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// GetByID returns an AccountView, trying Redis first then PostgreSQL.
func (r *AccountReadRepository) GetByID(ctx context.Context, id string) (*models.AccountView, error) {
	cacheKey := accountViewKeyPrefix + id

	if entry, ok := r.cache.Get(ctx, cacheKey); ok {
		return cacheEntryToView(entry), nil
	}

	// Fallback: PostgreSQL — include user_id so the service can enforce ownership.
	query := `
		SELECT id, user_id, account_number, currency, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var view models.AccountView
	pgErr := r.db.QueryRow(query, id).Scan(
		&view.ID, &view.UserID, &view.AccountNumber, &view.Currency,
		&view.Balance, &view.CreatedAt, &view.UpdatedAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get account: %w", pgErr)
	}

	// Warm the cache
	r.CacheAccountView(ctx, &view)
	return &view, nil
}

// ListByUserID returns all AccountViews for the given user from PostgreSQL,
// newest first.
func (r *AccountReadRepository) ListByUserID(ctx context.Context, userID string) ([]models.AccountView, error) {
	query := `
		SELECT id, user_id, account_number, currency, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var views []models.AccountView
	for rows.Next() {
		var view models.AccountView
		if err := rows.Scan(
			&view.ID, &view.UserID, &view.AccountNumber, &view.Currency,
			&view.Balance, &view.CreatedAt, &view.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		views = append(views, view)
	}
	return views, nil
}

// CacheAccountView stores or refreshes the Redis read model for an account.
// Called by the command service after every mutation to keep the read model current.
func (r *AccountReadRepository) CacheAccountView(ctx context.Context, view *models.AccountView) {
	entry := &accountCacheEntry{
		ID:            view.ID,
		UserID:        view.UserID,
		AccountNumber: view.AccountNumber,
		Currency:      view.Currency,
		Balance:       view.Balance,
		CreatedAt:     view.CreatedAt,
		UpdatedAt:     view.UpdatedAt,
	}
	r.cache.Set(ctx, accountViewKeyPrefix+view.ID, entry)
}

// InvalidateAccountView removes the Redis read model entry for an account.
func (r *AccountReadRepository) InvalidateAccountView(ctx context.Context, id string) {
	r.cache.Delete(ctx, accountViewKeyPrefix+id)
}
