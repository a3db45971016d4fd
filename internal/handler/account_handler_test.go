package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ---- mock implementations ----

type mockAccountCommander struct {
	openFn func(cqrs.OpenAccountCommand) (*models.Account, error)
}

func (m *mockAccountCommander) OpenAccount(cmd cqrs.OpenAccountCommand) (*models.Account, error) {
	if m.openFn != nil {
		return m.openFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockAccountQuerier struct {
	getFn  func(cqrs.GetAccountQuery) (*models.AccountView, error)
	listFn func(cqrs.ListAccountsQuery) ([]models.AccountView, error)
}

func (m *mockAccountQuerier) GetAccount(q cqrs.GetAccountQuery) (*models.AccountView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccountQuerier) ListAccounts(q cqrs.ListAccountsQuery) ([]models.AccountView, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newAccountTestRouter(cmds AccountCommander, qrys AccountQuerier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(authUserID))
	h := NewAccountHandler(cmds, qrys)
	r.POST("/v1/accounts", h.OpenAccount)
	r.GET("/v1/accounts", h.ListAccounts)
	r.GET("/v1/accounts/:accountId", h.GetAccount)
	return r
}

// ---- test data ----

var aTestAccount = &models.Account{
	ID: "acc-0000000001", UserID: "usr-alice", AccountNumber: "1000000001",
	Currency: "USD", Balance: decimal.Zero,
	CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
}

var aTestAccountView = &models.AccountView{
	ID: "acc-0000000001", UserID: "usr-alice", AccountNumber: "1000000001",
	Currency: "USD", Balance: decimal.NewFromInt(100),
	CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
}

// ---- tests ----

func TestOpenAccount(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		openFn         func(cqrs.OpenAccountCommand) (*models.Account, error)
		expectedStatus int
	}{
		{
			name: "success - explicit currency",
			body: map[string]any{"currency": "EUR"},
			openFn: func(cqrs.OpenAccountCommand) (*models.Account, error) {
				return aTestAccount, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "success - empty body uses default currency",
			body: map[string]any{},
			openFn: func(cqrs.OpenAccountCommand) (*models.Account, error) {
				return aTestAccount, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - numeric currency",
			body:           map[string]any{"currency": "123"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "conflict - account numbers exhausted",
			body: map[string]any{},
			openFn: func(cqrs.OpenAccountCommand) (*models.Account, error) {
				return nil, models.ErrAccountNumberExhausted
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "internal error",
			body: map[string]any{},
			openFn: func(cqrs.OpenAccountCommand) (*models.Account, error) {
				return nil, fmt.Errorf("db is down")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountCommander{openFn: tt.openFn}, &mockAccountQuerier{}, "usr-alice")

			w := doRequest(router, http.MethodPost, "/v1/accounts", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetAccount(t *testing.T) {
	tests := []struct {
		name           string
		getFn          func(cqrs.GetAccountQuery) (*models.AccountView, error)
		expectedStatus int
	}{
		{
			name: "success",
			getFn: func(cqrs.GetAccountQuery) (*models.AccountView, error) {
				return aTestAccountView, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "forbidden - not the owner",
			getFn: func(cqrs.GetAccountQuery) (*models.AccountView, error) {
				return nil, models.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "not found",
			getFn: func(cqrs.GetAccountQuery) (*models.AccountView, error) {
				return nil, models.ErrAccountNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountCommander{}, &mockAccountQuerier{getFn: tt.getFn}, "usr-alice")

			w := doRequest(router, http.MethodGet, "/v1/accounts/acc-0000000001", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestListAccounts(t *testing.T) {
	router := newAccountTestRouter(&mockAccountCommander{}, &mockAccountQuerier{
		listFn: func(q cqrs.ListAccountsQuery) ([]models.AccountView, error) {
			if q.UserID != "usr-alice" {
				t.Errorf("expected usr-alice, got %q", q.UserID)
			}
			return []models.AccountView{*aTestAccountView}, nil
		},
	}, "usr-alice")

	w := doRequest(router, http.MethodGet, "/v1/accounts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ListAccountsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(resp.Accounts) != 1 || resp.Accounts[0].AccountNumber != "1000000001" {
		t.Errorf("unexpected accounts payload: %+v", resp.Accounts)
	}
}
