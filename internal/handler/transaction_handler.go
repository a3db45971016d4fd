package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	ListTransactions(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

// TransactionHandler serves per-account transaction history.
type TransactionHandler struct {
	queries TransactionQuerier
}

type ListTransactionsResponse struct {
	Transactions []models.TransactionView `json:"transactions"`
}

func NewTransactionHandler(queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{queries: queries}
}

// ListTransactions handles GET /v1/accounts/:accountId/transactions.
// Optional query params: from, to (RFC 3339, inclusive), direction (IN/OUT,
// case-insensitive), minAmount, maxAmount (decimal, inclusive).
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	accountID := c.Param("accountId")
	userID, _ := middleware.GetUserID(c)

	q := cqrs.ListTransactionsQuery{
		AccountID:        accountID,
		RequestingUserID: userID,
		Direction:        c.Query("direction"),
	}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' filter, expected RFC 3339 timestamp")
			return
		}
		q.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' filter, expected RFC 3339 timestamp")
			return
		}
		q.To = &t
	}
	if raw := c.Query("minAmount"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid 'minAmount' filter")
			return
		}
		q.MinAmount = &d
	}
	if raw := c.Query("maxAmount"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid 'maxAmount' filter")
			return
		}
		q.MaxAmount = &d
	}

	views, err := h.queries.ListTransactions(q)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			middleware.RespondWithError(c, http.StatusForbidden, "You can only view your own transactions")
			return
		}
		if errors.Is(err, models.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: views})
}
