package handler

import (
	"errors"
	"net/http"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransferCommander defines the write-side operations used by TransferHandler.
type TransferCommander interface {
	Transfer(cqrs.TransferCommand) (*models.Transaction, error)
}

// TransferHandler handles transfer creation.
type TransferHandler struct {
	commands TransferCommander
}

type TransferRequest struct {
	FromAccountID string          `json:"fromAccountId" validate:"required"`
	ToAccountID   string          `json:"toAccountId" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Description   string          `json:"description" validate:"omitempty,max=255"`
}

func NewTransferHandler(commands TransferCommander) *TransferHandler {
	return &TransferHandler{commands: commands}
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	txn, err := h.commands.Transfer(cqrs.TransferCommand{
		FromAccountID:    req.FromAccountID,
		ToAccountID:      req.ToAccountID,
		RequestingUserID: userID,
		Amount:           req.Amount,
		Description:      req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSelfTransfer),
			errors.Is(err, models.ErrNonPositiveAmount),
			errors.Is(err, models.ErrCurrencyMismatch):
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrAccountNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case errors.Is(err, models.ErrForbidden):
			middleware.RespondWithError(c, http.StatusForbidden, "You can only transfer from your own accounts")
		case errors.Is(err, models.ErrInsufficientFunds):
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Insufficient funds")
		case errors.Is(err, models.ErrTransferConflict):
			middleware.RespondWithError(c, http.StatusConflict, "Transfer conflicted with a concurrent update, please retry")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create transfer")
		}
		return
	}

	c.JSON(http.StatusCreated, txn)
}
