package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/interfaces/http/middleware"
	"remittease.backend/internal/interfaces/http/response"
	"remittease.backend/internal/usecases"
)

type draftService interface {
	CreateDraft(ctx context.Context, owner string) (*entities.TransferDraft, error)
	GetDraft(ctx context.Context, owner, draftID string) (*entities.TransferDraft, error)
	SetAmount(ctx context.Context, owner, draftID, sourceCurrency, destCurrency, amount string) (*entities.TransferDraft, error)
	SetRecipient(ctx context.Context, owner, draftID string, recipient *entities.Recipient) (*entities.TransferDraft, error)
	Back(ctx context.Context, owner, draftID string) (*entities.TransferDraft, error)
	Confirm(ctx context.Context, owner, draftID, secret string) (*entities.TransferRecord, *entities.TransferDraft, error)
}

// AmountInput sets the wizard's currencies and source amount.
type AmountInput struct {
	SourceCurrency string `json:"sourceCurrency" binding:"required"`
	DestCurrency   string `json:"destCurrency" binding:"required"`
	Amount         string `json:"amount" binding:"required"`
}

// ConfirmInput authorizes the on-chain submission.
type ConfirmInput struct {
	Secret string `json:"secret" binding:"required"`
}

// TransferHandler drives the send-money wizard over HTTP
type TransferHandler struct {
	transferUsecase draftService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferUsecase *usecases.TransferUsecase) *TransferHandler {
	return &TransferHandler{transferUsecase: transferUsecase}
}

// CreateDraft opens a wizard run
// POST /api/v1/transfers/drafts
func (h *TransferHandler) CreateDraft(c *gin.Context) {
	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return
	}

	draft, err := h.transferUsecase.CreateDraft(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"draft": draft})
}

// GetDraft reads the wizard state
// GET /api/v1/transfers/drafts/:id
func (h *TransferHandler) GetDraft(c *gin.Context) {
	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return
	}

	draft, err := h.transferUsecase.GetDraft(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"draft": draft})
}

// SetAmount records currencies and amount, returning the fresh quote
// PUT /api/v1/transfers/drafts/:id/amount
func (h *TransferHandler) SetAmount(c *gin.Context) {
	var input AmountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return
	}

	draft, err := h.transferUsecase.SetAmount(c.Request.Context(), owner, c.Param("id"), input.SourceCurrency, input.DestCurrency, input.Amount)
	if err != nil {
		if err == domainerrors.ErrUnknownCurrency {
			response.Error(c, domainerrors.BadRequest("Unsupported currency"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"draft": draft, "quote": draft.Quote})
}

// SetRecipient records the payout destination
// PUT /api/v1/transfers/drafts/:id/recipient
func (h *TransferHandler) SetRecipient(c *gin.Context) {
	var recipient entities.Recipient
	if err := c.ShouldBindJSON(&recipient); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return
	}

	draft, err := h.transferUsecase.SetRecipient(c.Request.Context(), owner, c.Param("id"), &recipient)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"draft": draft})
}

// Back steps the wizard backwards without losing entered data
// POST /api/v1/transfers/drafts/:id/back
func (h *TransferHandler) Back(c *gin.Context) {
	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return
	}

	draft, err := h.transferUsecase.Back(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"draft": draft})
}

// Confirm submits the reviewed draft on-chain. A drifted exchange rate
// returns 409 with the draft re-quoted; the client reviews and confirms
// again.
// POST /api/v1/transfers/drafts/:id/confirm
func (h *TransferHandler) Confirm(c *gin.Context) {
	var input ConfirmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return
	}

	record, draft, err := h.transferUsecase.Confirm(c.Request.Context(), owner, c.Param("id"), input.Secret)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"record": record, "draft": draft})
}
