package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/infrastructure/blockchain"
	"remittease.backend/internal/interfaces/http/middleware"
	"remittease.backend/internal/interfaces/http/response"
	"remittease.backend/internal/usecases"
	"remittease.backend/pkg/utils"
)

type sendService interface {
	Send(ctx context.Context, requestID, from, to, value, secret string) (*usecases.SendResult, error)
	EstimateSend(ctx context.Context, from, to, value string) (*blockchain.FeeEstimate, error)
}

type feedService interface {
	Feed(ctx context.Context, address string, limit, offset int) (*usecases.FeedResult, error)
	TransactionByHash(ctx context.Context, txHash string) (*usecases.TransactionDetail, error)
	Balance(ctx context.Context, address string) (string, error)
}

type rateBook interface {
	Rates() *entities.RateTable
}

// SendInput is the direct on-chain send request body.
type SendInput struct {
	From   string `json:"from"`
	To     string `json:"to" binding:"required"`
	Value  string `json:"value" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

// WalletHandler handles balance, rates, direct sends and the feed
type WalletHandler struct {
	sends  sendService
	feed   feedService
	quotes rateBook
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(transferUsecase *usecases.TransferUsecase, feedUsecase *usecases.FeedUsecase, quoteUsecase *usecases.QuoteUsecase) *WalletHandler {
	return &WalletHandler{sends: transferUsecase, feed: feedUsecase, quotes: quoteUsecase}
}

// GetBalance returns the formatted native balance
// GET /api/v1/wallet/balance?address=
func (h *WalletHandler) GetBalance(c *gin.Context) {
	address, ok := h.resolveAddress(c)
	if !ok {
		return
	}

	balance, err := h.feed.Balance(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"address": address,
		"balance": balance,
	})
}

// GetRates returns the current exchange-rate table
// GET /api/v1/wallet/rates
func (h *WalletHandler) GetRates(c *gin.Context) {
	table := h.quotes.Rates()
	response.Success(c, http.StatusOK, gin.H{
		"rates":     table.Rates,
		"timestamp": table.Timestamp,
	})
}

// EstimateSend prices a transfer without side effects
// GET /api/v1/wallet/send?from=&to=&value=
func (h *WalletHandler) EstimateSend(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	value := c.Query("value")
	if from == "" || to == "" || value == "" {
		response.Error(c, domainerrors.BadRequest("from, to and value are required"))
		return
	}

	est, err := h.sends.EstimateSend(c.Request.Context(), from, to, value)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, est)
}

// Send submits a direct transfer: estimate, sign, broadcast
// POST /api/v1/wallet/send
func (h *WalletHandler) Send(c *gin.Context) {
	var input SendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return
	}
	// The session wallet is the only permitted sender.
	if input.From == "" {
		input.From = owner
	}
	if entities.NormalizeAddress(input.From) != owner {
		response.Error(c, domainerrors.Forbidden("from address must match the session wallet"))
		return
	}

	requestID := c.GetHeader(middleware.IdempotencyHeader)
	result, err := h.sends.Send(c.Request.Context(), requestID, input.From, input.To, input.Value, input.Secret)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// ListTransactions returns the merged transaction feed, or one enriched
// transfer when txHash is given
// GET /api/v1/wallet/transactions?address=&limit=&offset=&txHash=
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	if txHash := c.Query("txHash"); txHash != "" {
		detail, err := h.feed.TransactionByHash(c.Request.Context(), txHash)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, detail)
		return
	}

	address, ok := h.resolveAddress(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	limit = utils.ClampFeedLimit(limit)
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	feed, err := h.feed.Feed(c.Request.Context(), address, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, feed)
}

// resolveAddress reads the address query param, falling back to the
// session wallet.
func (h *WalletHandler) resolveAddress(c *gin.Context) (string, bool) {
	if address := c.Query("address"); address != "" {
		return entities.NormalizeAddress(address), true
	}
	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return "", false
	}
	return owner, true
}
