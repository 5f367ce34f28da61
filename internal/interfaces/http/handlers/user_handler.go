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

type profileService interface {
	GetProfile(ctx context.Context, walletAddress string) (*entities.UserProfile, error)
	UpdateProfile(ctx context.Context, walletAddress string, input *entities.UpdateProfileInput) (*entities.UserProfile, error)
	Dashboard(ctx context.Context, walletAddress string) (*usecases.DashboardSummary, error)
}

// UserHandler handles profile and dashboard endpoints
type UserHandler struct {
	userUsecase profileService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUsecase *usecases.UserUsecase) *UserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

// GetProfile returns the session wallet's profile
// GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return
	}

	profile, err := h.userUsecase.GetProfile(c.Request.Context(), owner)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			response.Error(c, domainerrors.NotFound("Profile not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile applies the provided profile fields
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return
	}

	profile, err := h.userUsecase.UpdateProfile(c.Request.Context(), owner, &input)
	if err != nil {
		if err == domainerrors.ErrUnknownCurrency {
			response.Error(c, domainerrors.BadRequest("Unsupported currency"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// Dashboard returns profile, balance and recent transfers in one call
// GET /api/v1/dashboard
func (h *UserHandler) Dashboard(c *gin.Context) {
	owner, ok := middleware.GetWalletAddress(c)
	if !ok {
		response.Error(c, domainerrors.NotAuthenticated())
		return
	}

	summary, err := h.userUsecase.Dashboard(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
