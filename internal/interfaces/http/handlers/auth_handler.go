package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/interfaces/http/response"
	"remittease.backend/internal/usecases"
)

type authService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.RegisterResult, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.LoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*entities.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase   authService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler. secureCookies marks the
// session cookie Secure (production).
func NewAuthHandler(authUsecase *usecases.AuthUsecase, secureCookies bool) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, secureCookies: secureCookies}
}

// Register mints a wallet identity and creates the profile
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		if err == domainerrors.ErrUnknownCurrency {
			response.Error(c, domainerrors.BadRequest("Unsupported currency"))
			return
		}
		response.Error(c, err)
		return
	}

	// The recovery secret appears in this response and nowhere else.
	response.Success(c, http.StatusCreated, gin.H{
		"walletAddress":  result.WalletAddress,
		"recoverySecret": result.RecoverySecret,
		"profile":        result.Profile,
	})
}

// Login proves wallet ownership and issues a session cookie
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, result.SessionID, int(usecases.SessionTTL.Seconds()))

	response.Success(c, http.StatusOK, gin.H{
		"session": result.Session,
		"balance": result.Balance,
	})
}

// GetSession returns the session behind the cookie
// GET /api/v1/auth/login, GET /api/v1/auth/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	sessionID, _ := c.Cookie(entities.SessionCookieName)

	session, err := h.authUsecase.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Logout clears the cookie and the server-side session; idempotent
// DELETE /api/v1/auth/login
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, _ := c.Cookie(entities.SessionCookieName)

	if err := h.authUsecase.Logout(c.Request.Context(), sessionID); err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sessionID string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(entities.SessionCookieName, sessionID, maxAge, "/", "", h.secureCookies, true)
}
