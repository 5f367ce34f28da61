package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/interfaces/http/response"
)

const (
	// SessionKey is the context key for the resolved session
	SessionKey = "session"
	// WalletAddressKey is the context key for the authenticated wallet
	WalletAddressKey = "walletAddress"
)

// SessionResolver turns an opaque session id back into a live session.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*entities.Session, error)
}

// SessionAuthMiddleware authenticates requests by the session cookie.
// The cookie holds only an opaque id; the session itself lives
// server-side and is resolved on every request.
func SessionAuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(entities.SessionCookieName)
		if err != nil || sessionID == "" {
			response.Error(c, domainerrors.NotAuthenticated())
			c.Abort()
			return
		}

		session, err := resolver.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(SessionKey, session)
		c.Set(WalletAddressKey, session.WalletAddress)
		c.Next()
	}
}

// GetSession gets the resolved session from context
func GetSession(c *gin.Context) (*entities.Session, bool) {
	val, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	session, ok := val.(*entities.Session)
	return session, ok
}

// GetWalletAddress gets the authenticated wallet address from context
func GetWalletAddress(c *gin.Context) (string, bool) {
	val, exists := c.Get(WalletAddressKey)
	if !exists {
		return "", false
	}
	address, ok := val.(string)
	return address, ok
}
