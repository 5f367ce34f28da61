package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserProfile is the durable record for a wallet holder, keyed by the
// normalized (lower-case) wallet address.
type UserProfile struct {
	ID            uuid.UUID `json:"id"`
	WalletAddress string    `json:"walletAddress"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdAt"`
	LastLoginAt   null.Time `json:"lastLoginAt,omitempty"`
}

// DefaultProfileName is assigned when a wallet logs in before registering.
const DefaultProfileName = "RemittEase User"

// DefaultCurrency is the settlement currency assigned to unseen wallets.
const DefaultCurrency = "USD"

// RegisterInput represents input for creating an account plus wallet identity
type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Currency string `json:"currency" binding:"required"`
}

// LoginInput represents input for wallet-secret login
type LoginInput struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	Secret        string `json:"secret" binding:"required"`
}

// UpdateProfileInput represents editable profile fields
type UpdateProfileInput struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
	Currency string `json:"currency" binding:"omitempty"`
}

// RegisterResult carries the one-time recovery secret back to the caller.
// The secret is never persisted.
type RegisterResult struct {
	WalletAddress  string       `json:"walletAddress"`
	RecoverySecret string       `json:"recoverySecret"`
	Profile        *UserProfile `json:"profile"`
}

// LoginResult is the authenticated session plus a best-effort balance.
type LoginResult struct {
	Session   *Session `json:"session"`
	SessionID string   `json:"-"`
	Balance   string   `json:"balance"`
}

// NormalizeAddress lower-cases a wallet address. All persistence and
// comparison happens on this form; checksummed casing is render-only.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
