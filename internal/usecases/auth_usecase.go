package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/domain/repositories"
	"remittease.backend/pkg/jwt"
	"remittease.backend/pkg/redis"
	"remittease.backend/pkg/wallet"
)

// SessionTTL is how long an issued session (and its cookie) lives.
const SessionTTL = 7 * 24 * time.Hour

// SessionStore persists encrypted session data keyed by an opaque id.
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	UpdateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// BalanceProvider reads a wallet's native balance from the chain.
type BalanceProvider interface {
	GetBalance(ctx context.Context, address string) (string, error)
}

// CurrencyBook answers whether a currency code can be quoted.
type CurrencyBook interface {
	KnownCurrency(code string) bool
}

// AuthUsecase handles wallet-based authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
	sessions   SessionStore
	provider   BalanceProvider
	currencies CurrencyBook
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	jwtService *jwt.JWTService,
	sessions SessionStore,
	provider BalanceProvider,
	currencies CurrencyBook,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
		sessions:   sessions,
		provider:   provider,
		currencies: currencies,
	}
}

// Register mints a wallet identity and persists the profile. The recovery
// secret is returned exactly once and never stored; if persistence fails
// the whole call fails and no identity is handed out. Persistence is
// get-or-create on the wallet address, so an address that somehow already
// has a profile resolves to it instead of a constraint error.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.RegisterResult, error) {
	if !u.currencies.KnownCurrency(input.Currency) {
		return nil, domainerrors.ErrUnknownCurrency
	}

	identity, err := wallet.CreateIdentity()
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	profile, err := u.userRepo.GetOrCreate(ctx, &entities.UserProfile{
		ID:            uuid.New(),
		WalletAddress: entities.NormalizeAddress(identity.Address),
		Name:          input.Name,
		Email:         input.Email,
		Currency:      input.Currency,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return &entities.RegisterResult{
		WalletAddress:  profile.WalletAddress,
		RecoverySecret: identity.Mnemonic,
		Profile:        profile,
	}, nil
}

// Login proves key ownership by deriving the address from the supplied
// secret and comparing it (case-insensitively) to the claimed address.
// Unseen wallets get a default profile; balance lookup is best-effort.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.LoginResult, error) {
	derived, err := wallet.DeriveAddress(input.Secret)
	if err != nil {
		return nil, domainerrors.InvalidCredentials()
	}
	address := entities.NormalizeAddress(input.WalletAddress)
	if entities.NormalizeAddress(derived) != address {
		return nil, domainerrors.InvalidCredentials()
	}

	profile, err := u.userRepo.GetOrCreate(ctx, &entities.UserProfile{
		ID:            uuid.New(),
		WalletAddress: address,
		Name:          entities.DefaultProfileName,
		Currency:      entities.DefaultCurrency,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if err := u.userRepo.TouchLogin(ctx, address); err != nil {
		return nil, err
	}

	tokens, err := u.jwtService.GenerateTokenPair(address, profile.Email, profile.Currency)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	now := time.Now().UTC()
	sessionID := uuid.NewString()
	if err := u.sessions.CreateSession(ctx, sessionID, &redis.SessionData{
		AccessToken:   tokens.AccessToken,
		RefreshToken:  tokens.RefreshToken,
		WalletAddress: address,
		IssuedAt:      now,
	}, SessionTTL); err != nil {
		return nil, err
	}

	balance := "0"
	if b, err := u.provider.GetBalance(ctx, address); err == nil {
		balance = b
	}

	return &entities.LoginResult{
		Session: &entities.Session{
			WalletAddress: address,
			Name:          profile.Name,
			Email:         profile.Email,
			Currency:      profile.Currency,
			IssuedAt:      now,
		},
		SessionID: sessionID,
		Balance:   balance,
	}, nil
}

// GetSession resolves a session id back to the authenticated session. An
// expired access token is refreshed silently while the refresh token
// holds; anything else invalidates the session.
func (u *AuthUsecase) GetSession(ctx context.Context, sessionID string) (*entities.Session, error) {
	if sessionID == "" {
		return nil, domainerrors.NotAuthenticated()
	}

	data, err := u.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, domainerrors.InvalidSession()
	}

	claims, err := u.jwtService.ValidateToken(data.AccessToken)
	if errors.Is(err, jwt.ErrExpiredToken) {
		claims, err = u.refreshSession(ctx, sessionID, data)
	}
	if err != nil {
		return nil, domainerrors.InvalidSession()
	}

	session := &entities.Session{
		WalletAddress: claims.WalletAddress,
		Email:         claims.Email,
		Currency:      claims.Currency,
		IssuedAt:      data.IssuedAt,
	}
	if !session.WellFormed() {
		return nil, domainerrors.InvalidSession()
	}

	session.Name = entities.DefaultProfileName
	if profile, err := u.userRepo.GetByWallet(ctx, claims.WalletAddress); err == nil {
		session.Name = profile.Name
	}
	return session, nil
}

// Logout deletes the server-side session. Deleting an unknown session id
// is not an error.
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return u.sessions.DeleteSession(ctx, sessionID)
}

func (u *AuthUsecase) refreshSession(ctx context.Context, sessionID string, data *redis.SessionData) (*jwt.Claims, error) {
	claims, err := u.jwtService.ValidateToken(data.RefreshToken)
	if err != nil {
		return nil, err
	}

	tokens, err := u.jwtService.GenerateTokenPair(claims.WalletAddress, claims.Email, claims.Currency)
	if err != nil {
		return nil, err
	}
	data.AccessToken = tokens.AccessToken
	data.RefreshToken = tokens.RefreshToken
	if err := u.sessions.UpdateSession(ctx, sessionID, data, SessionTTL); err != nil {
		return nil, err
	}
	return claims, nil
}
