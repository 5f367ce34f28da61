package repositories

import (
	"context"

	"remittease.backend/internal/domain/entities"
)

// UserRepository defines wallet-keyed user profile operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.UserProfile) error
	GetByWallet(ctx context.Context, walletAddress string) (*entities.UserProfile, error)
	GetOrCreate(ctx context.Context, user *entities.UserProfile) (*entities.UserProfile, error)
	Update(ctx context.Context, user *entities.UserProfile) error
	TouchLogin(ctx context.Context, walletAddress string) error
}
