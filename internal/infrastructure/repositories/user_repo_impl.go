package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/infrastructure/models"
)

// UserRepository implements wallet-keyed user profile operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user profile
func (r *UserRepository) Create(ctx context.Context, user *entities.UserProfile) error {
	m := &models.User{
		ID:            user.ID,
		WalletAddress: entities.NormalizeAddress(user.WalletAddress),
		Name:          user.Name,
		Email:         user.Email,
		Currency:      user.Currency,
		CreatedAt:     user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	user.ID = m.ID
	return nil
}

// GetByWallet gets a profile by its normalized wallet address
func (r *UserRepository) GetByWallet(ctx context.Context, walletAddress string) (*entities.UserProfile, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("wallet_address = ?", entities.NormalizeAddress(walletAddress)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetOrCreate returns the existing profile for the wallet, or persists the
// provided one when the wallet has never been seen.
func (r *UserRepository) GetOrCreate(ctx context.Context, user *entities.UserProfile) (*entities.UserProfile, error) {
	existing, err := r.GetByWallet(ctx, user.WalletAddress)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if err := r.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update updates the editable profile fields
func (r *UserRepository) Update(ctx context.Context, user *entities.UserProfile) error {
	updates := map[string]interface{}{
		"name":       user.Name,
		"email":      user.Email,
		"currency":   user.Currency,
		"updated_at": time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ?", entities.NormalizeAddress(user.WalletAddress)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// TouchLogin stamps the wallet's last successful login
func (r *UserRepository) TouchLogin(ctx context.Context, walletAddress string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("wallet_address = ?", entities.NormalizeAddress(walletAddress)).
		Updates(map[string]interface{}{
			"last_login_at": time.Now(),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) toEntity(m *models.User) *entities.UserProfile {
	return &entities.UserProfile{
		ID:            m.ID,
		WalletAddress: m.WalletAddress,
		Name:          m.Name,
		Email:         m.Email,
		Currency:      m.Currency,
		CreatedAt:     m.CreatedAt,
		LastLoginAt:   null.TimeFromPtr(m.LastLoginAt),
	}
}
