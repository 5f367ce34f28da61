package usecases

import (
	"context"

	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/domain/repositories"
)

// DashboardRecentLimit caps the transfer list on the dashboard summary.
const DashboardRecentLimit = 5

// DashboardSummary is the single-call view behind the landing screen.
type DashboardSummary struct {
	Profile          *entities.UserProfile      `json:"profile"`
	Balance          string                     `json:"balance"`
	RecentTransfers  []*entities.TransferRecord `json:"recentTransfers"`
	ProviderDegraded bool                       `json:"providerDegraded"`
}

// UserUsecase handles profile reads/updates and the dashboard summary.
type UserUsecase struct {
	userRepo   repositories.UserRepository
	feed       *FeedUsecase
	provider   BalanceProvider
	currencies CurrencyBook
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(
	userRepo repositories.UserRepository,
	feed *FeedUsecase,
	provider BalanceProvider,
	currencies CurrencyBook,
) *UserUsecase {
	return &UserUsecase{
		userRepo:   userRepo,
		feed:       feed,
		provider:   provider,
		currencies: currencies,
	}
}

// GetProfile returns the profile for a wallet.
func (u *UserUsecase) GetProfile(ctx context.Context, walletAddress string) (*entities.UserProfile, error) {
	return u.userRepo.GetByWallet(ctx, walletAddress)
}

// UpdateProfile applies the provided fields; empty fields keep their
// current value. A currency change must name a quotable currency.
func (u *UserUsecase) UpdateProfile(ctx context.Context, walletAddress string, input *entities.UpdateProfileInput) (*entities.UserProfile, error) {
	profile, err := u.userRepo.GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		profile.Name = input.Name
	}
	if input.Email != "" {
		profile.Email = input.Email
	}
	if input.Currency != "" {
		if !u.currencies.KnownCurrency(input.Currency) {
			return nil, domainerrors.ErrUnknownCurrency
		}
		profile.Currency = input.Currency
	}

	if err := u.userRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Dashboard assembles profile, balance, and recent transfers in one call.
// Balance lookup is best-effort and reads "0" while the provider is down.
func (u *UserUsecase) Dashboard(ctx context.Context, walletAddress string) (*DashboardSummary, error) {
	profile, err := u.userRepo.GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{Profile: profile, Balance: "0"}
	if balance, err := u.provider.GetBalance(ctx, walletAddress); err == nil {
		summary.Balance = balance
	} else {
		summary.ProviderDegraded = true
	}

	feed, err := u.feed.Feed(ctx, walletAddress, DashboardRecentLimit, 0)
	if err != nil {
		return nil, err
	}
	summary.RecentTransfers = feed.Items
	if len(summary.RecentTransfers) > DashboardRecentLimit {
		summary.RecentTransfers = summary.RecentTransfers[:DashboardRecentLimit]
	}
	summary.ProviderDegraded = summary.ProviderDegraded || feed.ProviderDegraded

	return summary, nil
}
