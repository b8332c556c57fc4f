package output

import (
	"context"

	"review-replier/internal/domain"
)

// AccountRepository interface - Output port
// Defines what the application needs from user and account persistence
type AccountRepository interface {
	// FindUser returns the user or domain.ErrUserNotFound
	FindUser(ctx context.Context, chatUserID string) (*domain.User, error)

	// SaveToken stores token on the user, creating the user record if needed
	SaveToken(ctx context.Context, chatUserID, token string) (*domain.User, error)

	// ListAccounts returns the accounts of a user
	ListAccounts(ctx context.Context, userID int64) ([]domain.MarketplaceAccount, error)

	// FindAccount returns an account owned by the user, campaigns included,
	// or domain.ErrAccountNotFound
	FindAccount(ctx context.Context, userID, accountID int64) (*domain.MarketplaceAccount, error)

	// SaveCampaigns replaces the account's campaigns and business details
	SaveCampaigns(ctx context.Context, accountID int64, business domain.BusinessCampaigns) error
}
