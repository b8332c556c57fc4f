package application

import (
	"context"
	"errors"
	"fmt"

	"review-replier/internal/domain"
	"review-replier/internal/ports/input"
	"review-replier/internal/ports/output"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure UserService implements the input port
var _ input.UserService = (*UserService)(nil)

// UserService struct - Application service implementing user and token use cases
type UserService struct {
	repo     output.AccountRepository
	newToken func() string
}

// NewUserService func - Creates new user service
func NewUserService(repo output.AccountRepository) *UserService {
	return &UserService{
		repo:     repo,
		newToken: uuid.NewString,
	}
}

// IsAuthorized func - Use case: check whether registration is complete.
// Unknown users are simply not authorized.
func (s *UserService) IsAuthorized(ctx context.Context, chatUserID string) (bool, error) {
	user, err := s.repo.FindUser(ctx, chatUserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to find user: %w", err)
	}
	return user.IsAuthorized(), nil
}

// UserInfo func - Use case: get registration details
func (s *UserService) UserInfo(ctx context.Context, chatUserID string) (*domain.UserInfo, error) {
	user, err := s.repo.FindUser(ctx, chatUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	info := &domain.UserInfo{Name: user.Name}
	if user.AuthToken != nil {
		info.AuthToken = *user.AuthToken
	}
	return info, nil
}

// GenerateToken func - Use case: issue a fresh token, replacing any previous one
func (s *UserService) GenerateToken(ctx context.Context, chatUserID string) (string, error) {
	token := s.newToken()
	if _, err := s.repo.SaveToken(ctx, chatUserID, token); err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}

	logrus.Infof("Issued auth token: user_id=%s", chatUserID)
	return token, nil
}

// EnsureToken func - Use case: return the existing token, issuing one only when absent
func (s *UserService) EnsureToken(ctx context.Context, chatUserID string) (string, error) {
	user, err := s.repo.FindUser(ctx, chatUserID)
	switch {
	case err == nil:
		if user.AuthToken != nil && *user.AuthToken != "" {
			return *user.AuthToken, nil
		}
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	return s.GenerateToken(ctx, chatUserID)
}

// ListAccounts func - Use case: list the user's marketplace accounts
func (s *UserService) ListAccounts(ctx context.Context, chatUserID string) ([]domain.AccountSummary, error) {
	user, err := s.repo.FindUser(ctx, chatUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	accounts, err := s.repo.ListAccounts(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for _, acc := range accounts {
		summaries = append(summaries, domain.AccountSummary{
			ID:          acc.ID,
			Marketplace: acc.Marketplace,
			AccountName: acc.AccountName,
		})
	}
	return summaries, nil
}
