package input

import (
	"context"

	"review-replier/internal/domain"
)

// UserService interface - Input port (use case)
// Defines what the web API can do with users and their accounts
type UserService interface {
	IsAuthorized(ctx context.Context, chatUserID string) (bool, error)
	UserInfo(ctx context.Context, chatUserID string) (*domain.UserInfo, error)
	GenerateToken(ctx context.Context, chatUserID string) (string, error)
	EnsureToken(ctx context.Context, chatUserID string) (string, error)
	ListAccounts(ctx context.Context, chatUserID string) ([]domain.AccountSummary, error)
}

// ReviewService interface - Input port (use case)
// Defines what the web API can do with marketplace reviews
type ReviewService interface {
	GetReview(ctx context.Context, request domain.GetReviewRequest) (*domain.ReviewResult, error)
	SendReply(ctx context.Context, request domain.SendReplyRequest) error
}
