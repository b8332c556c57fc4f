package output

import (
	"context"

	"review-replier/internal/domain"
)

// ReviewBackend interface - Output port
// Defines what the chat bot needs from the review replier web API
type ReviewBackend interface {
	// IsAuthorized reports whether the user finished registration
	IsAuthorized(ctx context.Context, userID string) (bool, error)

	// UserInfo returns the registered name and token of the user
	UserInfo(ctx context.Context, userID string) (*domain.UserInfo, error)

	// EnsureToken returns the user's auth token, issuing one only when absent
	EnsureToken(ctx context.Context, userID string) (string, error)

	// ListAccounts returns the user's marketplace accounts
	ListAccounts(ctx context.Context, userID string) ([]domain.AccountSummary, error)

	// GetReview returns the next unanswered review with a suggested reply.
	// A result without ReviewID means the feed is exhausted.
	GetReview(ctx context.Context, request domain.GetReviewRequest) (*domain.ReviewResult, error)

	// SendReply posts a reply. It is not deduplicated: calling it twice for
	// the same review may post twice.
	SendReply(ctx context.Context, request domain.SendReplyRequest) error
}
