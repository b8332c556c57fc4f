package application

import (
	"context"
	"fmt"
	"strings"

	"review-replier/internal/domain"
	"review-replier/internal/ports/input"
	"review-replier/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure ReviewService implements the input port
var _ input.ReviewService = (*ReviewService)(nil)

// ReviewService struct - Application service implementing review use cases
type ReviewService struct {
	repo      output.AccountRepository
	market    output.MarketplaceClient
	generator *ReplyGenerator
}

// NewReviewService func - Creates new review service
func NewReviewService(repo output.AccountRepository, market output.MarketplaceClient, generator *ReplyGenerator) *ReviewService {
	return &ReviewService{
		repo:      repo,
		market:    market,
		generator: generator,
	}
}

// GetReview func - Use case: fetch the next unanswered review with a suggested reply
func (s *ReviewService) GetReview(ctx context.Context, request domain.GetReviewRequest) (*domain.ReviewResult, error) {
	account, err := s.ownedAccount(ctx, request.UserID, request.AccountID)
	if err != nil {
		return nil, err
	}

	if err := s.syncCampaigns(ctx, account); err != nil {
		return nil, err
	}

	review, next, err := s.market.FetchNextUnanswered(ctx, *account, request.PageToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review: %w", err)
	}
	if review == nil {
		logrus.Infof("No unanswered reviews: account_id=%d", account.ID)
		return &domain.ReviewResult{}, nil
	}

	seller := account.BusinessName
	if seller == "" {
		seller = account.AccountName
	}

	return &domain.ReviewResult{
		ReviewID:      review.ID,
		Review:        review.Render(),
		Reply:         s.generator.Generate(ctx, review.Facts(seller)),
		NextPageToken: next,
		Photos:        review.Photos,
	}, nil
}

// SendReply func - Use case: post a reply. Not deduplicated; a repeated call posts again.
func (s *ReviewService) SendReply(ctx context.Context, request domain.SendReplyRequest) error {
	text := strings.TrimSpace(request.Text)
	if text == "" || request.ReviewID == "" {
		return fmt.Errorf("empty reply or review id: %w", domain.ErrInvalidRequest)
	}

	account, err := s.ownedAccount(ctx, request.UserID, request.AccountID)
	if err != nil {
		return err
	}

	if err := s.market.SubmitReply(ctx, *account, request.ReviewID, text); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
	}

	logrus.Infof("Reply posted: account_id=%d, review_id=%s", account.ID, request.ReviewID)
	return nil
}

// ownedAccount loads an account of the user that the marketplace client can serve
func (s *ReviewService) ownedAccount(ctx context.Context, chatUserID string, accountID int64) (*domain.MarketplaceAccount, error) {
	user, err := s.repo.FindUser(ctx, chatUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	account, err := s.repo.FindAccount(ctx, user.ID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if account.Marketplace != domain.MarketplaceYandex {
		return nil, fmt.Errorf("%s: %w", account.Marketplace, domain.ErrMarketplaceNotSupported)
	}
	return account, nil
}

// syncCampaigns looks up the business and campaigns of an account that has
// none cached. Only a missing business id makes a failed lookup fatal.
func (s *ReviewService) syncCampaigns(ctx context.Context, account *domain.MarketplaceAccount) error {
	if account.BusinessID != "" && len(account.Campaigns) > 0 {
		return nil
	}

	business, err := s.market.ListCampaigns(ctx, account.APIKey)
	if err != nil {
		if account.BusinessID == "" {
			return fmt.Errorf("failed to look up business: %w", err)
		}
		logrus.Warnf("Campaign lookup failed, continuing without products: account_id=%d: %v", account.ID, err)
		return nil
	}

	if business.BusinessID == "" {
		if account.BusinessID == "" {
			return fmt.Errorf("no business for account %d: %w", account.ID, domain.ErrInvalidRequest)
		}
		// an empty lookup never erases the stored business
		business.BusinessID = account.BusinessID
		business.BusinessName = account.BusinessName
	}

	if err := s.repo.SaveCampaigns(ctx, account.ID, *business); err != nil {
		logrus.Warnf("Failed to save campaigns: account_id=%d: %v", account.ID, err)
	}

	account.BusinessID = business.BusinessID
	account.BusinessName = business.BusinessName
	account.Campaigns = business.Campaigns
	return nil
}
