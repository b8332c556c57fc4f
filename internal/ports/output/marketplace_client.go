package output

import (
	"context"

	"review-replier/internal/domain"
)

// MarketplaceClient interface - Output port
// Defines what the application needs from a marketplace seller API.
// Remote failures are returned as *domain.RemoteError.
type MarketplaceClient interface {
	// FetchNextUnanswered returns at most one review needing a reaction and the
	// cursor of the following page. A nil review is a normal empty feed.
	// Products are resolved by probing the account's campaigns for the order.
	FetchNextUnanswered(ctx context.Context, account domain.MarketplaceAccount, cursor string) (*domain.Review, string, error)

	// ListCampaigns returns the campaigns reachable with the API key together
	// with the business they belong to
	ListCampaigns(ctx context.Context, apiKey string) (*domain.BusinessCampaigns, error)

	// SubmitReply posts a seller comment on a review
	SubmitReply(ctx context.Context, account domain.MarketplaceAccount, reviewID, text string) error
}
