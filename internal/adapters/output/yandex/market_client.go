package yandex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"review-replier/internal/domain"
	"review-replier/internal/ports/output"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure MarketClient implements MarketplaceClient interface
var _ output.MarketplaceClient = (*MarketClient)(nil)

const (
	// DefaultBaseURL - Yandex Market partner API
	DefaultBaseURL = "https://api.partner.market.yandex.ru"

	providerName     = "yandex_market"
	reactionNeeded   = "NEED_REACTION"
	campaignPageSize = 50
)

// MarketClient struct - Output adapter for the Yandex Market partner API
type MarketClient struct {
	client *resty.Client
}

// NewMarketClient creates a new Yandex Market client
func NewMarketClient(baseURL string, timeout time.Duration) *MarketClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")

	return &MarketClient{client: client}
}

// API payloads

type feedbackListRequest struct {
	ReactionStatus string `json:"reactionStatus"`
	Paid           bool   `json:"paid"`
}

type feedbackListResponse struct {
	Result struct {
		Feedbacks []feedback `json:"feedbacks"`
		Paging    struct {
			NextPageToken string `json:"nextPageToken"`
		} `json:"paging"`
	} `json:"result"`
}

type feedback struct {
	FeedbackID  int64  `json:"feedbackId"`
	CreatedAt   string `json:"createdAt"`
	Author      string `json:"author"`
	Description struct {
		Advantages    string `json:"advantages"`
		Disadvantages string `json:"disadvantages"`
		Comment       string `json:"comment"`
	} `json:"description"`
	Media struct {
		Photos []string `json:"photos"`
	} `json:"media"`
	Statistics struct {
		Rating int `json:"rating"`
	} `json:"statistics"`
	Identifiers struct {
		OrderID int64 `json:"orderId"`
	} `json:"identifiers"`
}

type orderResponse struct {
	Order struct {
		Items []struct {
			OfferID   string `json:"offerId"`
			OfferName string `json:"offerName"`
		} `json:"items"`
	} `json:"order"`
}

type campaignsResponse struct {
	Campaigns []struct {
		ID            int64  `json:"id"`
		Domain        string `json:"domain"`
		Name          string `json:"name"`
		PlacementType string `json:"placementType"`
		Business      struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"business"`
	} `json:"campaigns"`
}

type commentUpdateRequest struct {
	FeedbackID int64 `json:"feedbackId"`
	Comment    struct {
		Text string `json:"text"`
	} `json:"comment"`
}

type errorResponse struct {
	Status string `json:"status"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchNextUnanswered returns one review that needs a reaction
func (c *MarketClient) FetchNextUnanswered(ctx context.Context, account domain.MarketplaceAccount, cursor string) (*domain.Review, string, error) {
	if account.BusinessID == "" {
		return nil, "", fmt.Errorf("account %d has no business id: %w", account.ID, domain.ErrInvalidRequest)
	}

	req := c.client.R().
		SetContext(ctx).
		SetAuthToken(account.APIKey).
		SetPathParam("businessId", account.BusinessID).
		SetQueryParam("limit", "1").
		SetBody(feedbackListRequest{ReactionStatus: reactionNeeded, Paid: false})
	if cursor != "" {
		req.SetQueryParam("page_token", cursor)
	}

	resp, err := req.Post("/v2/businesses/{businessId}/goods-feedback")
	if err != nil {
		return nil, "", &domain.RemoteError{Provider: providerName, Message: err.Error()}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, "", remoteError(resp)
	}

	var page feedbackListResponse
	if err := json.Unmarshal(resp.Body(), &page); err != nil {
		return nil, "", &domain.RemoteError{Provider: providerName, StatusCode: resp.StatusCode(), Message: fmt.Sprintf("failed to parse feedback response: %v", err)}
	}

	next := page.Result.Paging.NextPageToken
	if len(page.Result.Feedbacks) == 0 {
		return nil, next, nil
	}

	review := toReview(page.Result.Feedbacks[0])
	if review.OrderID != "" {
		review.Product = c.findProduct(ctx, account, review.OrderID)
	}
	return review, next, nil
}

func toReview(f feedback) *domain.Review {
	review := &domain.Review{
		ID:            strconv.FormatInt(f.FeedbackID, 10),
		Author:        f.Author,
		Rating:        f.Statistics.Rating,
		Advantages:    f.Description.Advantages,
		Disadvantages: f.Description.Disadvantages,
		Comment:       f.Description.Comment,
		RawCreatedAt:  f.CreatedAt,
		Photos:        f.Media.Photos,
	}
	if created, err := domain.ParseMarketplaceTime(f.CreatedAt); err == nil {
		review.CreatedAt = created
	}
	if f.Identifiers.OrderID != 0 {
		review.OrderID = strconv.FormatInt(f.Identifiers.OrderID, 10)
	}
	return review
}

// findProduct probes the account's campaigns for the order and stops at the
// first one that knows it. Misses are not errors.
func (c *MarketClient) findProduct(ctx context.Context, account domain.MarketplaceAccount, orderID string) *domain.ReviewProduct {
	for _, campaign := range account.Campaigns {
		resp, err := c.client.R().
			SetContext(ctx).
			SetAuthToken(account.APIKey).
			SetPathParams(map[string]string{
				"campaignId": strconv.FormatInt(campaign.CampaignID, 10),
				"orderId":    orderID,
			}).
			Get("/campaigns/{campaignId}/orders/{orderId}")
		if err != nil {
			logrus.Warnf("Order probe failed: campaign=%d, order=%s: %v", campaign.CampaignID, orderID, err)
			continue
		}
		if resp.StatusCode() != http.StatusOK {
			continue
		}

		var order orderResponse
		if err := json.Unmarshal(resp.Body(), &order); err != nil {
			logrus.Warnf("Failed to parse order %s: %v", orderID, err)
			continue
		}
		if len(order.Order.Items) == 0 {
			continue
		}

		item := order.Order.Items[0]
		if item.OfferID == "" || item.OfferName == "" {
			continue
		}
		return &domain.ReviewProduct{
			OfferID:       item.OfferID,
			OfferName:     item.OfferName,
			PlacementType: campaign.PlacementType,
		}
	}
	return nil
}

// ListCampaigns returns the campaigns of the API key and the business of the first one
func (c *MarketClient) ListCampaigns(ctx context.Context, apiKey string) (*domain.BusinessCampaigns, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetQueryParams(map[string]string{
			"page":     "1",
			"pageSize": strconv.Itoa(campaignPageSize),
		}).
		Get("/campaigns")
	if err != nil {
		return nil, &domain.RemoteError{Provider: providerName, Message: err.Error()}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, remoteError(resp)
	}

	var list campaignsResponse
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, &domain.RemoteError{Provider: providerName, StatusCode: resp.StatusCode(), Message: fmt.Sprintf("failed to parse campaigns response: %v", err)}
	}

	result := &domain.BusinessCampaigns{Campaigns: make([]domain.Campaign, 0, len(list.Campaigns))}
	for i, camp := range list.Campaigns {
		if i == 0 {
			result.BusinessID = strconv.FormatInt(camp.Business.ID, 10)
			result.BusinessName = camp.Business.Name
		}
		result.Campaigns = append(result.Campaigns, domain.Campaign{
			CampaignID:    camp.ID,
			Domain:        camp.Domain,
			Name:          camp.Name,
			PlacementType: camp.PlacementType,
		})
	}
	return result, nil
}

// SubmitReply posts a seller comment on the review
func (c *MarketClient) SubmitReply(ctx context.Context, account domain.MarketplaceAccount, reviewID, text string) error {
	if account.BusinessID == "" {
		return fmt.Errorf("account %d has no business id: %w", account.ID, domain.ErrInvalidRequest)
	}

	feedbackID, err := strconv.ParseInt(reviewID, 10, 64)
	if err != nil {
		return fmt.Errorf("review id %q: %w", reviewID, domain.ErrInvalidRequest)
	}

	body := commentUpdateRequest{FeedbackID: feedbackID}
	body.Comment.Text = text

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(account.APIKey).
		SetPathParam("businessId", account.BusinessID).
		SetBody(body).
		Post("/businesses/{businessId}/goods-feedback/comments/update")
	if err != nil {
		return &domain.RemoteError{Provider: providerName, Message: err.Error()}
	}
	if resp.StatusCode() != http.StatusOK {
		return remoteError(resp)
	}
	return nil
}

// remoteError builds a RemoteError from a non-200 response, preferring the
// API's own error message
func remoteError(resp *resty.Response) *domain.RemoteError {
	message := resp.String()

	var apiErr errorResponse
	if err := json.Unmarshal(resp.Body(), &apiErr); err == nil && len(apiErr.Errors) > 0 {
		message = apiErr.Errors[0].Message
		if apiErr.Errors[0].Code != "" {
			message = apiErr.Errors[0].Code + ": " + message
		}
	}

	return &domain.RemoteError{Provider: providerName, StatusCode: resp.StatusCode(), Message: message}
}
