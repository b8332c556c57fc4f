package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"review-replier/internal/domain"
	"review-replier/internal/ports/output"

	"github.com/go-resty/resty/v2"
)

// Compile-time check to ensure Client implements ReviewBackend interface
var _ output.ReviewBackend = (*Client)(nil)

const providerName = "backend"

// Client struct - Output adapter for the review replier web API, used by the chat bot
type Client struct {
	client *resty.Client
}

// NewClient creates a new backend client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/") + "/v1/api")
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")

	return &Client{client: client}
}

// API payloads

type envelope[T any] struct {
	Status struct {
		Code    int      `json:"code"`
		Message []string `json:"message"`
	} `json:"status"`
	Data T `json:"data"`
}

type tokenRequest struct {
	UserID string `json:"user_id"`
}

type replyRequest struct {
	UserID    string `json:"user_id"`
	AccountID int64  `json:"account_id"`
	ReviewID  string `json:"review_id"`
	Reply     string `json:"reply"`
}

type reviewResponse struct {
	ReviewID      string   `json:"review_id"`
	Review        string   `json:"review"`
	Reply         string   `json:"reply"`
	NextPageToken string   `json:"next_page_token"`
	Photos        []string `json:"photos"`
}

// IsAuthorized reports whether the user finished registration
func (c *Client) IsAuthorized(ctx context.Context, userID string) (bool, error) {
	var out struct {
		Authorized bool `json:"authorized"`
	}
	err := do(c.client.R().SetContext(ctx).SetQueryParam("user_id", userID), http.MethodGet, "/is_authorized", &out)
	return out.Authorized, err
}

// UserInfo returns the registered name and token of the user
func (c *Client) UserInfo(ctx context.Context, userID string) (*domain.UserInfo, error) {
	var out domain.UserInfo
	if err := do(c.client.R().SetContext(ctx).SetQueryParam("user_id", userID), http.MethodGet, "/user_info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnsureToken returns the user's auth token, issuing one only when absent
func (c *Client) EnsureToken(ctx context.Context, userID string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := do(c.client.R().SetContext(ctx).SetBody(tokenRequest{UserID: userID}), http.MethodPost, "/ensure_token", &out)
	return out.Token, err
}

// ListAccounts returns the user's marketplace accounts
func (c *Client) ListAccounts(ctx context.Context, userID string) ([]domain.AccountSummary, error) {
	var out struct {
		Accounts []domain.AccountSummary `json:"accounts"`
	}
	if err := do(c.client.R().SetContext(ctx).SetQueryParam("user_id", userID), http.MethodGet, "/marketplace_accounts", &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// GetReview returns the next unanswered review with a suggested reply
func (c *Client) GetReview(ctx context.Context, request domain.GetReviewRequest) (*domain.ReviewResult, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("user_id", request.UserID).
		SetQueryParam("account_id", strconv.FormatInt(request.AccountID, 10))
	if request.PageToken != "" {
		req.SetQueryParam("page_token", request.PageToken)
	}

	var out reviewResponse
	if err := do(req, http.MethodGet, "/review", &out); err != nil {
		return nil, err
	}
	return &domain.ReviewResult{
		ReviewID:      out.ReviewID,
		Review:        out.Review,
		Reply:         out.Reply,
		NextPageToken: out.NextPageToken,
		Photos:        out.Photos,
	}, nil
}

// SendReply posts a reply on a review
func (c *Client) SendReply(ctx context.Context, request domain.SendReplyRequest) error {
	var out struct {
		Status string `json:"status"`
	}
	req := c.client.R().SetContext(ctx).SetBody(replyRequest{
		UserID:    request.UserID,
		AccountID: request.AccountID,
		ReviewID:  request.ReviewID,
		Reply:     request.Text,
	})
	if err := do(req, http.MethodPost, "/reply", &out); err != nil {
		return err
	}
	if out.Status != "success" {
		return &domain.RemoteError{Provider: providerName, StatusCode: http.StatusOK, Message: "unexpected reply status " + strconv.Quote(out.Status)}
	}
	return nil
}

// do executes the request and decodes the envelope's data into out
func do[T any](req *resty.Request, method, path string, out *T) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return &domain.RemoteError{Provider: providerName, Message: err.Error()}
	}

	var body envelope[T]
	decodeErr := json.Unmarshal(resp.Body(), &body)

	if resp.StatusCode() != http.StatusOK {
		message := strings.Join(body.Status.Message, "; ")
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		switch resp.StatusCode() {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", domain.ErrAuthRequired, message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, message)
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, message)
		default:
			return &domain.RemoteError{Provider: providerName, StatusCode: resp.StatusCode(), Message: message}
		}
	}

	if decodeErr != nil {
		return &domain.RemoteError{Provider: providerName, StatusCode: resp.StatusCode(), Message: "invalid response: " + decodeErr.Error()}
	}
	*out = body.Data
	return nil
}
