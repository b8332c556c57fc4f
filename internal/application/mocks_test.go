package application

import (
	"context"
	"strconv"
	"sync"

	"review-replier/internal/domain"
	"review-replier/internal/ports/output"
)

// Mock implementations for testing

// SentMessage is one message captured by MockChatTransport
type SentMessage struct {
	ChatID  string
	ID      string
	Message domain.OutgoingMessage
}

// MockChatTransport implements output.ChatTransport for testing
type MockChatTransport struct {
	SendMessageFunc   func(chatID string, message domain.OutgoingMessage) (string, error)
	SendPhotosFunc    func(chatID string, urls []string) error
	DeleteMessageFunc func(chatID, messageID string) error

	mu     sync.Mutex
	nextID int

	// Captured values for assertions
	Sent    []SentMessage
	Photos  [][]string
	Deleted []string
}

func (m *MockChatTransport) SendMessage(ctx context.Context, chatID string, message domain.OutgoingMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendMessageFunc != nil {
		id, err := m.SendMessageFunc(chatID, message)
		if err != nil {
			return "", err
		}
		m.Sent = append(m.Sent, SentMessage{ChatID: chatID, ID: id, Message: message})
		return id, nil
	}

	m.nextID++
	id := strconv.Itoa(m.nextID)
	m.Sent = append(m.Sent, SentMessage{ChatID: chatID, ID: id, Message: message})
	return id, nil
}

func (m *MockChatTransport) SendPhotos(ctx context.Context, chatID string, urls []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Photos = append(m.Photos, urls)
	if m.SendPhotosFunc != nil {
		return m.SendPhotosFunc(chatID, urls)
	}
	return nil
}

func (m *MockChatTransport) DeleteMessage(ctx context.Context, chatID, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deleted = append(m.Deleted, messageID)
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(chatID, messageID)
	}
	return nil
}

// Texts returns the text of every sent message in order
func (m *MockChatTransport) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	texts := make([]string, 0, len(m.Sent))
	for _, s := range m.Sent {
		texts = append(texts, s.Message.Text)
	}
	return texts
}

// Last returns the most recently sent message
func (m *MockChatTransport) Last() SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Sent) == 0 {
		return SentMessage{}
	}
	return m.Sent[len(m.Sent)-1]
}

// MockReviewBackend implements output.ReviewBackend for testing
type MockReviewBackend struct {
	IsAuthorizedFunc func(userID string) (bool, error)
	UserInfoFunc     func(userID string) (*domain.UserInfo, error)
	EnsureTokenFunc  func(userID string) (string, error)
	ListAccountsFunc func(userID string) ([]domain.AccountSummary, error)
	GetReviewFunc    func(request domain.GetReviewRequest) (*domain.ReviewResult, error)
	SendReplyFunc    func(request domain.SendReplyRequest) error

	mu sync.Mutex

	// Captured values for assertions
	ReviewRequests []domain.GetReviewRequest
	ReplyRequests  []domain.SendReplyRequest
}

func (m *MockReviewBackend) IsAuthorized(ctx context.Context, userID string) (bool, error) {
	if m.IsAuthorizedFunc != nil {
		return m.IsAuthorizedFunc(userID)
	}
	return true, nil
}

func (m *MockReviewBackend) UserInfo(ctx context.Context, userID string) (*domain.UserInfo, error) {
	if m.UserInfoFunc != nil {
		return m.UserInfoFunc(userID)
	}
	return &domain.UserInfo{Name: "Seller", AuthToken: "token-1"}, nil
}

func (m *MockReviewBackend) EnsureToken(ctx context.Context, userID string) (string, error) {
	if m.EnsureTokenFunc != nil {
		return m.EnsureTokenFunc(userID)
	}
	return "token-1", nil
}

func (m *MockReviewBackend) ListAccounts(ctx context.Context, userID string) ([]domain.AccountSummary, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(userID)
	}
	return []domain.AccountSummary{
		{ID: 7, Marketplace: domain.MarketplaceYandex, AccountName: "Main shop"},
	}, nil
}

func (m *MockReviewBackend) GetReview(ctx context.Context, request domain.GetReviewRequest) (*domain.ReviewResult, error) {
	m.mu.Lock()
	m.ReviewRequests = append(m.ReviewRequests, request)
	m.mu.Unlock()

	if m.GetReviewFunc != nil {
		return m.GetReviewFunc(request)
	}
	return &domain.ReviewResult{}, nil
}

func (m *MockReviewBackend) SendReply(ctx context.Context, request domain.SendReplyRequest) error {
	m.mu.Lock()
	m.ReplyRequests = append(m.ReplyRequests, request)
	m.mu.Unlock()

	if m.SendReplyFunc != nil {
		return m.SendReplyFunc(request)
	}
	return nil
}

// MockAccountRepository implements output.AccountRepository for testing
type MockAccountRepository struct {
	FindUserFunc      func(chatUserID string) (*domain.User, error)
	SaveTokenFunc     func(chatUserID, token string) (*domain.User, error)
	ListAccountsFunc  func(userID int64) ([]domain.MarketplaceAccount, error)
	FindAccountFunc   func(userID, accountID int64) (*domain.MarketplaceAccount, error)
	SaveCampaignsFunc func(accountID int64, business domain.BusinessCampaigns) error

	// Captured values for assertions
	SavedTokens    []string
	SavedCampaigns []domain.BusinessCampaigns
}

func (m *MockAccountRepository) FindUser(ctx context.Context, chatUserID string) (*domain.User, error) {
	if m.FindUserFunc != nil {
		return m.FindUserFunc(chatUserID)
	}
	return &domain.User{ID: 1, ChatUserID: chatUserID}, nil
}

func (m *MockAccountRepository) SaveToken(ctx context.Context, chatUserID, token string) (*domain.User, error) {
	m.SavedTokens = append(m.SavedTokens, token)
	if m.SaveTokenFunc != nil {
		return m.SaveTokenFunc(chatUserID, token)
	}
	return &domain.User{ID: 1, ChatUserID: chatUserID, AuthToken: &token}, nil
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, userID int64) ([]domain.MarketplaceAccount, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(userID)
	}
	return nil, nil
}

func (m *MockAccountRepository) FindAccount(ctx context.Context, userID, accountID int64) (*domain.MarketplaceAccount, error) {
	if m.FindAccountFunc != nil {
		return m.FindAccountFunc(userID, accountID)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) SaveCampaigns(ctx context.Context, accountID int64, business domain.BusinessCampaigns) error {
	m.SavedCampaigns = append(m.SavedCampaigns, business)
	if m.SaveCampaignsFunc != nil {
		return m.SaveCampaignsFunc(accountID, business)
	}
	return nil
}

// MockMarketplaceClient implements output.MarketplaceClient for testing
type MockMarketplaceClient struct {
	FetchNextUnansweredFunc func(account domain.MarketplaceAccount, cursor string) (*domain.Review, string, error)
	ListCampaignsFunc       func(apiKey string) (*domain.BusinessCampaigns, error)
	SubmitReplyFunc         func(account domain.MarketplaceAccount, reviewID, text string) error

	// Captured values for assertions
	FetchCursors    []string
	FetchAccounts   []domain.MarketplaceAccount
	CampaignLookups int
	Submitted       []string
}

func (m *MockMarketplaceClient) FetchNextUnanswered(ctx context.Context, account domain.MarketplaceAccount, cursor string) (*domain.Review, string, error) {
	m.FetchCursors = append(m.FetchCursors, cursor)
	m.FetchAccounts = append(m.FetchAccounts, account)
	if m.FetchNextUnansweredFunc != nil {
		return m.FetchNextUnansweredFunc(account, cursor)
	}
	return nil, "", nil
}

func (m *MockMarketplaceClient) ListCampaigns(ctx context.Context, apiKey string) (*domain.BusinessCampaigns, error) {
	m.CampaignLookups++
	if m.ListCampaignsFunc != nil {
		return m.ListCampaignsFunc(apiKey)
	}
	return &domain.BusinessCampaigns{}, nil
}

func (m *MockMarketplaceClient) SubmitReply(ctx context.Context, account domain.MarketplaceAccount, reviewID, text string) error {
	m.Submitted = append(m.Submitted, reviewID+":"+text)
	if m.SubmitReplyFunc != nil {
		return m.SubmitReplyFunc(account, reviewID, text)
	}
	return nil
}

// MockTextGenerator implements output.TextGenerator for testing
type MockTextGenerator struct {
	CompleteFunc func(request output.CompletionRequest) (string, error)

	// Captured values for assertions
	LastRequest *output.CompletionRequest
}

func (m *MockTextGenerator) Complete(ctx context.Context, request output.CompletionRequest) (string, error) {
	m.LastRequest = &request
	if m.CompleteFunc != nil {
		return m.CompleteFunc(request)
	}
	return "Thank you for your review!", nil
}
