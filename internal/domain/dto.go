package domain

// DTOs (Data Transfer Objects) - Domain layer request/response structures

type (
	// UserInfo struct - Registration details shown in the welcome message
	UserInfo struct {
		Name      string `json:"name"`
		AuthToken string `json:"auth_token"`
	}

	// AccountSummary struct - Account as listed in the selection keyboard
	AccountSummary struct {
		ID          int64  `json:"id"`
		Marketplace string `json:"marketplace"`
		AccountName string `json:"account_name"`
	}

	// GetReviewRequest struct - Domain request for the next unanswered review
	GetReviewRequest struct {
		UserID    string
		AccountID int64
		PageToken string
	}

	// SendReplyRequest struct - Domain request to post a reply
	SendReplyRequest struct {
		UserID    string
		AccountID int64
		ReviewID  string
		Text      string
	}
)

// GroupByMarketplace keeps the first-seen marketplace order
func GroupByMarketplace(accounts []AccountSummary) (order []string, groups map[string][]AccountSummary) {
	groups = make(map[string][]AccountSummary)
	for _, acc := range accounts {
		if _, ok := groups[acc.Marketplace]; !ok {
			order = append(order, acc.Marketplace)
		}
		groups[acc.Marketplace] = append(groups[acc.Marketplace], acc)
	}
	return order, groups
}
