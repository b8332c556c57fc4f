package http

type (
	// UserQuery struct - HTTP query DTO identifying a chat user
	UserQuery struct {
		UserID string `json:"user_id" validate:"required,max=64" query:"user_id"`
	}

	// TokenRequest struct - HTTP request DTO for token issuing
	TokenRequest struct {
		UserID string `json:"user_id" validate:"required,max=64" form:"user_id"`
	}

	// ReviewQuery struct - HTTP query DTO for the next unanswered review
	ReviewQuery struct {
		UserID    string `json:"user_id" validate:"required,max=64" query:"user_id"`
		AccountID int64  `json:"account_id" validate:"required,gt=0" query:"account_id"`
		PageToken string `json:"page_token" validate:"omitempty,max=512" query:"page_token"`
	}

	// ReplyRequest struct - HTTP request DTO for posting a reply
	ReplyRequest struct {
		UserID    string `json:"user_id" validate:"required,max=64" form:"user_id"`
		AccountID int64  `json:"account_id" validate:"required,gt=0" form:"account_id"`
		ReviewID  string `json:"review_id" validate:"required,max=64" form:"review_id"`
		Reply     string `json:"reply" validate:"required,max=4000" form:"reply"`
	}
)
