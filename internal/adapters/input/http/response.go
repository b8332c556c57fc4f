package http

import (
	"net/http"
)

var (
	// Success response
	Success = Status{Code: http.StatusOK, Message: []string{"Success"}}
	// BadRequest response
	BadRequest = Status{Code: http.StatusBadRequest, Message: []string{"Sorry, Not responding because of incorrect syntax"}}
	// Unauthorized response
	Unauthorized = Status{Code: http.StatusUnauthorized, Message: []string{"Sorry, User is not registered"}}
	// NotFound response
	NotFound = Status{Code: http.StatusNotFound, Message: []string{"Sorry, Marketplace account not found"}}
	// BadGateway response
	BadGateway = Status{Code: http.StatusBadGateway, Message: []string{"Sorry, Marketplace is not responding"}}
	// InternalServerError response
	InternalServerError = Status{Code: http.StatusInternalServerError, Message: []string{"Internal Server Error"}}
)

// ResponseBody struct - Generic HTTP response wrapper
type ResponseBody struct {
	Status Status      `json:"status,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Status struct
type Status struct {
	Code    int      `json:"code,omitempty"`
	Message []string `json:"message,omitempty"`
}

type (
	// AuthorizedResponse struct - HTTP response DTO for the registration check
	AuthorizedResponse struct {
		Authorized bool `json:"authorized"`
	}

	// UserInfoResponse struct - HTTP response DTO for registration details
	UserInfoResponse struct {
		Name      string `json:"name"`
		AuthToken string `json:"auth_token"`
	}

	// TokenResponse struct - HTTP response DTO for an auth token
	TokenResponse struct {
		Token string `json:"token"`
	}

	// AccountResponse struct - HTTP response DTO for a single marketplace account
	AccountResponse struct {
		ID          int64  `json:"id"`
		Marketplace string `json:"marketplace"`
		AccountName string `json:"account_name"`
	}

	// AccountListResponse struct - HTTP response DTO for marketplace account list
	AccountListResponse struct {
		Accounts []AccountResponse `json:"accounts"`
	}

	// ReviewResponse struct - HTTP response DTO for one review page.
	// An empty review_id means there are no more reviews.
	ReviewResponse struct {
		ReviewID      string   `json:"review_id"`
		Review        string   `json:"review"`
		Reply         string   `json:"reply"`
		NextPageToken string   `json:"next_page_token"`
		Photos        []string `json:"photos"`
	}

	// ReplyResponse struct - HTTP response DTO for a posted reply
	ReplyResponse struct {
		Status string `json:"status"`
	}
)
