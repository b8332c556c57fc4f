package domain

import (
	"errors"
	"fmt"
)

// Conversation error kinds

var (
	// ErrAuthRequired indicates the user has no valid registration or token
	ErrAuthRequired = errors.New("authorization required")

	// ErrNoAccountSelected indicates an action needs a marketplace account first
	ErrNoAccountSelected = errors.New("no marketplace account selected")

	// ErrRemoteUnavailable indicates the marketplace, generation service or backend failed
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// ErrSubmissionFailed indicates a reply could not be posted to the marketplace
	ErrSubmissionFailed = errors.New("reply submission failed")

	// ErrNoReviewSelected indicates a reply was requested before any review was fetched
	ErrNoReviewSelected = errors.New("no review selected")

	// ErrMessageGone indicates a chat message can no longer be deleted
	// (already deleted, too old, or the transport has no delete operation)
	ErrMessageGone = errors.New("message already gone")
)

// Backend error kinds

var (
	// ErrUserNotFound indicates no user is registered for the chat user id
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountNotFound indicates the account does not exist or belongs to another user
	ErrAccountNotFound = errors.New("marketplace account not found")

	// ErrMarketplaceNotSupported indicates the account's marketplace has no client
	ErrMarketplaceNotSupported = errors.New("marketplace not supported yet")

	// ErrInvalidRequest indicates an invalid request was made (4xx client errors)
	ErrInvalidRequest = errors.New("invalid request")
)

// RemoteError carries the status and message reported by a remote provider.
// It matches ErrRemoteUnavailable with errors.Is.
type RemoteError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Is reports ErrRemoteUnavailable as the kind of every remote error.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteUnavailable
}
