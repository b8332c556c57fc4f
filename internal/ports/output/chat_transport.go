package output

import (
	"context"

	"review-replier/internal/domain"
)

// ChatTransport interface - Output port
// Defines what the application needs from a chat platform
type ChatTransport interface {
	// SendMessage sends a text (or captioned photo) message with an optional
	// inline keyboard and returns the platform message id
	SendMessage(ctx context.Context, chatID string, message domain.OutgoingMessage) (string, error)

	// SendPhotos sends one photo alone or several as an album
	SendPhotos(ctx context.Context, chatID string, urls []string) error

	// DeleteMessage removes a bot message. It returns domain.ErrMessageGone
	// when the message cannot be deleted any more.
	DeleteMessage(ctx context.Context, chatID, messageID string) error
}
