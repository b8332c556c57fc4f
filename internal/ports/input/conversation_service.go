package input

import (
	"context"

	"review-replier/internal/domain"
)

// ConversationService interface - Input port (use case)
// Defines what the bot does with inbound chat events
type ConversationService interface {
	// HandleEvent runs one event through the review-reply state machine.
	// Events of one session key are serialized; other keys run concurrently.
	HandleEvent(ctx context.Context, event domain.Event) error
}

// EventDispatcher interface - Input port
// Hands inbound events to the conversation service without blocking the transport
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.Event)
}
