package application

import (
	"context"
	"sync"

	"review-replier/internal/domain"
	"review-replier/internal/ports/input"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure EventDispatcher implements input.EventDispatcher interface
var _ input.EventDispatcher = (*EventDispatcher)(nil)

// EventDispatcher struct - Runs every inbound event in its own goroutine.
// Ordering per session key comes from the conversation service lock.
type EventDispatcher struct {
	conversations input.ConversationService
	wg            sync.WaitGroup
}

// NewEventDispatcher func - Creates new event dispatcher
func NewEventDispatcher(conversations input.ConversationService) *EventDispatcher {
	return &EventDispatcher{conversations: conversations}
}

// Dispatch handles event asynchronously. A panic in the handler is logged
// and does not take the process down.
func (d *EventDispatcher) Dispatch(ctx context.Context, event domain.Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logrus.Errorf("Panic while handling %s event from chat %s: %v", event.Kind, event.ChatID, r)
			}
		}()

		if err := d.conversations.HandleEvent(ctx, event); err != nil {
			logrus.Errorf("Failed to handle %s event from chat %s: %v", event.Kind, event.ChatID, err)
		}
	}()
}

// Wait blocks until all dispatched events are handled
func (d *EventDispatcher) Wait() {
	d.wg.Wait()
}
