package http

import (
	"bytes"
	"context"
	"net/http"

	"review-replier/internal/domain"
	"review-replier/internal/ports/input"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/sirupsen/logrus"
)

// LineWebhookHandler struct - Primary/Driving adapter for LINE webhook
type LineWebhookHandler struct {
	ctx           context.Context
	dispatcher    input.EventDispatcher
	channelSecret string
}

// NewLineWebhookHandler func - Creates new LINE webhook handler.
// Events are dispatched with ctx, which outlives the webhook request.
func NewLineWebhookHandler(ctx context.Context, dispatcher input.EventDispatcher, channelSecret string) *LineWebhookHandler {
	return &LineWebhookHandler{
		ctx:           ctx,
		dispatcher:    dispatcher,
		channelSecret: channelSecret,
	}
}

// RegisterRoutes func
func (h *LineWebhookHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/webhook/line", h.HandleWebhook)
}

// HandleWebhook func - Handles incoming LINE webhook requests
// @Summary LINE Webhook
// @Description Handles webhook events from LINE Messaging API
// @Tags LINE
// @Accept application/json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /webhook/line [post]
func (h *LineWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	// Convert Fiber request to http.Request for LINE SDK
	httpReq, err := http.NewRequest(http.MethodPost, "/webhook/line", bytes.NewReader(c.Body()))
	if err != nil {
		logrus.Errorf("Failed to create http request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Internal error",
		})
	}

	c.Request().Header.VisitAll(func(key, value []byte) {
		httpReq.Header.Set(string(key), string(value))
	})

	cb, err := webhook.ParseRequest(h.channelSecret, httpReq)
	if err != nil {
		logrus.Errorf("Failed to parse webhook request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid signature or request",
		})
	}

	for _, event := range cb.Events {
		if ev, ok := toChatEvent(event); ok {
			h.dispatcher.Dispatch(h.ctx, ev)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
	})
}

// toChatEvent converts a LINE SDK event; ok is false for events the bot ignores
func toChatEvent(event webhook.EventInterface) (domain.Event, bool) {
	switch e := event.(type) {
	case webhook.MessageEvent:
		msg, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			logrus.Debugf("Ignoring LINE message type: %T", e.Message)
			return domain.Event{}, false
		}
		return withSource(textEvent(msg.Text), e.Source)
	case webhook.PostbackEvent:
		if e.Postback == nil {
			return domain.Event{}, false
		}
		return withSource(domain.Event{Kind: domain.EventKindButton, Payload: e.Postback.Data}, e.Source)
	case webhook.FollowEvent:
		return withSource(domain.Event{Kind: domain.EventKindCommand, Payload: domain.CommandStart}, e.Source)
	default:
		logrus.Debugf("Unsupported event type: %T", event)
		return domain.Event{}, false
	}
}

func textEvent(text string) domain.Event {
	if command, ok := domain.ParseCommand(text); ok {
		return domain.Event{Kind: domain.EventKindCommand, Payload: command}
	}
	return domain.Event{Kind: domain.EventKindText, Payload: text}
}

// withSource fills the chat and user ids; pushes go to the group or room when there is one
func withSource(event domain.Event, source webhook.SourceInterface) (domain.Event, bool) {
	switch s := source.(type) {
	case webhook.UserSource:
		event.ChatID, event.UserID = s.UserId, s.UserId
	case webhook.GroupSource:
		event.ChatID, event.UserID = s.GroupId, s.UserId
	case webhook.RoomSource:
		event.ChatID, event.UserID = s.RoomId, s.UserId
	default:
		return domain.Event{}, false
	}
	return event, event.ChatID != "" && event.UserID != ""
}
