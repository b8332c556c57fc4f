package line

import (
	"context"
	"fmt"
	"strings"

	"review-replier/internal/domain"
	"review-replier/internal/ports/output"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure LineClientAdapter implements ChatTransport interface
var _ output.ChatTransport = (*LineClientAdapter)(nil)

// LINE Messaging API limits
const (
	maxMessagesPerPush = 5
	maxQuickReplyItems = 13
	maxActionLabel     = 20
)

// pushAPI is the part of the LINE SDK the adapter uses
type pushAPI interface {
	PushMessage(request *messaging_api.PushMessageRequest, xLineRetryKey string) (*messaging_api.PushMessageResponse, error)
}

// LineClientAdapter struct - Output adapter for LINE messaging platform.
// Buttons become quick replies; URL buttons are appended to the text as links.
type LineClientAdapter struct {
	client pushAPI
}

// NewLineClientAdapter func - Creates new LINE client adapter
func NewLineClientAdapter(channelToken string) (*LineClientAdapter, error) {
	client, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging API client: %w", err)
	}

	return &LineClientAdapter{
		client: client,
	}, nil
}

// SendMessage pushes a text message, preceded by an image when PhotoURL is set
func (a *LineClientAdapter) SendMessage(ctx context.Context, chatID string, message domain.OutgoingMessage) (string, error) {
	messages := make([]messaging_api.MessageInterface, 0, 2)
	if message.PhotoURL != "" {
		messages = append(messages, imageMessage(message.PhotoURL))
	}
	messages = append(messages, textMessage(message))

	resp, err := a.client.PushMessage(&messaging_api.PushMessageRequest{
		To:       chatID,
		Messages: messages,
	}, "")
	if err != nil {
		return "", fmt.Errorf("failed to send push message: %w", err)
	}

	logrus.Debugf("Sent LINE message to: %s", chatID)

	if resp == nil || len(resp.SentMessages) == 0 {
		return "", nil
	}
	return resp.SentMessages[len(resp.SentMessages)-1].Id, nil
}

// SendPhotos pushes images in batches of the per-request limit
func (a *LineClientAdapter) SendPhotos(ctx context.Context, chatID string, urls []string) error {
	for start := 0; start < len(urls); start += maxMessagesPerPush {
		end := min(start+maxMessagesPerPush, len(urls))

		messages := make([]messaging_api.MessageInterface, 0, end-start)
		for _, u := range urls[start:end] {
			messages = append(messages, imageMessage(u))
		}

		if _, err := a.client.PushMessage(&messaging_api.PushMessageRequest{
			To:       chatID,
			Messages: messages,
		}, ""); err != nil {
			return fmt.Errorf("failed to send images: %w", err)
		}
	}
	return nil
}

// DeleteMessage always reports the message as gone: LINE cannot unsend bot messages
func (a *LineClientAdapter) DeleteMessage(ctx context.Context, chatID, messageID string) error {
	return domain.ErrMessageGone
}

func imageMessage(u string) *messaging_api.ImageMessage {
	return &messaging_api.ImageMessage{
		OriginalContentUrl: u,
		PreviewImageUrl:    u,
	}
}

// textMessage converts a domain message to a LINE text message
func textMessage(message domain.OutgoingMessage) *messaging_api.TextMessage {
	text := message.Text
	var items []messaging_api.QuickReplyItem

	if message.Keyboard != nil {
		var links []string
		for _, row := range message.Keyboard.Rows {
			for _, b := range row {
				if b.URL != "" {
					links = append(links, fmt.Sprintf("%s: %s", b.Text, b.URL))
					continue
				}
				if len(items) == maxQuickReplyItems {
					logrus.Warnf("Dropping quick reply %q: limit reached", b.Text)
					continue
				}
				items = append(items, messaging_api.QuickReplyItem{
					Type: "action",
					Action: &messaging_api.PostbackAction{
						Label:       label(b.Text),
						Data:        b.Data,
						DisplayText: b.Text,
					},
				})
			}
		}
		if len(links) > 0 {
			text += "\n\n" + strings.Join(links, "\n")
		}
	}

	msg := &messaging_api.TextMessage{Text: text}
	if len(items) > 0 {
		msg.QuickReply = &messaging_api.QuickReply{Items: items}
	}
	return msg
}

func label(text string) string {
	runes := []rune(text)
	if len(runes) <= maxActionLabel {
		return text
	}
	return string(runes[:maxActionLabel-1]) + "…"
}
