package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"review-replier/internal/domain"
	"review-replier/internal/ports/output"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure TelegramClientAdapter implements ChatTransport interface
var _ output.ChatTransport = (*TelegramClientAdapter)(nil)

// Telegram Bot API limits
const (
	maxCaptionLength = 1024
	maxAlbumSize     = 10
)

// Bot is the part of *tgbotapi.BotAPI the adapter uses
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
}

// TelegramClientAdapter struct - Output adapter for the Telegram Bot API
type TelegramClientAdapter struct {
	bot Bot
}

// NewTelegramClientAdapter func - Creates new Telegram client adapter
func NewTelegramClientAdapter(bot Bot) *TelegramClientAdapter {
	return &TelegramClientAdapter{bot: bot}
}

// SendMessage sends a text message, or a captioned photo when PhotoURL is set.
// A caption over the Telegram limit is sent as a separate text message.
func (a *TelegramClientAdapter) SendMessage(ctx context.Context, chatID string, message domain.OutgoingMessage) (string, error) {
	id, err := parseChatID(chatID)
	if err != nil {
		return "", err
	}

	var chattable tgbotapi.Chattable
	switch {
	case message.PhotoURL != "" && len([]rune(message.Text)) <= maxCaptionLength:
		photo := tgbotapi.NewPhoto(id, tgbotapi.FileURL(message.PhotoURL))
		photo.Caption = message.Text
		if message.Keyboard != nil {
			photo.ReplyMarkup = inlineKeyboard(message.Keyboard)
		}
		chattable = photo
	case message.PhotoURL != "":
		if err := a.SendPhotos(ctx, chatID, []string{message.PhotoURL}); err != nil {
			logrus.Warnf("Failed to send photo to chat %s: %v", chatID, err)
		}
		fallthrough
	default:
		msg := tgbotapi.NewMessage(id, message.Text)
		if message.Keyboard != nil {
			msg.ReplyMarkup = inlineKeyboard(message.Keyboard)
		}
		chattable = msg
	}

	sent, err := a.bot.Send(chattable)
	if err != nil {
		return "", fmt.Errorf("failed to send telegram message: %w", err)
	}
	return strconv.Itoa(sent.MessageID), nil
}

// SendPhotos sends one photo alone or several as albums of up to ten
func (a *TelegramClientAdapter) SendPhotos(ctx context.Context, chatID string, urls []string) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}

	if len(urls) == 1 {
		if _, err := a.bot.Send(tgbotapi.NewPhoto(id, tgbotapi.FileURL(urls[0]))); err != nil {
			return fmt.Errorf("failed to send telegram photo: %w", err)
		}
		return nil
	}

	for start := 0; start < len(urls); start += maxAlbumSize {
		end := min(start+maxAlbumSize, len(urls))

		media := make([]interface{}, 0, end-start)
		for _, u := range urls[start:end] {
			media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(u)))
		}
		if len(media) == 1 {
			// an album needs at least two items
			if _, err := a.bot.Send(tgbotapi.NewPhoto(id, tgbotapi.FileURL(urls[start]))); err != nil {
				return fmt.Errorf("failed to send telegram photo: %w", err)
			}
			continue
		}
		if _, err := a.bot.SendMediaGroup(tgbotapi.NewMediaGroup(id, media)); err != nil {
			return fmt.Errorf("failed to send telegram album: %w", err)
		}
	}
	return nil
}

// DeleteMessage deletes a bot message
func (a *TelegramClientAdapter) DeleteMessage(ctx context.Context, chatID, messageID string) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}
	msgID, err := strconv.Atoi(messageID)
	if err != nil {
		return fmt.Errorf("%w: message id %q", domain.ErrInvalidRequest, messageID)
	}

	if _, err := a.bot.Request(tgbotapi.NewDeleteMessage(id, msgID)); err != nil {
		if isMessageGone(err) {
			return fmt.Errorf("%w: %v", domain.ErrMessageGone, err)
		}
		return fmt.Errorf("failed to delete telegram message: %w", err)
	}
	return nil
}

func isMessageGone(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != 400 {
		return false
	}
	return strings.Contains(apiErr.Message, "message to delete not found") ||
		strings.Contains(apiErr.Message, "message can't be deleted")
}

func inlineKeyboard(keyboard *domain.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard.Rows))
	for _, row := range keyboard.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func parseChatID(chatID string) (int64, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: chat id %q", domain.ErrInvalidRequest, chatID)
	}
	return id, nil
}
