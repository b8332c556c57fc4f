package telegram

import (
	"context"
	"strconv"

	"review-replier/internal/domain"
	"review-replier/internal/ports/input"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Updates is the part of *tgbotapi.BotAPI the poller uses
type Updates interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Poller struct - Primary/Driving adapter for Telegram long polling
type Poller struct {
	bot         Updates
	dispatcher  input.EventDispatcher
	pollTimeout int
}

// NewPoller func - Creates new Telegram poller. pollTimeout is in seconds.
func NewPoller(bot Updates, dispatcher input.EventDispatcher, pollTimeout int) *Poller {
	return &Poller{
		bot:         bot,
		dispatcher:  dispatcher,
		pollTimeout: pollTimeout,
	}
}

// Run receives updates until ctx is cancelled or the update channel closes
func (p *Poller) Run(ctx context.Context) error {
	config := tgbotapi.NewUpdate(0)
	config.Timeout = p.pollTimeout
	updates := p.bot.GetUpdatesChan(config)

	logrus.Infof("Telegram polling started (timeout %ds)", p.pollTimeout)
	for {
		select {
		case <-ctx.Done():
			p.bot.StopReceivingUpdates()
			logrus.Infoln("Telegram polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			p.handleUpdate(ctx, update)
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil {
		// stops the client-side spinner; nothing to show
		if _, err := p.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			logrus.Debugf("Failed to answer callback %s: %v", cq.ID, err)
		}
	}

	event, ok := toChatEvent(update)
	if !ok {
		return
	}
	p.dispatcher.Dispatch(ctx, event)
}

// toChatEvent converts an update; ok is false for updates the bot ignores
func toChatEvent(update tgbotapi.Update) (domain.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.Message == nil || cq.Message.Chat == nil || cq.From == nil {
			return domain.Event{}, false
		}
		return domain.Event{
			Kind:    domain.EventKindButton,
			ChatID:  strconv.FormatInt(cq.Message.Chat.ID, 10),
			UserID:  strconv.FormatInt(cq.From.ID, 10),
			Payload: cq.Data,
		}, true

	case update.Message != nil:
		msg := update.Message
		if msg.Chat == nil || msg.From == nil || msg.Text == "" {
			return domain.Event{}, false
		}
		event := domain.Event{
			Kind:    domain.EventKindText,
			ChatID:  strconv.FormatInt(msg.Chat.ID, 10),
			UserID:  strconv.FormatInt(msg.From.ID, 10),
			Payload: msg.Text,
		}
		if msg.IsCommand() {
			if command, ok := domain.ParseCommand(msg.Text); ok {
				event.Kind, event.Payload = domain.EventKindCommand, command
			}
		}
		return event, true
	}
	return domain.Event{}, false
}
