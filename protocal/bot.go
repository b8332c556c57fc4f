package protocal

import (
	"context"
	"errors"
	"fmt"

	"review-replier/configs"
	httpAdapter "review-replier/internal/adapters/input/http"
	telegramIn "review-replier/internal/adapters/input/telegram"
	"review-replier/internal/adapters/output/backend"
	lineOut "review-replier/internal/adapters/output/line"
	"review-replier/internal/adapters/output/memory"
	telegramOut "review-replier/internal/adapters/output/telegram"
	"review-replier/internal/application"
	"review-replier/internal/ports/output"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ServeBot func - Runs the chat bot transports until ctx is cancelled.
// Telegram polls when a token is configured; LINE listens for webhooks when enabled.
func ServeBot(ctx context.Context) error {
	cfg := configs.GetViper()
	setupLogging(cfg.App)

	if cfg.Telegram.Token == "" && !cfg.Line.Enabled {
		return errors.New("no chat transport configured: set telegram.token or line.enabled")
	}

	// Output adapter (web API client) shared by every transport
	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	convCfg := application.ConversationConfig{
		WebAppURL:       cfg.Backend.ExternalURL,
		WelcomeImageURL: cfg.Bot.WelcomeImageURL,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Telegram.Token != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("connect telegram bot: %w", err)
		}
		bot.Debug = cfg.App.Debug
		logrus.Infof("Authorized on Telegram account %s", bot.Self.UserName)

		dispatcher := newDispatcher(telegramOut.NewTelegramClientAdapter(bot), backendClient, convCfg)
		poller := telegramIn.NewPoller(bot, dispatcher, cfg.Telegram.PollTimeout)
		g.Go(func() error {
			defer dispatcher.Wait()
			return poller.Run(gctx)
		})
	}

	if cfg.Line.Enabled {
		lineClient, err := lineOut.NewLineClientAdapter(cfg.Line.ChannelToken)
		if err != nil {
			return err
		}

		dispatcher := newDispatcher(lineClient, backendClient, convCfg)
		app := fiber.New()
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		httpAdapter.NewLineWebhookHandler(gctx, dispatcher, cfg.Line.ChannelSecret).RegisterRoutes(app)

		g.Go(func() error {
			defer dispatcher.Wait()
			return listen(gctx, app, cfg.Line.Port)
		})
	}

	return g.Wait()
}

// newDispatcher wires one conversation per transport; sessions are not shared
// because chat ids of different platforms may collide
func newDispatcher(transport output.ChatTransport, backendClient output.ReviewBackend, convCfg application.ConversationConfig) *application.EventDispatcher {
	conversations := application.NewConversationService(memory.NewMemorySessionStore(), transport, backendClient, convCfg)
	return application.NewEventDispatcher(conversations)
}
