package protocal

import (
	"context"
	"fmt"
	"time"

	"review-replier/configs"
	httpAdapter "review-replier/internal/adapters/input/http"
	"review-replier/internal/adapters/output/llm"
	"review-replier/internal/adapters/output/postgres"
	"review-replier/internal/adapters/output/yandex"
	"review-replier/internal/application"
	"review-replier/internal/domain"
	"review-replier/pkg/database_driver/gorm"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// ServeHTTP func - Runs the review replier web API until ctx is cancelled
func ServeHTTP(ctx context.Context) error {
	cfg := configs.GetViper()
	setupLogging(cfg.App)
	logrus.Info("Starting API, env: ", cfg.App.Env)

	dbConGorm, err := gorm.ConnectToPostgreSQL(gorm.Options{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		Username:        cfg.Postgres.Username,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DbName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer gorm.DisconnectPostgres(dbConGorm.Postgres)

	logrus.Info("Migrate database ...")
	if err := domain.MigrateDatabase(dbConGorm.Postgres); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Wire up the hexagonal architecture layers
	// Output adapters
	accountRepo := postgres.NewAccountRepository(dbConGorm.Postgres)
	marketClient := yandex.NewMarketClient(cfg.Market.BaseURL, cfg.Market.Timeout)
	llmClient, err := llm.NewOpenAIClientAdapter(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		return err
	}

	// Application services (use cases)
	generator := application.NewReplyGenerator(llmClient, application.ReplyGeneratorConfig{
		SystemPrompt: cfg.LLM.SystemPrompt,
		MaxTokens:    cfg.LLM.MaxTokens,
		Temperature:  cfg.LLM.Temperature,
		MaxLength:    cfg.LLM.MaxReplyLength,
	})
	userSrv := application.NewUserService(accountRepo)
	reviewSrv := application.NewReviewService(accountRepo, marketClient, generator)

	// Input adapter (HTTP handler)
	hdl := httpAdapter.New(userSrv, reviewSrv, dbConGorm.Postgres)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))
	app.Get("/swagger/*", swagger.HandlerDefault) // default
	hdl.RegisterRoutes(app)

	return listen(ctx, app, cfg.App.Port)
}

// listen serves app until ctx is cancelled, then shuts it down gracefully
func listen(ctx context.Context, app *fiber.App, port string) error {
	errCh := make(chan error, 1)
	go func() {
		logrus.Println("Listerning on port: ", port)
		errCh <- app.Listen(":" + port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logrus.Println("Gracefull shut down ...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logrus.Println("Error when shutdown server: ", err)
		}
		return <-errCh
	}
}
