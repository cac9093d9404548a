package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/glucose-diary/internal/bot"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/handlers"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/state"
	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
	"github.com/vladimiradmaev/glucose-diary/internal/config"
	apperrors "github.com/vladimiradmaev/glucose-diary/internal/errors"
	"github.com/vladimiradmaev/glucose-diary/internal/events"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
	"github.com/vladimiradmaev/glucose-diary/internal/reports"
	"github.com/vladimiradmaev/glucose-diary/internal/repository"
	"github.com/vladimiradmaev/glucose-diary/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using environment")
	}

	if err := run(); err != nil {
		logger.Fatal("Bot stopped with error", "error", err)
	}
	logger.Info("Bot stopped")
}

// run wires the application and blocks until the bot stops. Setup failures
// are returned so that deferred cleanup runs before the process exits.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	logger.Info("Starting glucose diary bot",
		"storage", cfg.StorageBackend,
		"state", cfg.StateBackend,
		"timezone", cfg.Timezone)

	conv, err := calendar.LoadConverter(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	repos, err := repository.New(cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeQuietly("storage", repos.Close)

	publisher := newPublisher(cfg.AMQP)
	defer closeQuietly("event publisher", publisher.Close)

	stateManager, closeState, err := newStateManager(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly("state manager", closeState)

	deps := handlers.Dependencies{
		UserService:    services.NewUserService(repos.Users),
		GlucoseService: services.NewGlucoseService(repos.Tests, publisher, conv),
		Renderer:       reports.NewRenderer(conv),
		Errors:         apperrors.NewHandler(logger.GetLogger()),
	}

	telegramBot, err := bot.NewBot(cfg.TelegramToken, deps, stateManager)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	if err := telegramBot.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// newPublisher connects to RabbitMQ when configured. A broker that cannot be
// reached at startup disables publishing instead of stopping the bot.
func newPublisher(cfg config.AMQPConfig) events.Publisher {
	if !cfg.Enabled() {
		return events.Noop{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.URL, cfg.Queue)
	if err != nil {
		logger.Warn("Event publishing disabled", "error", err)
		return events.Noop{}
	}
	return publisher
}

func newStateManager(cfg *config.Config) (state.StateManager, func() error, error) {
	if cfg.StateBackend != config.BackendRedis {
		return state.NewManager(), func() error { return nil }, nil
	}
	manager, err := state.NewRedisManager(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return manager, manager.Close, nil
}

func closeQuietly(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("Failed to close "+name, "error", err)
	}
}
