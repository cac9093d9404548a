package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/glucose-diary/internal/bot/handlers"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/menus"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/state"
	apperrors "github.com/vladimiradmaev/glucose-diary/internal/errors"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
)

// pollTimeout is the long polling timeout in seconds
const pollTimeout = 60

type Bot struct {
	api           *tgbotapi.BotAPI
	updateHandler *handlers.UpdateHandler
	errors        *apperrors.Handler
}

func NewBot(token string, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "account", api.Self.UserName)
	return &Bot{
		api:           api,
		updateHandler: handlers.NewUpdateHandler(api, deps, stateManager),
		errors:        errorHandler(deps),
	}, nil
}

// NewWithSender builds a bot around an existing sender. Start is not usable on
// such a bot; feed updates through Run instead.
func NewWithSender(api menus.Sender, deps handlers.Dependencies, stateManager state.StateManager) *Bot {
	return &Bot{
		updateHandler: handlers.NewUpdateHandler(api, deps, stateManager),
		errors:        errorHandler(deps),
	}
}

func errorHandler(deps handlers.Dependencies) *apperrors.Handler {
	if deps.Errors != nil {
		return deps.Errors
	}
	return apperrors.NewHandler(logger.GetLogger())
}

// Start long-polls telegram until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("bot has no telegram client")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	logger.Info("Bot is now listening for updates")
	return b.Run(ctx, updates)
}

// Run handles updates one at a time until ctx is cancelled or updates closes
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			err := apperrors.NewInternalError(fmt.Errorf("panic: %v", r)).WithContext("update_id", update.UpdateID)
			b.errors.Handle(ctx, err)
		}
	}()

	if update.Message != nil && update.Message.From != nil {
		logger.Debug("Received message", "user_id", update.Message.From.ID, "update_id", update.UpdateID)
	}
	if err := b.updateHandler.Handle(ctx, update); err != nil {
		logger.Error("Error handling update", "update_id", update.UpdateID, "error", err)
	}
}
