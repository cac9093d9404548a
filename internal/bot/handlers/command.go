package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/glucose-diary/internal/bot/keyboards"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/menus"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/state"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          menus.Sender
	stateManager state.StateManager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api menus.Sender, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	logger.Info("Handling command", "command", message.Command(), "user_id", user.TelegramID)

	switch message.Command() {
	case "start":
		if err := resetIntake(ctx, h.stateManager, user.TelegramID); err != nil {
			return err
		}
		return menus.SendMainMenu(h.api, message.Chat.ID, user.FirstName)
	case "help":
		return menus.SendHelp(h.api, message.Chat.ID)
	case "cancel":
		if err := resetIntake(ctx, h.stateManager, user.TelegramID); err != nil {
			return err
		}
		_, err := menus.SendText(h.api, message.Chat.ID, menus.CancelledText, keyboards.MainMenu())
		return err
	default:
		_, err := menus.SendText(h.api, message.Chat.ID, msgUnknownCommand, nil)
		return err
	}
}

// resetIntake drops any half-finished intake while keeping the report month
func resetIntake(ctx context.Context, sm state.StateManager, userID int64) error {
	session, err := sm.Get(ctx, userID)
	if err != nil {
		return err
	}
	session.ResetIntake()
	return sm.Save(ctx, userID, session)
}
