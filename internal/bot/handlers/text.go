package handlers

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/glucose-diary/internal/bot/keyboards"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/menus"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/state"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
	"github.com/vladimiradmaev/glucose-diary/internal/utils"
)

// Text triggers accepted outside of commands
const (
	triggerStart = "شروع"
	triggerHelp  = "راهنما"
)

// TextHandler handles text messages
type TextHandler struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	session, err := h.stateManager.Get(ctx, user.TelegramID)
	if err != nil {
		logger.Warn("Failed to load session, starting over", "user_id", user.TelegramID, "error", err)
		session = state.Session{Step: state.None}
	}

	text := strings.TrimSpace(message.Text)

	switch {
	case text == triggerHelp:
		return menus.SendHelp(h.api, message.Chat.ID)
	case text == triggerStart:
		return h.startIntake(ctx, message.Chat.ID, user, session)
	case session.Step == state.WaitingForGlucose:
		return h.handleGlucose(ctx, message.Chat.ID, user, session, text)
	default:
		_, err := menus.SendText(h.api, message.Chat.ID, msgUseMenu, keyboards.MainMenu())
		return err
	}
}

func (h *TextHandler) startIntake(ctx context.Context, chatID int64, user *domain.User, session state.Session) error {
	session.ResetIntake()
	session.Step = state.WaitingForGlucose
	if err := h.stateManager.Save(ctx, user.TelegramID, session); err != nil {
		return err
	}
	_, err := menus.SendText(h.api, chatID, menus.GlucosePrompt, nil)
	return err
}

// handleGlucose handles the first intake step. Invalid input keeps the step.
func (h *TextHandler) handleGlucose(ctx context.Context, chatID int64, user *domain.User, session state.Session, text string) error {
	value, err := strconv.Atoi(utils.NormalizeDigits(text))
	if err != nil {
		_, err := menus.SendPlain(h.api, chatID, msgNotANumber, nil)
		return err
	}
	if !domain.ValidGlucose(value) {
		_, err := menus.SendPlain(h.api, chatID, msgInvalidNumber, nil)
		return err
	}

	session.Draft.Glucose = value
	session.Step = state.WaitingForFasting
	if err := h.stateManager.Save(ctx, user.TelegramID, session); err != nil {
		return err
	}

	_, err = menus.SendText(h.api, chatID, menus.FastingPrompt, keyboards.Fasting())
	return err
}
