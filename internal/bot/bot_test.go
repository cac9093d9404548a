package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/glucose-diary/internal/bot/handlers"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/state"
	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	"github.com/vladimiradmaev/glucose-diary/internal/reports"
	"github.com/vladimiradmaev/glucose-diary/internal/repository/memory"
	"github.com/vladimiradmaev/glucose-diary/internal/services"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

func (s *recordingSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func newTestBot(t *testing.T) (*Bot, *recordingSender) {
	t.Helper()
	conv, err := calendar.LoadConverter(calendar.DefaultTimezone)
	require.NoError(t, err)

	repo := memory.New()
	deps := handlers.Dependencies{
		UserService:    services.NewUserService(repo),
		GlucoseService: services.NewGlucoseService(repo, nil, conv),
		Renderer:       reports.NewRenderer(conv),
	}
	sender := &recordingSender{}
	return NewWithSender(sender, deps, state.NewManager()), sender
}

func startUpdate(id int) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			From:     &tgbotapi.User{ID: 7, FirstName: "Ali"},
			Chat:     &tgbotapi.Chat{ID: 7},
			Text:     "/start",
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
		},
	}
}

func TestRun_HandlesUntilClosed(t *testing.T) {
	b, sender := newTestBot(t)

	updates := make(chan tgbotapi.Update, 3)
	updates <- startUpdate(1)
	updates <- tgbotapi.Update{UpdateID: 2}
	updates <- startUpdate(3)
	close(updates)

	require.NoError(t, b.Run(context.Background(), updates))
	assert.Len(t, sender.sent, 2)
}

func TestRun_StopsOnCancel(t *testing.T) {
	b, _ := newTestBot(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx, make(chan tgbotapi.Update)) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

type panickingUsers struct{}

func (panickingUsers) RegisterUser(context.Context, int64, string, string, string) (*domain.User, error) {
	panic("boom")
}

func (panickingUsers) GetUserByTelegramID(context.Context, int64) (*domain.User, error) {
	panic("boom")
}

func TestRun_RecoversFromPanics(t *testing.T) {
	sender := &recordingSender{}
	b := NewWithSender(sender, handlers.Dependencies{UserService: panickingUsers{}}, state.NewManager())

	updates := make(chan tgbotapi.Update, 2)
	updates <- startUpdate(1)
	updates <- startUpdate(2)
	close(updates)

	assert.NotPanics(t, func() {
		assert.NoError(t, b.Run(context.Background(), updates))
	})
	assert.Empty(t, sender.sent)
}

func TestStart_WithoutClient(t *testing.T) {
	b, _ := newTestBot(t)
	assert.Error(t, b.Start(context.Background()))
}
