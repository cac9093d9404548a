package menus

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSender fails the first n sends and records the rest
type scriptedSender struct {
	failures int
	attempts []tgbotapi.Chattable
	sent     []tgbotapi.Chattable
}

func (s *scriptedSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.attempts = append(s.attempts, c)
	if s.failures > 0 {
		s.failures--
		return tgbotapi.Message{}, errors.New("Bad Request")
	}
	s.sent = append(s.sent, c)
	return tgbotapi.Message{MessageID: 99}, nil
}

func (s *scriptedSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestSendText_FallsBackToPlain(t *testing.T) {
	api := &scriptedSender{failures: 1}

	_, err := SendText(api, 5, "*bold", nil)
	require.NoError(t, err)

	require.Len(t, api.attempts, 2)
	first := api.attempts[0].(tgbotapi.MessageConfig)
	second := api.attempts[1].(tgbotapi.MessageConfig)
	assert.Equal(t, tgbotapi.ModeMarkdown, first.ParseMode)
	assert.Empty(t, second.ParseMode)
}

func TestEditText_SendsNewMessageWhenEditFails(t *testing.T) {
	api := &scriptedSender{failures: 2}

	require.NoError(t, EditText(api, 5, 10, "hello", MainMenuMarkup()))

	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text)
	assert.NotNil(t, msg.ReplyMarkup)
}

func TestEditText_WithoutMessageSends(t *testing.T) {
	api := &scriptedSender{}

	require.NoError(t, EditText(api, 5, 0, "hello", nil))

	require.Len(t, api.sent, 1)
	_, ok := api.sent[0].(tgbotapi.MessageConfig)
	assert.True(t, ok)
}

func TestEditPlain(t *testing.T) {
	api := &scriptedSender{}

	require.NoError(t, EditPlain(api, 5, 10, "report_with_underscores", nil))

	edit, ok := api.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Empty(t, edit.ParseMode)
	assert.Equal(t, "report_with_underscores", edit.Text)
}

func TestMonthTexts(t *testing.T) {
	assert.Contains(t, MonthSummaryText(1403, 2, 5), "اردیبهشت")
	assert.Contains(t, MonthSummaryText(1403, 2, 5), "تعداد آزمایش‌ها: 5")
	assert.Contains(t, MonthlyMenuText(1402), "سال: 1402")
	assert.Contains(t, WelcomeText("Sara"), "سلام Sara")
}
