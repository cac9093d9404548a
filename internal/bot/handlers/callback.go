package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/glucose-diary/internal/bot/keyboards"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/menus"
	"github.com/vladimiradmaev/glucose-diary/internal/bot/state"
	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
	"github.com/vladimiradmaev/glucose-diary/internal/reports"
	"github.com/vladimiradmaev/glucose-diary/internal/services"
	"github.com/vladimiradmaev/glucose-diary/internal/stats"
	"github.com/vladimiradmaev/glucose-diary/internal/utils"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// target identifies the message a callback came from
type target struct {
	chatID    int64
	messageID int
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *domain.User) error {
	// Answer the callback query first
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}

	to := target{chatID: user.TelegramID}
	if query.Message != nil {
		to = target{chatID: query.Message.Chat.ID, messageID: query.Message.MessageID}
	}

	data := query.Data
	switch {
	case data == keyboards.NewTest:
		return h.handleNewTest(ctx, to, user)
	case data == keyboards.FastingYes, data == keyboards.FastingNo:
		return h.handleFasting(ctx, to, user, data == keyboards.FastingYes)
	case strings.HasPrefix(data, keyboards.TimePrefix):
		return h.handleTime(ctx, to, user, strings.TrimPrefix(data, keyboards.TimePrefix))
	case strings.HasPrefix(data, keyboards.SymptomPrefix):
		return h.handleSymptom(ctx, to, user, strings.TrimPrefix(data, keyboards.SymptomPrefix))
	case data == keyboards.Back:
		return h.handleBack(ctx, to, user)
	case data == keyboards.Cancel:
		return h.handleCancel(ctx, to, user)
	case data == keyboards.WeeklyReport:
		return h.handleWeeklyReport(ctx, to, user)
	case data == keyboards.MonthlyMenu, data == keyboards.BackMonths:
		return h.handleMonthlyMenu(to)
	case strings.HasPrefix(data, keyboards.MonthPrefix):
		return h.handleSelectMonth(ctx, to, user, data)
	case data == keyboards.Chart, data == keyboards.Excel, data == keyboards.Text:
		return h.handleMonthlyReport(ctx, to, user, data)
	case data == keyboards.ListTests:
		return h.handleListTests(ctx, to, user, "")
	case strings.HasPrefix(data, keyboards.DeletePrefix):
		return h.handleDelete(ctx, to, user, data)
	case data == keyboards.OverallStats:
		return h.handleOverallStats(ctx, to, user)
	case data == keyboards.Help:
		return menus.EditText(h.api, to.chatID, to.messageID, menus.HelpText, menus.MainMenuMarkup())
	case data == keyboards.MainMenuData:
		return h.handleMainMenu(ctx, to, user)
	default:
		logger.Warn("Unknown callback data", "data", data, "user_id", user.TelegramID)
		return menus.EditText(h.api, to.chatID, to.messageID, msgUseMenu, menus.MainMenuMarkup())
	}
}

func (h *CallbackHandler) session(ctx context.Context, userID int64) state.Session {
	session, err := h.stateManager.Get(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load session, starting over", "user_id", userID, "error", err)
		return state.Session{Step: state.None}
	}
	return session
}

func (h *CallbackHandler) fail(ctx context.Context, to target, err error) error {
	h.deps.report(ctx, err)
	return menus.EditPlain(h.api, to.chatID, to.messageID, userMessage(err), menus.MainMenuMarkup())
}

// expired resets a session whose step does not match the pressed button
func (h *CallbackHandler) expired(ctx context.Context, to target, userID int64, session state.Session) error {
	logger.Info("Stale intake callback", "user_id", userID, "step", string(session.Step))
	session.ResetIntake()
	if err := h.stateManager.Save(ctx, userID, session); err != nil {
		return err
	}
	return menus.EditPlain(h.api, to.chatID, to.messageID, msgSessionExpired, menus.MainMenuMarkup())
}

// Intake conversation

func (h *CallbackHandler) handleNewTest(ctx context.Context, to target, user *domain.User) error {
	session := h.session(ctx, user.TelegramID)
	session.ResetIntake()
	session.Step = state.WaitingForGlucose
	if err := h.stateManager.Save(ctx, user.TelegramID, session); err != nil {
		return err
	}
	return menus.EditText(h.api, to.chatID, to.messageID, menus.GlucosePrompt, nil)
}

func (h *CallbackHandler) handleFasting(ctx context.Context, to target, user *domain.User, fasting bool) error {
	session := h.session(ctx, user.TelegramID)
	if session.Step != state.WaitingForFasting || !domain.ValidGlucose(session.Draft.Glucose) {
		return h.expired(ctx, to, user.TelegramID, session)
	}

	session.Draft.Fasting = fasting
	session.Step = state.WaitingForTime
	if err := h.stateManager.Save(ctx, user.TelegramID, session); err != nil {
		return err
	}
	kb := keyboards.TimeSlots()
	return menus.EditText(h.api, to.chatID, to.messageID, menus.TimePrompt, &kb)
}

func (h *CallbackHandler) handleTime(ctx context.Context, to target, user *domain.User, slot string) error {
	session := h.session(ctx, user.TelegramID)
	if session.Step != state.WaitingForTime || !domain.IsTimeSlot(slot) {
		return h.expired(ctx, to, user.TelegramID, session)
	}

	session.Draft.TestTime = slot
	session.Step = state.WaitingForSymptoms
	if err := h.stateManager.Save(ctx, user.TelegramID, session); err != nil {
		return err
	}
	kb := keyboards.Symptoms()
	return menus.EditText(h.api, to.chatID, to.messageID, menus.SymptomsPrompt, &kb)
}

func (h *CallbackHandler) handleSymptom(ctx context.Context, to target, user *domain.User, key string) error {
	session := h.session(ctx, user.TelegramID)
	if session.Step != state.WaitingForSymptoms {
		return h.expired(ctx, to, user.TelegramID, session)
	}

	draft := session.Draft
	session.ResetIntake()
	if err := h.stateManager.Save(ctx, user.TelegramID, session); err != nil {
		return err
	}

	test, err := h.deps.GlucoseService.AddTest(ctx, services.NewTest{
		UserID:     user.TelegramID,
		Glucose:    draft.Glucose,
		Fasting:    draft.Fasting,
		TestTime:   draft.TestTime,
		SymptomKey: key,
	})
	if err != nil {
		h.deps.report(ctx, err)
		return menus.EditPlain(h.api, to.chatID, to.messageID, msgSaveFailed, menus.MainMenuMarkup())
	}

	return menus.EditText(h.api, to.chatID, to.messageID, confirmationText(test), menus.MainMenuMarkup())
}

func (h *CallbackHandler) handleBack(ctx context.Context, to target, user *domain.User) error {
	session := h.session(ctx, user.TelegramID)

	var (
		text string
		kb   *tgbotapi.InlineKeyboardMarkup
	)
	switch session.Step {
	case state.WaitingForFasting:
		session.Step = state.WaitingForGlucose
		text = menus.GlucosePrompt
	case state.WaitingForTime:
		session.Step = state.WaitingForFasting
		text = menus.FastingPrompt
		fastingKb := keyboards.Fasting()
		kb = &fastingKb
	case state.WaitingForSymptoms:
		session.Step = state.WaitingForTime
		text = menus.TimePrompt
		timeKb := keyboards.TimeSlots()
		kb = &timeKb
	default:
		return h.expired(ctx, to, user.TelegramID, session)
	}

	if err := h.stateManager.Save(ctx, user.TelegramID, session); err != nil {
		return err
	}
	return menus.EditText(h.api, to.chatID, to.messageID, text, kb)
}

func (h *CallbackHandler) handleCancel(ctx context.Context, to target, user *domain.User) error {
	if err := resetIntake(ctx, h.stateManager, user.TelegramID); err != nil {
		return err
	}
	return menus.EditPlain(h.api, to.chatID, to.messageID, menus.CancelledText, menus.MainMenuMarkup())
}

func (h *CallbackHandler) handleMainMenu(ctx context.Context, to target, user *domain.User) error {
	if err := resetIntake(ctx, h.stateManager, user.TelegramID); err != nil {
		return err
	}
	return menus.EditPlain(h.api, to.chatID, to.messageID, menus.BackToMenu, menus.MainMenuMarkup())
}

func confirmationText(t *domain.GlucoseTest) string {
	return fmt.Sprintf(`✅ *آزمایش با موفقیت ثبت شد!*

📋 *جزئیات:*
• قند خون: %d mg/dL
• نوع: %s %s
• ساعت: %s
• علائم: %s
• تاریخ: %s

📊 *تحلیل:*
%s`, t.Glucose, t.FastingLabel(), reports.FastingMarker(t.Fasting), t.TestTime,
		utils.EscapeMarkdown(t.Symptoms), t.JalaliDate, reports.Assessment(t.Glucose, t.Fasting))
}

// Reports

func (h *CallbackHandler) handleWeeklyReport(ctx context.Context, to target, user *domain.User) error {
	tests, err := h.deps.GlucoseService.WeeklyTests(ctx, user.TelegramID)
	if err != nil {
		return h.fail(ctx, to, err)
	}
	if len(tests) == 0 {
		return menus.EditPlain(h.api, to.chatID, to.messageID, msgNoWeeklyTests, backToMenuMarkup())
	}
	return h.sendLongText(to, h.deps.Renderer.Text(tests, reports.LabelWeekly))
}

func (h *CallbackHandler) handleMonthlyMenu(to target) error {
	year := h.deps.GlucoseService.CurrentYear()
	kb := keyboards.Months(year)
	return menus.EditText(h.api, to.chatID, to.messageID, menus.MonthlyMenuText(year), &kb)
}

func (h *CallbackHandler) handleSelectMonth(ctx context.Context, to target, user *domain.User, data string) error {
	year, month, ok := keyboards.ParseMonth(data)
	if !ok {
		logger.Warn("Malformed month callback", "data", data, "user_id", user.TelegramID)
		return menus.EditPlain(h.api, to.chatID, to.messageID, msgNoMonth, menus.MainMenuMarkup())
	}

	session := h.session(ctx, user.TelegramID)
	session.ReportYear = year
	session.ReportMonth = month
	if err := h.stateManager.Save(ctx, user.TelegramID, session); err != nil {
		return err
	}

	tests, err := h.deps.GlucoseService.MonthlyTests(ctx, user.TelegramID, year, month)
	if err != nil {
		return h.fail(ctx, to, err)
	}
	if len(tests) == 0 {
		text := fmt.Sprintf("❌ هیچ آزمایشی برای ماه %s سال %d یافت نشد.", calendar.MonthName(month), year)
		return menus.EditPlain(h.api, to.chatID, to.messageID, text, menus.MainMenuMarkup())
	}

	kb := keyboards.ReportTypes()
	return menus.EditText(h.api, to.chatID, to.messageID, menus.MonthSummaryText(year, month, len(tests)), &kb)
}

func (h *CallbackHandler) handleMonthlyReport(ctx context.Context, to target, user *domain.User, format string) error {
	session := h.session(ctx, user.TelegramID)
	if !session.HasReportMonth() {
		return menus.EditPlain(h.api, to.chatID, to.messageID, msgNoMonth, menus.MainMenuMarkup())
	}
	year, month := session.ReportYear, session.ReportMonth
	name := calendar.MonthName(month)

	tests, err := h.deps.GlucoseService.MonthlyTests(ctx, user.TelegramID, year, month)
	if err != nil {
		return h.fail(ctx, to, err)
	}
	if len(tests) == 0 {
		return menus.EditPlain(h.api, to.chatID, to.messageID, msgNoMonthTests, menus.MainMenuMarkup())
	}

	switch format {
	case keyboards.Chart:
		artifact := h.deps.Renderer.Chart(tests)
		if !artifact.Ready() {
			return menus.EditPlain(h.api, to.chatID, to.messageID, msgChartFailed, menus.MainMenuMarkup())
		}
		photo := tgbotapi.NewPhoto(to.chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: artifact.Data})
		photo.Caption = fmt.Sprintf("📊 نمودار ماهانه قند خون - %s %d", name, year)
		if _, err := h.api.Send(photo); err != nil {
			return err
		}
		return menus.EditPlain(h.api, to.chatID, to.messageID, fmt.Sprintf("✅ نمودار ماه %s ارسال شد.", name), menus.MainMenuMarkup())

	case keyboards.Excel:
		artifact := h.deps.Renderer.Spreadsheet(tests)
		if !artifact.Ready() {
			return menus.EditPlain(h.api, to.chatID, to.messageID, msgSpreadsheetError, menus.MainMenuMarkup())
		}
		doc := tgbotapi.NewDocument(to.chatID, tgbotapi.FileBytes{
			Name:  fmt.Sprintf("گزارش_قند_خون_%d_%d.xlsx", year, month),
			Bytes: artifact.Data,
		})
		doc.Caption = fmt.Sprintf("📋 گزارش اکسل - %s %d", name, year)
		if _, err := h.api.Send(doc); err != nil {
			return err
		}
		return menus.EditPlain(h.api, to.chatID, to.messageID, fmt.Sprintf("✅ فایل اکسل ماه %s ارسال شد.", name), menus.MainMenuMarkup())

	default:
		label := fmt.Sprintf("%s (%s)", reports.LabelMonthly, name)
		return h.sendLongText(to, h.deps.Renderer.Text(tests, label))
	}
}

// sendLongText edits the source message with the first chunk of text and
// sends the rest as new messages. The main menu goes on the last chunk.
func (h *CallbackHandler) sendLongText(to target, text string) error {
	chunks := utils.ChunkRunes(text, maxMessageRunes)
	last := len(chunks) - 1
	for i, chunk := range chunks {
		var kb *tgbotapi.InlineKeyboardMarkup
		if i == last {
			kb = menus.MainMenuMarkup()
		}
		if i == 0 {
			if err := menus.EditPlain(h.api, to.chatID, to.messageID, chunk, kb); err != nil {
				return err
			}
			continue
		}
		var markup any
		if kb != nil {
			markup = *kb
		}
		if _, err := menus.SendPlain(h.api, to.chatID, chunk, markup); err != nil {
			return err
		}
	}
	return nil
}

// Test list and statistics

func (h *CallbackHandler) handleListTests(ctx context.Context, to target, user *domain.User, notice string) error {
	tests, err := h.deps.GlucoseService.RecentTests(ctx, user.TelegramID, recentTestsLimit)
	if err != nil {
		return h.fail(ctx, to, err)
	}
	if len(tests) == 0 {
		return menus.EditPlain(h.api, to.chatID, to.messageID, notice+msgNoTests, backToMenuMarkup())
	}

	var b strings.Builder
	b.WriteString(notice)
	b.WriteString("📋 *آخرین آزمایش‌های شما*\n\n")
	for i, t := range tests {
		fmt.Fprintf(&b, "%d. %s *%s* - ساعت *%s*\n", i+1, reports.BandMarker(stats.Classify(t.Glucose, t.Fasting)), t.JalaliDate, t.TestTime)
		fmt.Fprintf(&b, "   مقدار: *%d* mg/dL | نوع: %s %s\n", t.Glucose, reports.FastingMarker(t.Fasting), t.FastingLabel())
		fmt.Fprintf(&b, "   علائم: %s\n\n", utils.EscapeMarkdown(t.Symptoms))
	}
	fmt.Fprintf(&b, "\n📊 تعداد کل: %d", len(tests))

	kb := keyboards.TestList(tests)
	return menus.EditText(h.api, to.chatID, to.messageID, b.String(), &kb)
}

func (h *CallbackHandler) handleDelete(ctx context.Context, to target, user *domain.User, data string) error {
	id, ok := keyboards.ParseDelete(data)
	if !ok {
		logger.Warn("Malformed delete callback", "data", data, "user_id", user.TelegramID)
		return menus.EditPlain(h.api, to.chatID, to.messageID, msgNotFound, menus.MainMenuMarkup())
	}

	if err := h.deps.GlucoseService.DeleteTest(ctx, user.TelegramID, id); err != nil {
		return h.fail(ctx, to, err)
	}
	return h.handleListTests(ctx, to, user, "✅ آزمایش حذف شد.\n\n")
}

func (h *CallbackHandler) handleOverallStats(ctx context.Context, to target, user *domain.User) error {
	s, latest, err := h.deps.GlucoseService.OverallStatistics(ctx, user.TelegramID)
	if err != nil {
		return h.fail(ctx, to, err)
	}
	if s.Empty() {
		return menus.EditPlain(h.api, to.chatID, to.messageID, msgNoTests, backToMenuMarkup())
	}
	return menus.EditText(h.api, to.chatID, to.messageID, overallStatsText(s, latest), menus.MainMenuMarkup())
}

func overallStatsText(s stats.Statistics, latest *domain.GlucoseTest) string {
	var b strings.Builder
	b.WriteString("📊 *آمار کلی شما*\n\n")
	b.WriteString(reports.StatisticsText(s))

	if latest != nil {
		b.WriteString("\n📈 *تحلیل آخرین آزمایش:*\n")
		fmt.Fprintf(&b, "%d mg/dL (%s) - %s", latest.Glucose, latest.FastingLabel(), reports.Assessment(latest.Glucose, latest.Fasting))
	}
	return b.String()
}

// backToMenuMarkup is the single-button keyboard shown under empty results
func backToMenuMarkup() *tgbotapi.InlineKeyboardMarkup {
	kb := keyboards.BackToMenu()
	return &kb
}
