package menus

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/glucose-diary/internal/bot/keyboards"
	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
)

// Sender is the part of *tgbotapi.BotAPI the bot uses
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

const (
	HelpText = `📖 *راهنمای ربات مدیریت قند خون*

🎯 *دستورات اصلی:*
• /start - شروع ربات
• /cancel - لغو عملیات جاری
• شروع - ثبت آزمایش جدید
• راهنما - نمایش این راهنما

🔹 *ثبت آزمایش جدید:*
1. عدد قند خون را وارد کنید
2. وضعیت ناشتا بودن را انتخاب کنید
3. ساعت آزمایش را انتخاب کنید
4. علائم را انتخاب کنید

📊 *گزارش‌ها:*
• گزارش هفتگی: آمار ۷ روز گذشته
• گزارش ماهانه: نمودار، فایل اکسل یا گزارش متنی یک ماه خاص

📋 *مدیریت:*
• مشاهده و حذف آخرین آزمایش‌ها
• مشاهده آمار کلی

برای شروع، «ثبت آزمایش جدید» را انتخاب کنید.`

	GlucosePrompt  = "🔹 *مرحله ۱ از ۴*\n\nلطفاً *عدد قند خون* خود را وارد کنید (مثلاً 120):"
	FastingPrompt  = "🔹 *مرحله ۲ از ۴*\n\nآیا آزمایش *ناشتا* بوده است؟"
	TimePrompt     = "🔹 *مرحله ۳ از ۴*\n\nلطفاً *ساعت آزمایش* را انتخاب کنید:"
	SymptomsPrompt = "🔹 *مرحله ۴ از ۴*\n\nلطفاً *علائم* خود را انتخاب کنید:"

	CancelledText = "❌ عملیات لغو شد."
	BackToMenu    = "به منوی اصلی برگشتید."
)

// WelcomeText greets a user by first name
func WelcomeText(firstName string) string {
	return fmt.Sprintf(`سلام %s 👋

به ربات مدیریت قند خون خوش آمدید!

📌 *امکانات:*
• ثبت آزمایش‌های قند خون
• گزارش‌های هفتگی و ماهانه
• نمودارهای گرافیکی
• خروجی اکسل
• آمار و تحلیل

💡 *برای شروع:*
1. از دکمه‌های زیر استفاده کنید
2. یا «شروع» را تایپ کنید

برای راهنما «راهنما» را تایپ کنید.`, firstName)
}

// MonthlyMenuText is shown above the month picker
func MonthlyMenuText(year int) string {
	return fmt.Sprintf("📅 *گزارش ماهانه*\n\nلطفاً ماه مورد نظر را انتخاب کنید:\n\nسال: %d", year)
}

// MonthSummaryText is shown above the report format picker
func MonthSummaryText(year, month, count int) string {
	return fmt.Sprintf("📊 *گزارش ماه %s سال %d*\n\nتعداد آزمایش‌ها: %d\n\nلطفاً نوع گزارش را انتخاب کنید:",
		calendar.MonthName(month), year, count)
}

// SendText sends a Markdown message and retries as plain text when Telegram
// rejects the markup.
func SendText(api Sender, chatID int64, text string, markup any) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := api.Send(msg)
	if err != nil {
		logger.Warn("Markdown send failed, retrying as plain text", "chat_id", chatID, "error", err)
		msg.ParseMode = ""
		return api.Send(msg)
	}
	return sent, nil
}

// SendPlain sends a message without parse mode
func SendPlain(api Sender, chatID int64, text string, markup any) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	return api.Send(msg)
}

// EditText replaces the text and keyboard of a message. Markdown is tried
// first; if editing fails entirely a new message is sent instead.
func EditText(api Sender, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if messageID == 0 {
		var m any
		if markup != nil {
			m = *markup
		}
		_, err := SendText(api, chatID, text, m)
		return err
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = markup
	if _, err := api.Send(edit); err == nil {
		return nil
	}

	edit.ParseMode = ""
	if _, err := api.Send(edit); err == nil {
		return nil
	}

	logger.Warn("Edit failed, sending a new message", "chat_id", chatID, "message_id", messageID)
	var m any
	if markup != nil {
		m = *markup
	}
	_, err := SendPlain(api, chatID, text, m)
	return err
}

// EditPlain replaces the text of a message without parse mode, sending a new
// message when the edit fails.
func EditPlain(api Sender, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if messageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ReplyMarkup = markup
		if _, err := api.Send(edit); err == nil {
			return nil
		}
		logger.Warn("Edit failed, sending a new message", "chat_id", chatID, "message_id", messageID)
	}
	var m any
	if markup != nil {
		m = *markup
	}
	_, err := SendPlain(api, chatID, text, m)
	return err
}

// SendMainMenu sends the welcome text with the main menu
func SendMainMenu(api Sender, chatID int64, firstName string) error {
	_, err := SendText(api, chatID, WelcomeText(firstName), keyboards.MainMenu())
	return err
}

// SendHelp sends the help text with the main menu
func SendHelp(api Sender, chatID int64) error {
	_, err := SendText(api, chatID, HelpText, keyboards.MainMenu())
	return err
}

// MainMenuMarkup returns a pointer to a fresh main menu keyboard for edits
func MainMenuMarkup() *tgbotapi.InlineKeyboardMarkup {
	kb := keyboards.MainMenu()
	return &kb
}
