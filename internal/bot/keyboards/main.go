package keyboards

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
)

// Callback data
const (
	NewTest      = "new_test"
	FastingYes   = "fasting_yes"
	FastingNo    = "fasting_no"
	Back         = "back"
	Cancel       = "cancel"
	WeeklyReport = "weekly_report"
	MonthlyMenu  = "monthly_menu"
	Chart        = "chart"
	Excel        = "excel"
	Text         = "text"
	BackMonths   = "back_months"
	ListTests    = "list_tests"
	OverallStats = "overall_stats"
	Help         = "help"
	MainMenuData = "main_menu"

	TimePrefix    = "time_"
	SymptomPrefix = "symptom_"
	MonthPrefix   = "month_"
	DeletePrefix  = "delete_"
)

const (
	timeColumns    = 3
	symptomColumns = 2
	monthColumns   = 3
)

func backAndCancelRows() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔙 بازگشت", Back)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ لغو", Cancel)),
	}
}

func mainMenuRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🏠 منوی اصلی", MainMenuData))
}

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ ثبت آزمایش جدید", NewTest),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 گزارش هفتگی", WeeklyReport),
			tgbotapi.NewInlineKeyboardButtonData("📈 گزارش ماهانه", MonthlyMenu),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 لیست آزمایش‌ها", ListTests),
			tgbotapi.NewInlineKeyboardButtonData("📊 آمار کلی", OverallStats),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 راهنما", Help),
		),
	)
}

// Fasting creates the fasting question keyboard
func Fasting() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🟦 ناشتا", FastingYes),
			tgbotapi.NewInlineKeyboardButtonData("🟧 غیرناشتا", FastingNo),
		),
	}
	return tgbotapi.NewInlineKeyboardMarkup(append(rows, backAndCancelRows()...)...)
}

// TimeSlots creates the test time keyboard
func TimeSlots() tgbotapi.InlineKeyboardMarkup {
	buttons := lo.Map(domain.TimeSlots, func(slot string, _ int) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(slot, TimePrefix+slot)
	})
	rows := lo.Chunk(buttons, timeColumns)
	return tgbotapi.NewInlineKeyboardMarkup(append(rows, backAndCancelRows()...)...)
}

// Symptoms creates the symptom keyboard
func Symptoms() tgbotapi.InlineKeyboardMarkup {
	buttons := lo.Map(domain.Symptoms, func(s domain.Symptom, _ int) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(s.Label, SymptomPrefix+s.Key)
	})
	rows := lo.Chunk(buttons, symptomColumns)
	return tgbotapi.NewInlineKeyboardMarkup(append(rows, backAndCancelRows()...)...)
}

// Months creates the month picker for a Jalali year
func Months(year int) tgbotapi.InlineKeyboardMarkup {
	buttons := lo.Map(lo.RangeFrom(1, 12), func(month int, _ int) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(calendar.MonthName(month), MonthData(year, month))
	})
	rows := lo.Chunk(buttons, monthColumns)
	return tgbotapi.NewInlineKeyboardMarkup(append(rows, mainMenuRow())...)
}

// ReportTypes creates the monthly report format keyboard
func ReportTypes() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 نمودار", Chart),
			tgbotapi.NewInlineKeyboardButtonData("📋 اکسل", Excel),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 متن", Text),
			tgbotapi.NewInlineKeyboardButtonData("🔙 بازگشت", BackMonths),
		),
	)
}

// TestList creates one delete button per test followed by the main menu row
func TestList(tests []domain.GlucoseTest) tgbotapi.InlineKeyboardMarkup {
	rows := lo.Map(tests, func(t domain.GlucoseTest, i int) []tgbotapi.InlineKeyboardButton {
		label := fmt.Sprintf("🗑️ حذف %d (%s - %d)", i+1, t.JalaliDate, t.Glucose)
		return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, DeleteData(t.ID)))
	})
	return tgbotapi.NewInlineKeyboardMarkup(append(rows, mainMenuRow())...)
}

// BackToMenu creates a keyboard with only the main menu button
func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(mainMenuRow())
}

// MonthData builds the callback data of a month button
func MonthData(year, month int) string {
	return fmt.Sprintf("%s%d_%d", MonthPrefix, year, month)
}

// ParseMonth parses month_<year>_<month> callback data
func ParseMonth(data string) (year, month int, ok bool) {
	rest, found := strings.CutPrefix(data, MonthPrefix)
	if !found {
		return 0, 0, false
	}
	yearStr, monthStr, found := strings.Cut(rest, "_")
	if !found {
		return 0, 0, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year <= 0 {
		return 0, 0, false
	}
	month, err = strconv.Atoi(monthStr)
	if err != nil || !calendar.ValidMonth(month) {
		return 0, 0, false
	}
	return year, month, true
}

// DeleteData builds the callback data of a delete button
func DeleteData(id uint) string {
	return DeletePrefix + strconv.FormatUint(uint64(id), 10)
}

// ParseDelete parses delete_<id> callback data
func ParseDelete(data string) (uint, bool) {
	rest, found := strings.CutPrefix(data, DeletePrefix)
	if !found {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
