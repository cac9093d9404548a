package handlers

import (
	"context"

	apperrors "github.com/vladimiradmaev/glucose-diary/internal/errors"
	"github.com/vladimiradmaev/glucose-diary/internal/interfaces"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService    interfaces.UserServiceInterface
	GlucoseService interfaces.GlucoseServiceInterface
	Renderer       interfaces.ReportRendererInterface
	Errors         *apperrors.Handler
}

// maxMessageRunes keeps report chunks under the telegram message limit
const maxMessageRunes = 4000

// recentTestsLimit is the number of tests shown in the test list
const recentTestsLimit = 10

// User facing messages for failures
const (
	msgSaveFailed       = "❌ خطا در ثبت آزمایش!"
	msgLoadFailed       = "❌ خطا در دریافت اطلاعات. لطفاً دوباره تلاش کنید."
	msgNotFound         = "❌ آزمایش مورد نظر یافت نشد."
	msgForbidden        = "❌ شما اجازه دسترسی به این آزمایش را ندارید."
	msgInvalidInput     = "❌ اطلاعات وارد شده نامعتبر است."
	msgSessionExpired   = "⌛ جلسه شما منقضی شده است. لطفاً دوباره از منوی اصلی شروع کنید."
	msgNoMonth          = "❌ خطا در دریافت اطلاعات ماه."
	msgNoTests          = "❌ هیچ آزمایشی ثبت نشده است."
	msgNoWeeklyTests    = "❌ هیچ آزمایشی در ۷ روز گذشته ثبت نشده است."
	msgNoMonthTests     = "❌ هیچ آزمایشی برای این ماه یافت نشد."
	msgChartFailed      = "❌ خطا در ایجاد نمودار."
	msgSpreadsheetError = "❌ خطا در ایجاد فایل اکسل."
	msgInvalidNumber    = "❌ عدد نامعتبر! لطفاً عددی بین ۱ تا ۱۰۰۰ وارد کنید:"
	msgNotANumber       = "❌ لطفاً فقط عدد وارد کنید (مثلاً 120):"
	msgUseMenu          = "لطفاً از منوی زیر استفاده کنید:"
	msgUnknownCommand   = "دستور ناشناخته. برای مشاهده دستورات /help را بزنید."
)

// userMessage maps an application error to the text shown to the user
func userMessage(err error) string {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		return msgInvalidInput
	case apperrors.ErrorTypeNotFound:
		return msgNotFound
	case apperrors.ErrorTypePermission:
		return msgForbidden
	default:
		return msgLoadFailed
	}
}

// report logs err through the error handler when one is configured
func (d Dependencies) report(ctx context.Context, err error) {
	if d.Errors == nil {
		apperrors.NewHandler(nil).Handle(ctx, err)
		return
	}
	d.Errors.Handle(ctx, err)
}
