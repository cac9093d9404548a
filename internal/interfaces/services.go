package interfaces

import (
	"context"

	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	"github.com/vladimiradmaev/glucose-diary/internal/reports"
	"github.com/vladimiradmaev/glucose-diary/internal/services"
	"github.com/vladimiradmaev/glucose-diary/internal/stats"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
}

// GlucoseServiceInterface defines the contract for glucose test operations
type GlucoseServiceInterface interface {
	AddTest(ctx context.Context, in services.NewTest) (*domain.GlucoseTest, error)
	RecentTests(ctx context.Context, userID int64, limit int) ([]domain.GlucoseTest, error)
	WeeklyTests(ctx context.Context, userID int64) ([]domain.GlucoseTest, error)
	WeeklyStatistics(ctx context.Context, userID int64) (stats.Statistics, error)
	OverallStatistics(ctx context.Context, userID int64) (stats.Statistics, *domain.GlucoseTest, error)
	MonthlyTests(ctx context.Context, userID int64, year, month int) ([]domain.GlucoseTest, error)
	DeleteTest(ctx context.Context, userID int64, id uint) error
	CurrentYear() int
	Converter() calendar.Converter
}

// ReportRendererInterface defines the contract for report rendering
type ReportRendererInterface interface {
	Text(tests []domain.GlucoseTest, label string) string
	Chart(tests []domain.GlucoseTest) reports.Artifact
	Spreadsheet(tests []domain.GlucoseTest) reports.Artifact
}

var (
	_ UserServiceInterface    = (*services.UserService)(nil)
	_ GlucoseServiceInterface = (*services.GlucoseService)(nil)
	_ ReportRendererInterface = (*reports.Renderer)(nil)
)
