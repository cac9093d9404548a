package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/glucose-diary/internal/errors"
	"github.com/vladimiradmaev/glucose-diary/internal/events"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
	"github.com/vladimiradmaev/glucose-diary/internal/stats"
)

// WeeklyWindow is the look-back period of the weekly report
const WeeklyWindow = 7 * 24 * time.Hour

// storeError wraps a repository failure, keeping deadline and cancellation
// apart from database faults
func storeError(err error, operation string) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.NewTimeoutError(err, operation)
	}
	return apperrors.NewDatabaseError(err).WithContext("operation", operation)
}

// NewTest is the input of the intake flow
type NewTest struct {
	UserID     int64
	Glucose    int
	Fasting    bool
	TestTime   string
	SymptomKey string
	Notes      string
}

type GlucoseService struct {
	tests     domain.GlucoseTestRepository
	publisher events.Publisher
	conv      calendar.Converter
	months    MonthRangeResolver
	now       func() time.Time
}

func NewGlucoseService(tests domain.GlucoseTestRepository, publisher events.Publisher, conv calendar.Converter) *GlucoseService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &GlucoseService{
		tests:     tests,
		publisher: publisher,
		conv:      conv,
		months:    NewMonthRangeResolver(conv),
		now:       time.Now,
	}
}

// SetClock replaces the service clock
func (s *GlucoseService) SetClock(now func() time.Time) {
	s.now = now
}

// Converter returns the calendar converter the service stamps dates with
func (s *GlucoseService) Converter() calendar.Converter {
	return s.conv
}

// AddTest validates and stores a new test. The Jalali date is computed from
// the same instant stored as CreatedAt.
func (s *GlucoseService) AddTest(ctx context.Context, in NewTest) (*domain.GlucoseTest, error) {
	if !domain.ValidGlucose(in.Glucose) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("glucose must be in (%d, %d], got %d", domain.MinGlucose, domain.MaxGlucose, in.Glucose)).
			WithContext("glucose", in.Glucose)
	}
	if !domain.IsTimeSlot(in.TestTime) {
		return nil, apperrors.NewValidationError("unknown test time slot").WithContext("test_time", in.TestTime)
	}
	symptom, ok := domain.SymptomLabel(in.SymptomKey)
	if !ok {
		return nil, apperrors.NewValidationError("unknown symptom").WithContext("symptom", in.SymptomKey)
	}

	createdAt := s.now()
	test := &domain.GlucoseTest{
		UserID:     in.UserID,
		Glucose:    in.Glucose,
		Fasting:    in.Fasting,
		TestTime:   in.TestTime,
		Symptoms:   symptom,
		Notes:      in.Notes,
		JalaliDate: s.conv.Date(createdAt),
		CreatedAt:  createdAt,
	}

	if err := s.tests.Create(ctx, test); err != nil {
		return nil, storeError(err, "create_test")
	}

	if err := s.publisher.Publish(ctx, events.NewTestRecorded(*test)); err != nil {
		logger.Warn("Failed to publish test event", "error", err, "test_id", test.ID)
	}

	logger.Info("Glucose test recorded", "user_id", test.UserID, "test_id", test.ID, "band", stats.Classify(test.Glucose, test.Fasting).String())
	return test, nil
}

// RecentTests returns the newest tests of a user
func (s *GlucoseService) RecentTests(ctx context.Context, userID int64, limit int) ([]domain.GlucoseTest, error) {
	tests, err := s.tests.ListByUser(ctx, userID, limit, true)
	if err != nil {
		return nil, storeError(err, "list_tests")
	}
	return tests, nil
}

// WeeklyTests returns tests created during the last seven days, newest first
func (s *GlucoseService) WeeklyTests(ctx context.Context, userID int64) ([]domain.GlucoseTest, error) {
	now := s.now()
	// the range end is exclusive, so move it past now to include tests stamped at now
	tests, err := s.tests.ListByUserInRange(ctx, userID, now.Add(-WeeklyWindow), now.Add(time.Nanosecond))
	if err != nil {
		return nil, storeError(err, "weekly_tests")
	}
	return tests, nil
}

// WeeklyStatistics aggregates the last seven days of tests
func (s *GlucoseService) WeeklyStatistics(ctx context.Context, userID int64) (stats.Statistics, error) {
	tests, err := s.WeeklyTests(ctx, userID)
	if err != nil {
		return stats.Statistics{}, err
	}
	return stats.Aggregate(tests), nil
}

// OverallStatistics aggregates every test of a user and returns the latest one.
// The latest test is nil when the user has none.
func (s *GlucoseService) OverallStatistics(ctx context.Context, userID int64) (stats.Statistics, *domain.GlucoseTest, error) {
	tests, err := s.tests.ListByUser(ctx, userID, 0, true)
	if err != nil {
		return stats.Statistics{}, nil, storeError(err, "overall_stats")
	}
	return stats.Aggregate(tests), stats.Latest(tests), nil
}

// MonthlyTests returns the tests of a Jalali month, newest first
func (s *GlucoseService) MonthlyTests(ctx context.Context, userID int64, year, month int) ([]domain.GlucoseTest, error) {
	if !calendar.ValidMonth(month) || year <= 0 {
		return nil, apperrors.NewValidationError("invalid Jalali month").
			WithContext("year", year).
			WithContext("month", month)
	}

	start, end := s.months.Resolve(userID, year, month)
	tests, err := s.tests.ListByUserInRange(ctx, userID, start, end)
	if err != nil {
		return nil, storeError(err, "monthly_tests")
	}
	return tests, nil
}

// CurrentYear returns the Jalali year of the service clock
func (s *GlucoseService) CurrentYear() int {
	return s.conv.Year(s.now())
}

// GetTest returns a test owned by userID
func (s *GlucoseService) GetTest(ctx context.Context, userID int64, id uint) (*domain.GlucoseTest, error) {
	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("glucose test", id)
		}
		return nil, storeError(err, "get_test")
	}
	if test.UserID != userID {
		return nil, apperrors.NewPermissionError("glucose test belongs to another user").
			WithContext("test_id", id).
			WithContext("user_id", userID)
	}
	return test, nil
}

// DeleteTest removes a test owned by userID
func (s *GlucoseService) DeleteTest(ctx context.Context, userID int64, id uint) error {
	if _, err := s.GetTest(ctx, userID, id); err != nil {
		return err
	}

	if err := s.tests.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.NewNotFoundError("glucose test", id)
		}
		return storeError(err, "delete_test")
	}

	logger.Info("Glucose test deleted", "user_id", userID, "test_id", id)
	return nil
}
