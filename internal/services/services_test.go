package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/glucose-diary/internal/errors"
	"github.com/vladimiradmaev/glucose-diary/internal/events"
	"github.com/vladimiradmaev/glucose-diary/internal/repository/memory"
)

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// failingRepo fails every call
type failingRepo struct{ domain.GlucoseTestRepository }

var errDown = errors.New("connection refused")

func (failingRepo) Create(context.Context, *domain.GlucoseTest) error { return errDown }
func (failingRepo) ListByUser(context.Context, int64, int, bool) ([]domain.GlucoseTest, error) {
	return nil, errDown
}
func (failingRepo) ListByUserInRange(context.Context, int64, time.Time, time.Time) ([]domain.GlucoseTest, error) {
	return nil, errDown
}

type fixture struct {
	svc   *GlucoseService
	repo  *memory.DB
	pub   *recordingPublisher
	clock time.Time
	loc   *time.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conv, err := calendar.LoadConverter(calendar.DefaultTimezone)
	require.NoError(t, err)

	f := &fixture{
		repo:  memory.New(),
		pub:   &recordingPublisher{},
		loc:   conv.Location(),
		clock: time.Date(2024, 3, 10, 9, 0, 0, 0, conv.Location()),
	}
	f.svc = NewGlucoseService(f.repo, f.pub, conv)
	f.svc.SetClock(func() time.Time { return f.clock })
	return f
}

func (f *fixture) add(t *testing.T, userID int64, glucose int, fasting bool, at time.Time) *domain.GlucoseTest {
	t.Helper()
	f.clock = at
	test, err := f.svc.AddTest(context.Background(), NewTest{
		UserID: userID, Glucose: glucose, Fasting: fasting, TestTime: "08:00", SymptomKey: domain.NoSymptomKey,
	})
	require.NoError(t, err)
	return test
}

func TestAddTest(t *testing.T) {
	f := newFixture(t)

	test, err := f.svc.AddTest(context.Background(), NewTest{
		UserID: 7, Glucose: 120, Fasting: true, TestTime: "07:30", SymptomKey: "headache", Notes: "قبل از صبحانه",
	})
	require.NoError(t, err)

	assert.NotZero(t, test.ID)
	assert.Equal(t, "سردرد", test.Symptoms)
	assert.Equal(t, "1402/12/20", test.JalaliDate)
	assert.True(t, test.CreatedAt.Equal(f.clock))

	stored, err := f.repo.GetByID(context.Background(), test.ID)
	require.NoError(t, err)
	assert.Equal(t, *test, *stored)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, events.TypeTestRecorded, f.pub.events[0].Event)
	assert.Equal(t, test.ID, f.pub.events[0].TestID)
}

func TestAddTest_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []NewTest{
		{UserID: 1, Glucose: 0, TestTime: "08:00", SymptomKey: "none"},
		{UserID: 1, Glucose: 1001, TestTime: "08:00", SymptomKey: "none"},
		{UserID: 1, Glucose: 100, TestTime: "13:00", SymptomKey: "none"},
		{UserID: 1, Glucose: 100, TestTime: "08:00", SymptomKey: "fever"},
	}
	for _, in := range cases {
		_, err := f.svc.AddTest(ctx, in)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), "%+v: %v", in, err)
	}

	all, _ := f.repo.ListByUser(ctx, 1, 0, true)
	assert.Empty(t, all)
	assert.Empty(t, f.pub.events)
}

func TestAddTest_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	test := f.add(t, 1, 100, true, f.clock)
	assert.NotZero(t, test.ID)
}

func TestWeeklyStatistics(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, f.loc)

	f.add(t, 1, 300, false, now.Add(-8*24*time.Hour))
	f.add(t, 1, 70, true, now.Add(-6*24*time.Hour))
	f.add(t, 1, 141, true, now.Add(-2*24*time.Hour))
	f.add(t, 1, 210, false, now)
	f.add(t, 2, 500, false, now)
	f.clock = now

	s, err := f.svc.WeeklyStatistics(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 140.333, s.Mean, 0.001)
	assert.Equal(t, 70, s.Min)
	assert.Equal(t, 210, s.Max)
	assert.Equal(t, 2, s.FastingCount)
	assert.Equal(t, 1, s.NonFastingCount)

	empty, err := f.svc.WeeklyStatistics(context.Background(), 99)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
}

func TestOverallStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, latest, err := f.svc.OverallStatistics(ctx, 1)
	require.NoError(t, err)
	assert.True(t, s.Empty())
	assert.Nil(t, latest)

	base := time.Date(2023, 5, 1, 8, 0, 0, 0, f.loc)
	f.add(t, 1, 90, true, base)
	last := f.add(t, 1, 180, false, base.Add(30*24*time.Hour))
	f.add(t, 1, 110, true, base.Add(24*time.Hour))

	s, latest, err = f.svc.OverallStatistics(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	require.NotNil(t, latest)
	assert.Equal(t, last.ID, latest.ID)
}

func TestMonthlyTests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.add(t, 1, 100, true, time.Date(2024, 2, 19, 23, 59, 0, 0, f.loc)) // 1402/11/30
	first := f.add(t, 1, 110, true, time.Date(2024, 2, 20, 0, 0, 0, 0, f.loc))
	second := f.add(t, 1, 120, true, time.Date(2024, 3, 19, 23, 59, 0, 0, f.loc))
	f.add(t, 1, 130, true, time.Date(2024, 3, 20, 0, 0, 0, 0, f.loc)) // 1403/01/01

	tests, err := f.svc.MonthlyTests(ctx, 1, 1402, 12)
	require.NoError(t, err)
	require.Len(t, tests, 2)
	assert.Equal(t, second.ID, tests[0].ID)
	assert.Equal(t, first.ID, tests[1].ID)

	_, err = f.svc.MonthlyTests(ctx, 1, 1402, 13)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestMonthRangeResolver(t *testing.T) {
	conv, err := calendar.LoadConverter(calendar.DefaultTimezone)
	require.NoError(t, err)

	start, end := NewMonthRangeResolver(conv).Resolve(1, 1402, 12)
	wantStart, wantEnd := conv.MonthRange(1402, 12)

	assert.True(t, start.Equal(wantStart))
	assert.True(t, end.Equal(wantEnd))
}

func TestDeleteTest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	test := f.add(t, 1, 100, true, f.clock)

	err := f.svc.DeleteTest(ctx, 2, test.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypePermission))

	require.NoError(t, f.svc.DeleteTest(ctx, 1, test.ID))

	err = f.svc.DeleteTest(ctx, 1, test.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestRepositoryFailuresAreDatabaseErrors(t *testing.T) {
	conv := calendar.NewConverter(time.UTC)
	svc := NewGlucoseService(failingRepo{}, nil, conv)
	ctx := context.Background()

	_, err := svc.AddTest(ctx, NewTest{UserID: 1, Glucose: 100, TestTime: "08:00", SymptomKey: "none"})
	assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
	assert.ErrorIs(t, err, errDown)

	_, err = svc.RecentTests(ctx, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrDatabaseError)

	_, err = svc.WeeklyStatistics(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrDatabaseError)

	_, _, err = svc.OverallStatistics(ctx, 1)
	assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
}

func TestUserService(t *testing.T) {
	svc := NewUserService(memory.New())
	ctx := context.Background()

	_, err := svc.GetUserByTelegramID(ctx, 5)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	user, err := svc.RegisterUser(ctx, 5, "ali", "Ali", "Rezaei")
	require.NoError(t, err)

	found, err := svc.GetUserByTelegramID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

type slowRepo struct{ failingRepo }

func (slowRepo) ListByUser(context.Context, int64, int, bool) ([]domain.GlucoseTest, error) {
	return nil, context.DeadlineExceeded
}

func TestRepositoryDeadlineIsTimeout(t *testing.T) {
	svc := NewGlucoseService(slowRepo{}, nil, calendar.NewConverter(time.UTC))

	_, err := svc.RecentTests(context.Background(), 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, apperrors.ErrDatabaseError)
}
