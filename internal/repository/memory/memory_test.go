package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/glucose-diary/internal/domain"
)

func seed(t *testing.T, db *DB, userID int64, glucose int, at time.Time) domain.GlucoseTest {
	t.Helper()
	test := domain.GlucoseTest{UserID: userID, Glucose: glucose, TestTime: "08:00", CreatedAt: at}
	require.NoError(t, db.Create(context.Background(), &test))
	return test
}

func ids(tests []domain.GlucoseTest) []uint {
	out := make([]uint, 0, len(tests))
	for _, t := range tests {
		out = append(out, t.ID)
	}
	return out
}

func TestGlucoseTestRepository(t *testing.T) {
	db := New()
	ctx := context.Background()
	base := time.Date(2024, 2, 20, 8, 0, 0, 0, time.UTC)

	a := seed(t, db, 1, 100, base.Add(2*time.Hour))
	b := seed(t, db, 1, 120, base)
	c := seed(t, db, 1, 140, base.Add(time.Hour))
	seed(t, db, 2, 90, base)

	assert.Equal(t, uint(1), a.ID)
	assert.NotZero(t, c.ID)

	newest, err := db.ListByUser(ctx, 1, 0, true)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, c.ID, b.ID}, ids(newest))

	oldest, err := db.ListByUser(ctx, 1, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, c.ID}, ids(oldest))

	other, err := db.ListByUser(ctx, 999, 10, true)
	require.NoError(t, err)
	assert.Empty(t, other)
	assert.NotNil(t, other)

	got, err := db.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 140, got.Glucose)

	// returned values are copies
	got.Glucose = 1
	again, _ := db.GetByID(ctx, c.ID)
	assert.Equal(t, 140, again.Glucose)

	require.NoError(t, db.Delete(ctx, c.ID))
	assert.ErrorIs(t, db.Delete(ctx, c.ID), domain.ErrNotFound)
	_, err = db.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	remaining, _ := db.ListByUser(ctx, 1, 0, true)
	assert.Equal(t, []uint{a.ID, b.ID}, ids(remaining))
}

func TestListByUserInRange_EndExclusive(t *testing.T) {
	db := New()
	ctx := context.Background()
	start := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	atStart := seed(t, db, 1, 100, start)
	inside := seed(t, db, 1, 110, start.Add(48*time.Hour))
	seed(t, db, 1, 120, end)
	seed(t, db, 1, 130, start.Add(-time.Second))
	seed(t, db, 2, 140, start.Add(time.Hour))

	got, err := db.ListByUserInRange(ctx, 1, start, end)
	require.NoError(t, err)
	assert.Equal(t, []uint{inside.ID, atStart.ID}, ids(got))
}

func TestCreate_DefaultsCreatedAt(t *testing.T) {
	db := New()
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return fixed }

	test := domain.GlucoseTest{UserID: 1, Glucose: 99}
	require.NoError(t, db.Create(context.Background(), &test))

	assert.Equal(t, fixed, test.CreatedAt)
}

func TestUserRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	_, err := db.GetByTelegramID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	u, err := db.GetOrCreate(ctx, 42, "sara", "Sara", "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), u.ID)

	same, err := db.GetOrCreate(ctx, 42, "changed", "Changed", "")
	require.NoError(t, err)
	assert.Equal(t, u.ID, same.ID)
	assert.Equal(t, "sara", same.Username)

	found, err := db.GetByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Sara", found.FirstName)
}
