// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/vladimiradmaev/glucose-diary/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu    sync.Mutex
	tests []domain.GlucoseTest
	users []domain.User

	testIDCounter uint
	userIDCounter uint

	now func() time.Time
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{now: time.Now}
}

// Ensure interfaces are met.
var _ domain.GlucoseTestRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)

// --- GlucoseTestRepository ---

// Create stores a test, assigning its ID and, when unset, its creation time.
func (db *DB) Create(ctx context.Context, test *domain.GlucoseTest) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.testIDCounter++
	test.ID = db.testIDCounter
	if test.CreatedAt.IsZero() {
		test.CreatedAt = db.now()
	}

	db.tests = append(db.tests, *test)
	return nil
}

// ListByUser lists tests of a user ordered by creation time.
func (db *DB) ListByUser(ctx context.Context, userID int64, limit int, newestFirst bool) ([]domain.GlucoseTest, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := db.filter(func(t domain.GlucoseTest) bool { return t.UserID == userID })
	sortTests(result, newestFirst)

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListByUserInRange lists tests with start <= CreatedAt < end, newest first.
func (db *DB) ListByUserInRange(ctx context.Context, userID int64, start, end time.Time) ([]domain.GlucoseTest, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := db.filter(func(t domain.GlucoseTest) bool {
		return t.UserID == userID && !t.CreatedAt.Before(start) && t.CreatedAt.Before(end)
	})
	sortTests(result, true)
	return result, nil
}

// Delete removes a test by ID.
func (db *DB) Delete(ctx context.Context, id uint) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	idx := slices.IndexFunc(db.tests, func(t domain.GlucoseTest) bool { return t.ID == id })
	if idx == -1 {
		return domain.ErrNotFound
	}
	db.tests = slices.Delete(db.tests, idx, idx+1)
	return nil
}

// GetByID returns a copy of a test.
func (db *DB) GetByID(ctx context.Context, id uint) (*domain.GlucoseTest, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, t := range db.tests {
		if t.ID == id {
			ret := t
			return &ret, nil
		}
	}
	return nil, domain.ErrNotFound
}

// filter returns copies of matching tests. Caller holds the lock.
func (db *DB) filter(keep func(domain.GlucoseTest) bool) []domain.GlucoseTest {
	result := []domain.GlucoseTest{}
	for _, t := range db.tests {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

func sortTests(tests []domain.GlucoseTest, newestFirst bool) {
	slices.SortFunc(tests, func(a, b domain.GlucoseTest) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = compareIDs(a.ID, b.ID)
		}
		if newestFirst {
			return -c
		}
		return c
	})
}

func compareIDs(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// --- UserRepository ---

// GetOrCreate returns the user with telegramID, registering it first if needed.
func (db *DB) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.TelegramID == telegramID {
			ret := u
			return &ret, nil
		}
	}

	db.userIDCounter++
	now := db.now()
	u := domain.User{
		ID:         db.userIDCounter,
		CreatedAt:  now,
		UpdatedAt:  now,
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
	}
	db.users = append(db.users, u)
	return &u, nil
}

// GetByTelegramID returns a user by telegram ID.
func (db *DB) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.TelegramID == telegramID {
			ret := u
			return &ret, nil
		}
	}
	return nil, domain.ErrNotFound
}
