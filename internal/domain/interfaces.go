package domain

import (
	"context"
	"time"
)

// GlucoseTestRepository is the port for glucose test persistence.
// List methods return tests ordered by CreatedAt.
type GlucoseTestRepository interface {
	// Create stores a new test and fills its ID
	Create(ctx context.Context, test *GlucoseTest) error
	// ListByUser returns up to limit tests of a user; limit <= 0 means all
	ListByUser(ctx context.Context, userID int64, limit int, newestFirst bool) ([]GlucoseTest, error)
	// ListByUserInRange returns tests with start <= CreatedAt < end, newest first
	ListByUserInRange(ctx context.Context, userID int64, start, end time.Time) ([]GlucoseTest, error)
	// Delete removes a test by ID, returning ErrNotFound when absent
	Delete(ctx context.Context, id uint) error
	// GetByID returns a test by ID, or ErrNotFound
	GetByID(ctx context.Context, id uint) (*GlucoseTest, error)
}

// UserRepository handles user profile persistence
type UserRepository interface {
	GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
}
