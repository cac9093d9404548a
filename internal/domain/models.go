package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("record not found")

// User represents a telegram user in the system
type User struct {
	ID         uint
	CreatedAt  time.Time
	UpdatedAt  time.Time
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

// GlucoseTest represents a single blood glucose measurement.
// Records are immutable once created; they can only be deleted.
type GlucoseTest struct {
	ID         uint
	UserID     int64 // Telegram user id
	Glucose    int   // mg/dL
	Fasting    bool
	TestTime   string // one of TimeSlots
	Symptoms   string // display label from Symptoms
	Notes      string
	JalaliDate string // YYYY/MM/DD, derived from CreatedAt at creation
	CreatedAt  time.Time
}

// FastingLabel returns the Persian label of the measurement context
func (t GlucoseTest) FastingLabel() string {
	if t.Fasting {
		return "ناشتا"
	}
	return "غیرناشتا"
}
