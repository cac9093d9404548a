// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/glucose-diary/internal/domain"
)

// TypeTestRecorded is emitted after a glucose test is stored
const TypeTestRecorded = "glucose_test.recorded"

// Event is the message body published to the broker
type Event struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	UserID    int64     `json:"user_id"`
	TestID    uint      `json:"test_id"`
	Glucose   int       `json:"glucose"`
	Fasting   bool      `json:"fasting"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTestRecorded builds the event for a stored test
func NewTestRecorded(test domain.GlucoseTest) Event {
	return Event{
		ID:        uuid.NewString(),
		Event:     TypeTestRecorded,
		UserID:    test.UserID,
		TestID:    test.ID,
		Glucose:   test.Glucose,
		Fasting:   test.Fasting,
		CreatedAt: test.CreatedAt.UTC(),
	}
}

// Publisher delivers events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
