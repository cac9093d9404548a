// Package reports renders glucose tests as text summaries, PNG charts and
// XLSX spreadsheets.
package reports

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
	apperrors "github.com/vladimiradmaev/glucose-diary/internal/errors"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
)

// Outcome tells whether an artifact was produced
type Outcome int

const (
	OutcomeReady Outcome = iota
	OutcomeEmpty
	OutcomeFailed
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeReady:
		return "ready"
	case OutcomeEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Artifact is the result of a binary render. Data is nil unless Outcome is
// OutcomeReady; Err is set only for OutcomeFailed.
type Artifact struct {
	Data    []byte
	Outcome Outcome
	Err     error
}

// Ready reports whether the artifact carries data
func (a Artifact) Ready() bool {
	return a.Outcome == OutcomeReady && len(a.Data) > 0
}

// Renderer turns glucose tests into reports. It holds no mutable state and is
// safe for concurrent use.
type Renderer struct {
	conv calendar.Converter
	now  func() time.Time
	log  *slog.Logger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithClock overrides the clock used for generation timestamps
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithLogger sets the logger used for rendering failures
func WithLogger(log *slog.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// NewRenderer creates a renderer that displays dates with conv
func NewRenderer(conv calendar.Converter, opts ...Option) *Renderer {
	r := &Renderer{conv: conv, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) logger() *slog.Logger {
	if r.log != nil {
		return r.log
	}
	return logger.GetLogger()
}

// guard runs a binary renderer and converts errors and panics into a failed
// artifact so a broken report never takes the process down.
func (r *Renderer) guard(format string, count int, render func() ([]byte, error)) (artifact Artifact) {
	if count == 0 {
		return Artifact{Outcome: OutcomeEmpty}
	}

	defer func() {
		if p := recover(); p != nil {
			artifact = r.failed(format, fmt.Errorf("panic: %v", p))
		}
	}()

	data, err := render()
	if err != nil {
		return r.failed(format, err)
	}
	if len(data) == 0 {
		return r.failed(format, fmt.Errorf("renderer produced no data"))
	}
	return Artifact{Data: data, Outcome: OutcomeReady}
}

func (r *Renderer) failed(format string, err error) Artifact {
	appErr := apperrors.NewRenderingError(err, format)
	r.logger().Warn("Failed to render report", appErr.LogFields()...)
	return Artifact{Outcome: OutcomeFailed, Err: appErr}
}
