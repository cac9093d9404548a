package state

import (
	"context"
	"sync"
)

// Step is the position of a user in the intake conversation
type Step string

// Intake steps
const (
	None               Step = "none"
	WaitingForGlucose  Step = "waiting_for_glucose"
	WaitingForFasting  Step = "waiting_for_fasting"
	WaitingForTime     Step = "waiting_for_time"
	WaitingForSymptoms Step = "waiting_for_symptoms"
)

// Draft holds the answers collected so far by the intake conversation
type Draft struct {
	Glucose  int    `json:"glucose"`
	Fasting  bool   `json:"fasting"`
	TestTime string `json:"test_time"`
}

// Session is the per-user conversation state
type Session struct {
	Step        Step  `json:"step"`
	Draft       Draft `json:"draft"`
	ReportYear  int   `json:"report_year,omitempty"`
	ReportMonth int   `json:"report_month,omitempty"`
}

// HasReportMonth reports whether a month was picked for a monthly report
func (s Session) HasReportMonth() bool {
	return s.ReportYear > 0 && s.ReportMonth > 0
}

// ResetIntake drops the intake answers but keeps the selected report month
func (s *Session) ResetIntake() {
	s.Step = None
	s.Draft = Draft{}
}

// StateManager stores sessions keyed by telegram user id.
// A missing session is returned as the zero Session with Step None.
type StateManager interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Save(ctx context.Context, userID int64, session Session) error
	Clear(ctx context.Context, userID int64) error
}

// Manager keeps sessions in process memory
type Manager struct {
	sessions map[int64]Session
	mu       sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]Session),
	}
}

var _ StateManager = (*Manager)(nil)

// Get returns the session of a user
func (m *Manager) Get(_ context.Context, userID int64) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, exists := m.sessions[userID]
	if !exists {
		return Session{Step: None}, nil
	}
	return session, nil
}

// Save replaces the session of a user
func (m *Manager) Save(_ context.Context, userID int64, session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.Step == "" {
		session.Step = None
	}
	m.sessions[userID] = session
	return nil
}

// Clear removes the session of a user
func (m *Manager) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}
