package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/hr-training/quiz-service/internal/models"
)

// EventType identifies a session lifecycle event.
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionSubmitted EventType = "session.submitted"
)

// SessionEvent is the envelope published for every session lifecycle event.
type SessionEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Data      interface{} `json:"data"`
}

const eventSource = "quiz-service"

type SessionStartedEvent struct {
	UserID           string                `json:"user_id"`
	Category         models.CategoryFilter `json:"category"`
	QuestionCount    int                   `json:"question_count"`
	TimeLimitMinutes int                   `json:"time_limit_minutes"`
}

type SessionSubmittedEvent struct {
	UserID     string           `json:"user_id"`
	Correct    int              `json:"correct"`
	Total      int              `json:"total"`
	Percentage int              `json:"percentage"`
	Passed     bool             `json:"passed"`
	EndReason  models.EndReason `json:"end_reason"`
	DurationMs int64            `json:"duration_ms"`
}

// NewSessionEvent wraps a payload in the event envelope.
func NewSessionEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Data:      data,
	}
}
