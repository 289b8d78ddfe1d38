package models

import "time"

type SessionState string

const (
	SessionIdle      SessionState = "idle"
	SessionRunning   SessionState = "running"
	SessionPaused    SessionState = "paused"
	SessionCompleted SessionState = "completed"
)

// EndReason records why a session was submitted.
type EndReason string

const (
	EndReasonManual  EndReason = "manual"
	EndReasonTimeout EndReason = "timeout"
)

// SessionConfig is validated before any state transition happens; an invalid
// config leaves the engine in its current state.
type SessionConfig struct {
	Category CategoryFilter `json:"category" validate:"required,category_filter"`
	// QuestionCount of 0 means "all available questions".
	QuestionCount    int `json:"question_count" validate:"gte=0"`
	TimeLimitMinutes int `json:"time_limit_minutes" validate:"required,gte=1,lte=300"`
}

// Session is one live run of a timed quiz. It is owned exclusively by a single
// engine instance and mutated only through engine operations.
type Session struct {
	Questions        []*Question
	CurrentIndex     int
	Answers          map[uint]int // question id -> chosen option index
	RemainingSeconds int
	Paused           bool
	StartedAt        time.Time
	State            SessionState
	Config           SessionConfig
}

// Answered reports whether the question with the given id has an answer.
func (s *Session) Answered(questionID uint) (int, bool) {
	idx, ok := s.Answers[questionID]
	return idx, ok
}

// SessionSnapshot is the read-only view handed to rendering layers. The
// correct indexes of the questions are deliberately not included while a
// session is in progress.
type SessionSnapshot struct {
	State            SessionState     `json:"state"`
	CurrentIndex     int              `json:"current_index"`
	QuestionCount    int              `json:"question_count"`
	AnsweredCount    int              `json:"answered_count"`
	RemainingSeconds int              `json:"remaining_seconds"`
	TimeWarning      bool             `json:"time_warning"`
	Paused           bool             `json:"paused"`
	Question         *SessionQuestion `json:"question,omitempty"`
}

// SessionQuestion is the current question as shown to the taker.
type SessionQuestion struct {
	ID          uint     `json:"id"`
	Category    Category `json:"category"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	ChosenIndex *int     `json:"chosen_index,omitempty"`
}
