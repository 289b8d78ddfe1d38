package models

import "time"

// Result is one scored attempt. Rows are append-only: the engine writes them
// once on submission and nothing in this service updates or deletes them.
type Result struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        string         `json:"user_id" gorm:"not null;size:100;index"`
	Correct       int            `json:"correct" gorm:"not null"`
	Total         int            `json:"total" gorm:"not null"`
	Percentage    int            `json:"percentage" gorm:"not null"`
	Passed        bool           `json:"passed" gorm:"not null"`
	QuestionCount int            `json:"question_count" gorm:"not null"`
	DurationMs    int64          `json:"duration_ms" gorm:"not null"`
	EndReason     EndReason      `json:"end_reason" gorm:"size:20"`
	Category      CategoryFilter `json:"category" gorm:"size:20"`
	TakenAt       time.Time      `json:"taken_at" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
}

func (Result) TableName() string {
	return "results"
}

// PassingPercentage is the score at or above which an attempt passes.
const PassingPercentage = 60

// ReviewEntry is the per-question breakdown shown after submission. It is
// derived from the session on demand and never stored.
type ReviewEntry struct {
	QuestionIndex int      `json:"question_index"`
	QuestionID    uint     `json:"question_id"`
	QuestionText  string   `json:"question_text"`
	Category      Category `json:"category"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correct_index"`
	ChosenIndex   *int     `json:"chosen_index,omitempty"`
	IsCorrect     bool     `json:"is_correct"`
}
