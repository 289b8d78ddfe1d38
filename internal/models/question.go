package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryAssessment Category = "assessment"
	CategoryOps        Category = "ops"
	CategoryHR         Category = "hr"
)

// Categories lists all valid question categories in display order.
var Categories = []Category{CategoryAssessment, CategoryOps, CategoryHR}

func (c Category) IsValid() bool {
	switch c {
	case CategoryAssessment, CategoryOps, CategoryHR:
		return true
	}
	return false
}

// DisplayName returns the human-readable category label.
func (c Category) DisplayName() string {
	if c == CategoryOps {
		return "Operations"
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Question is a single-choice question in the bank. Options are stored as a
// JSON column; CorrectIndex addresses into Options. A session holds its own
// snapshot of the questions it was built from, so later edits to the bank do
// not affect runs already in progress.
type Question struct {
	ID           uint                        `json:"id" gorm:"primaryKey"`
	Category     Category                    `json:"category" gorm:"not null;size:20;index" validate:"required,question_category"`
	Text         string                      `json:"text" gorm:"not null;type:text" validate:"required,min=1,max=2000"`
	Options      datatypes.JSONSlice[string] `json:"options" gorm:"not null" validate:"required,min=2,max=4,dive,required"`
	CorrectIndex int                         `json:"correct_index" gorm:"not null" validate:"gte=0,lte=3"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

// CategoryFilter restricts the candidate pool for a session. "all" disables
// filtering.
type CategoryFilter string

const FilterAll CategoryFilter = "all"

func (f CategoryFilter) IsValid() bool {
	return f == FilterAll || Category(f).IsValid()
}

// Matches reports whether a question passes the filter.
func (f CategoryFilter) Matches(q *Question) bool {
	return f == FilterAll || Category(f) == q.Category
}
