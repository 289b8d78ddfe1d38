package repositories

import (
	"context"
	"errors"

	"github.com/hr-training/quiz-service/internal/models"
	"gorm.io/gorm"
)

// QuestionRepository is the durable question bank.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	ListByCategory(ctx context.Context, filter models.CategoryFilter) ([]*models.Question, error)
	CountByCategory(ctx context.Context) (map[models.Category]int64, error)
}

// ResultRepository is the append-only attempt history. There are no update
// or delete operations; history is permanent from this service's perspective.
type ResultRepository interface {
	Append(ctx context.Context, result *models.Result) error
	ListByUser(ctx context.Context, userID string) ([]*models.Result, error)
}

type QuestionFilters struct {
	Category  *models.Category `json:"category"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`    // "created_at", "category"
	SortOrder string           `json:"sort_order"` // "asc", "desc"
}

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
