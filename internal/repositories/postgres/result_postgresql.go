package postgres

import (
	"context"

	"github.com/hr-training/quiz-service/internal/models"
	"github.com/hr-training/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r ResultPostgreSQL) Append(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}

// ListByUser returns results in insertion order.
func (r ResultPostgreSQL) ListByUser(ctx context.Context, userID string) ([]*models.Result, error) {
	var results []*models.Result
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
