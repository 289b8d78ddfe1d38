package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/hr-training/quiz-service/internal/cache"
	"github.com/hr-training/quiz-service/internal/models"
	"github.com/hr-training/quiz-service/internal/repositories"
	"github.com/hr-training/quiz-service/internal/utils"
)

const (
	questionPoolKeyPrefix = "quiz:questions:"
	questionPoolTTL       = 5 * time.Minute
)

// QuestionService manages the question bank: the admin-panel CRUD surface
// plus the cached read path the session engine starts from.
type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error)
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, id uint, req *CreateQuestionRequest) (*models.Question, error)
	Duplicate(ctx context.Context, id uint) (*models.Question, error)
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)
	SeedDemoData(ctx context.Context) ([]*models.Question, error)

	// ListByCategory serves session starts, going through the redis cache.
	ListByCategory(ctx context.Context, filter models.CategoryFilter) ([]*models.Question, error)
}

type CreateQuestionRequest struct {
	Category     models.Category `json:"category" validate:"required,question_category"`
	Text         string          `json:"text" validate:"required,min=1,max=2000"`
	Options      []string        `json:"options" validate:"required,min=2,max=4,dive,required"`
	CorrectIndex int             `json:"correct_index" validate:"gte=0,lte=3"`
}

type QuestionListResponse struct {
	Questions  []*models.Question        `json:"questions"`
	Total      int64                     `json:"total"`
	ByCategory map[models.Category]int64 `json:"by_category"`
}

type questionService struct {
	repo      repositories.QuestionRepository
	cache     cache.CacheService
	logger    *slog.Logger
	validator *utils.Validator
}

func NewQuestionService(repo repositories.QuestionRepository, cacheService cache.CacheService, logger *slog.Logger, validator *utils.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		cache:     cacheService,
		logger:    logger,
		validator: validator,
	}
}

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error) {
	question, err := s.buildQuestion(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.invalidatePool(ctx)
	s.logger.Info("question created", "question_id", question.ID, "category", question.Category)
	return question, nil
}

func (s *questionService) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *CreateQuestionRequest) (*models.Question, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildQuestion(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.invalidatePool(ctx)
	s.logger.Info("question updated", "question_id", id)
	return updated, nil
}

// Duplicate copies a question under a new id, marking the text the way the
// admin panel does.
func (s *questionService) Duplicate(ctx context.Context, id uint) (*models.Question, error) {
	original, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	options := make([]string, len(original.Options))
	copy(options, original.Options)

	duplicate := &models.Question{
		Category:     original.Category,
		Text:         original.Text + " (Copy)",
		Options:      datatypes.NewJSONSlice(options),
		CorrectIndex: original.CorrectIndex,
	}

	if err := s.repo.Create(ctx, duplicate); err != nil {
		return nil, fmt.Errorf("failed to duplicate question: %w", err)
	}

	s.invalidatePool(ctx)
	s.logger.Info("question duplicated", "source_id", id, "question_id", duplicate.ID)
	return duplicate, nil
}

func (s *questionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.invalidatePool(ctx)
	s.logger.Info("question deleted", "question_id", id)
	return nil
}

func (s *questionService) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	s.invalidatePool(ctx)
	s.logger.Info("all questions deleted")
	return nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	questions, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	return &QuestionListResponse{
		Questions:  questions,
		Total:      total,
		ByCategory: counts,
	}, nil
}

func (s *questionService) ListByCategory(ctx context.Context, filter models.CategoryFilter) ([]*models.Question, error) {
	key := questionPoolKeyPrefix + string(filter)

	var cached []*models.Question
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// Degrade to the database on cache trouble.
		s.logger.Warn("question pool cache read failed", "key", key, "error", err)
	}

	questions, err := s.repo.ListByCategory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load question pool: %w", err)
	}

	if err := s.cache.Set(ctx, key, questions, questionPoolTTL); err != nil {
		s.logger.Warn("question pool cache write failed", "key", key, "error", err)
	}
	return questions, nil
}

func (s *questionService) buildQuestion(req *CreateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	question := &models.Question{
		Category:     req.Category,
		Text:         req.Text,
		Options:      datatypes.NewJSONSlice(req.Options),
		CorrectIndex: req.CorrectIndex,
	}
	if err := s.validator.ValidateQuestion(question); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return question, nil
}

func (s *questionService) invalidatePool(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, questionPoolKeyPrefix+"*"); err != nil {
		s.logger.Warn("question pool cache invalidation failed", "error", err)
	}
}
