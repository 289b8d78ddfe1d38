package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hr-training/quiz-service/internal/engine"
	"github.com/hr-training/quiz-service/internal/events"
	"github.com/hr-training/quiz-service/internal/models"
	"github.com/hr-training/quiz-service/internal/repositories"
	"github.com/hr-training/quiz-service/internal/utils"
)

// SessionService owns one session engine per user and the ticker that drives
// their countdowns. The engines themselves serialize their operations, so a
// ticker callback and an HTTP call for the same user can never overlap.
type SessionService interface {
	Start(ctx context.Context, userID string, cfg models.SessionConfig) (*models.SessionSnapshot, error)
	RecordAnswer(ctx context.Context, userID string, questionID uint, optionIndex int) (*models.SessionSnapshot, error)
	Navigate(ctx context.Context, userID string, delta int) (*models.SessionSnapshot, error)
	Pause(ctx context.Context, userID string) (*models.SessionSnapshot, error)
	Resume(ctx context.Context, userID string) (*models.SessionSnapshot, error)
	Submit(ctx context.Context, userID string) (*SubmitResponse, error)
	Reset(ctx context.Context, userID string) error
	Snapshot(ctx context.Context, userID string) (*models.SessionSnapshot, error)
	Review(ctx context.Context, userID string) ([]models.ReviewEntry, error)
	Results(ctx context.Context, userID string) ([]*models.Result, error)

	// Run drives ticks for all engines until ctx is cancelled.
	Run(ctx context.Context)
}

// SubmitResponse carries the scored result plus a warning when the result
// could not be persisted (the completed state and the score still hold).
type SubmitResponse struct {
	Result  *models.Result `json:"result"`
	Warning string         `json:"warning,omitempty"`
}

type sessionService struct {
	mu      sync.Mutex
	engines map[string]*engine.Engine

	questions QuestionService
	results   repositories.ResultRepository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
}

func NewSessionService(
	questions QuestionService,
	results repositories.ResultRepository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) SessionService {
	return &sessionService{
		engines:   make(map[string]*engine.Engine),
		questions: questions,
		results:   results,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// questionSource adapts the cached question service to the engine's
// read-only view of the bank.
type questionSource struct {
	questions QuestionService
}

func (qs questionSource) ListByCategory(ctx context.Context, filter models.CategoryFilter) ([]*models.Question, error) {
	return qs.questions.ListByCategory(ctx, filter)
}

func (s *sessionService) engineFor(userID string) *engine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()

	eng, ok := s.engines[userID]
	if !ok {
		eng = engine.New(userID, questionSource{s.questions}, s.results, s.logger)
		s.engines[userID] = eng
	}
	return eng
}

// activeEngines returns a snapshot of the engine set for the ticker loop.
func (s *sessionService) activeEngines() []*engine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()

	engines := make([]*engine.Engine, 0, len(s.engines))
	for _, eng := range s.engines {
		engines = append(engines, eng)
	}
	return engines
}

func (s *sessionService) Start(ctx context.Context, userID string, cfg models.SessionConfig) (*models.SessionSnapshot, error) {
	if err := s.validator.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrInvalidConfig, err)
	}

	eng := s.engineFor(userID)
	if err := eng.Start(ctx, cfg); err != nil {
		return nil, err
	}

	snap := eng.Snapshot()
	s.publish(ctx, events.NewSessionEvent(events.EventSessionStarted, events.SessionStartedEvent{
		UserID:           userID,
		Category:         cfg.Category,
		QuestionCount:    snap.QuestionCount,
		TimeLimitMinutes: cfg.TimeLimitMinutes,
	}))
	return snap, nil
}

func (s *sessionService) RecordAnswer(ctx context.Context, userID string, questionID uint, optionIndex int) (*models.SessionSnapshot, error) {
	eng, err := s.lookup(userID)
	if err != nil {
		return nil, err
	}
	if err := eng.RecordAnswer(questionID, optionIndex); err != nil {
		return nil, err
	}
	return eng.Snapshot(), nil
}

func (s *sessionService) Navigate(ctx context.Context, userID string, delta int) (*models.SessionSnapshot, error) {
	eng, err := s.lookup(userID)
	if err != nil {
		return nil, err
	}
	if err := eng.Navigate(delta); err != nil {
		return nil, err
	}
	return eng.Snapshot(), nil
}

func (s *sessionService) Pause(ctx context.Context, userID string) (*models.SessionSnapshot, error) {
	eng, err := s.lookup(userID)
	if err != nil {
		return nil, err
	}
	if err := eng.Pause(); err != nil {
		return nil, err
	}
	return eng.Snapshot(), nil
}

func (s *sessionService) Resume(ctx context.Context, userID string) (*models.SessionSnapshot, error) {
	eng, err := s.lookup(userID)
	if err != nil {
		return nil, err
	}
	if err := eng.Resume(); err != nil {
		return nil, err
	}
	return eng.Snapshot(), nil
}

func (s *sessionService) Submit(ctx context.Context, userID string) (*SubmitResponse, error) {
	eng, err := s.lookup(userID)
	if err != nil {
		return nil, err
	}

	submitErr := eng.Submit(ctx)
	if submitErr != nil && !errors.Is(submitErr, engine.ErrResultPersist) {
		return nil, submitErr
	}

	result, err := eng.Result()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewSessionEvent(events.EventSessionSubmitted, events.SessionSubmittedEvent{
		UserID:     userID,
		Correct:    result.Correct,
		Total:      result.Total,
		Percentage: result.Percentage,
		Passed:     result.Passed,
		EndReason:  result.EndReason,
		DurationMs: result.DurationMs,
	}))

	resp := &SubmitResponse{Result: result}
	if submitErr != nil {
		resp.Warning = "result could not be saved to history"
	}
	return resp, nil
}

func (s *sessionService) Reset(ctx context.Context, userID string) error {
	eng, err := s.lookup(userID)
	if err != nil {
		return err
	}
	return eng.Reset()
}

func (s *sessionService) Snapshot(ctx context.Context, userID string) (*models.SessionSnapshot, error) {
	eng, err := s.lookup(userID)
	if err != nil {
		return nil, err
	}
	return eng.Snapshot(), nil
}

func (s *sessionService) Review(ctx context.Context, userID string) ([]models.ReviewEntry, error) {
	eng, err := s.lookup(userID)
	if err != nil {
		return nil, err
	}
	return eng.Review()
}

func (s *sessionService) Results(ctx context.Context, userID string) ([]*models.Result, error) {
	results, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

// Run ticks every live engine once per second. Engines outside the Running
// state ignore ticks, so the loop does not need to track session state.
func (s *sessionService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	s.logger.Info("session ticker started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session ticker stopped")
			return
		case <-ticker.C:
			for _, eng := range s.activeEngines() {
				before := eng.State()
				if err := eng.Tick(ctx); err != nil && !errors.Is(err, engine.ErrResultPersist) {
					s.logger.Error("tick failed", "owner", eng.Owner(), "error", err)
				}
				// An expiry inside the tick is the one submission the caller
				// never sees, so the event is published here.
				if before == models.SessionRunning && eng.State() == models.SessionCompleted {
					if result, err := eng.Result(); err == nil {
						s.publish(ctx, events.NewSessionEvent(events.EventSessionSubmitted, events.SessionSubmittedEvent{
							UserID:     eng.Owner(),
							Correct:    result.Correct,
							Total:      result.Total,
							Percentage: result.Percentage,
							Passed:     result.Passed,
							EndReason:  result.EndReason,
							DurationMs: result.DurationMs,
						}))
					}
				}
			}
		}
	}
}

func (s *sessionService) lookup(userID string) (*engine.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	eng, ok := s.engines[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return eng, nil
}

func (s *sessionService) publish(ctx context.Context, event *events.SessionEvent) {
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Warn("session event publish failed", "event_type", event.Type, "error", err)
	}
}
