package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/hr-training/quiz-service/internal/models"
)

// QuestionSource is the engine's read-only view of the question bank. The
// returned slice must be a stable snapshot for the duration of one Start call.
type QuestionSource interface {
	ListByCategory(ctx context.Context, filter models.CategoryFilter) ([]*models.Question, error)
}

// ResultsLog is the append-only history of past attempts. A failed append
// does not roll back a completed session.
type ResultsLog interface {
	Append(ctx context.Context, result *models.Result) error
}

// Engine runs one timed quiz session at a time for a single owner. All
// operations are serialized by a mutex so ticker-driven ticks and
// caller-driven actions can never interleave; in particular, auto-submit on
// expiry and a manual submit cannot both execute.
type Engine struct {
	mu sync.Mutex

	questions QuestionSource
	results   ResultsLog
	logger    *slog.Logger
	rng       *rand.Rand
	now       func() time.Time

	owner   string
	state   models.SessionState
	session *models.Session
	timer   *Timer
	result  *models.Result
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the engine's randomness source, for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock replaces the engine's time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(owner string, questions QuestionSource, results ResultsLog, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		questions: questions,
		results:   results,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		owner:     owner,
		state:     models.SessionIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Owner() string {
	return e.owner
}

// State returns the current session state.
func (e *Engine) State() models.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start begins a new session. Allowed from Idle or Completed; the previous
// session, if any, is discarded. Validation and question selection happen
// before any state changes, so a failed Start leaves the engine untouched.
func (e *Engine) Start(ctx context.Context, cfg models.SessionConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == models.SessionRunning || e.state == models.SessionPaused {
		return fmt.Errorf("%w: session in progress", ErrInvalidState)
	}

	if !cfg.Category.IsValid() {
		return fmt.Errorf("%w: unknown category filter %q", ErrInvalidConfig, cfg.Category)
	}
	if cfg.QuestionCount < 0 {
		return fmt.Errorf("%w: question count must not be negative", ErrInvalidConfig)
	}
	if cfg.TimeLimitMinutes <= 0 {
		return fmt.Errorf("%w: time limit must be positive", ErrInvalidConfig)
	}

	pool, err := e.questions.ListByCategory(ctx, cfg.Category)
	if err != nil {
		return fmt.Errorf("failed to load question pool: %w", err)
	}
	if len(pool) == 0 {
		return fmt.Errorf("%w: category %q", ErrNoQuestionsAvailable, cfg.Category)
	}

	count := cfg.QuestionCount
	if count == 0 || count > len(pool) {
		count = len(pool)
	}
	selected := Pick(e.rng, pool, count)

	timer, err := NewTimer(cfg.TimeLimitMinutes * 60)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	e.session = &models.Session{
		Questions:        selected,
		CurrentIndex:     0,
		Answers:          make(map[uint]int),
		RemainingSeconds: timer.Remaining(),
		StartedAt:        e.now(),
		State:            models.SessionRunning,
		Config:           cfg,
	}
	e.timer = timer
	e.result = nil
	e.state = models.SessionRunning

	e.logger.Info("session started",
		"owner", e.owner,
		"category", cfg.Category,
		"question_count", len(selected),
		"time_limit_minutes", cfg.TimeLimitMinutes)

	return nil
}

// RecordAnswer stores the chosen option for a question. Last write wins; no
// history of changes is kept. Only allowed while Running.
func (e *Engine) RecordAnswer(questionID uint, optionIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireRunning(); err != nil {
		return err
	}

	question := e.findQuestion(questionID)
	if question == nil {
		return fmt.Errorf("%w: question %d not in session", ErrOutOfRange, questionID)
	}
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		return fmt.Errorf("%w: option %d for question %d", ErrOutOfRange, optionIndex, questionID)
	}

	e.session.Answers[questionID] = optionIndex
	return nil
}

// Navigate moves the current index by delta (-1 or +1). Requests that would
// leave the question range are rejected without mutation; there is no
// wraparound. Answering the current question is not required to move on.
func (e *Engine) Navigate(delta int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireRunning(); err != nil {
		return err
	}
	if delta != -1 && delta != 1 {
		return fmt.Errorf("%w: navigation delta %d", ErrOutOfRange, delta)
	}

	next := e.session.CurrentIndex + delta
	if next < 0 || next >= len(e.session.Questions) {
		return fmt.Errorf("%w: index %d", ErrOutOfRange, next)
	}

	e.session.CurrentIndex = next
	return nil
}

// Pause suspends the countdown. Answering and navigation stay rejected until
// Resume.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != models.SessionRunning {
		return fmt.Errorf("%w: cannot pause in state %q", ErrInvalidState, e.state)
	}

	e.timer.Pause()
	e.state = models.SessionPaused
	e.session.State = models.SessionPaused
	e.session.Paused = true
	return nil
}

func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != models.SessionPaused {
		return fmt.Errorf("%w: cannot resume in state %q", ErrInvalidState, e.state)
	}

	e.timer.Resume()
	e.state = models.SessionRunning
	e.session.State = models.SessionRunning
	e.session.Paused = false
	return nil
}

// Tick delivers one countdown second. Outside Running it is a no-op, so a
// scheduler may keep ticking a paused or completed engine harmlessly. When
// the countdown reaches zero the session auto-submits; this is the only
// submission path not initiated by the caller.
func (e *Engine) Tick(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != models.SessionRunning {
		return nil
	}

	expired := e.timer.Tick()
	e.session.RemainingSeconds = e.timer.Remaining()

	if expired {
		e.logger.Info("session time expired, auto-submitting", "owner", e.owner)
		return e.submitLocked(ctx, models.EndReasonTimeout)
	}
	return nil
}

// Submit finishes the session, scores it and appends the result to the
// results log. Calling it again once Completed reports ErrAlreadySubmitted
// and has no further effect. A failed persist is returned wrapped in
// ErrResultPersist but the Completed transition and the result stand.
func (e *Engine) Submit(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case models.SessionRunning, models.SessionPaused:
		return e.submitLocked(ctx, models.EndReasonManual)
	case models.SessionCompleted:
		return ErrAlreadySubmitted
	default:
		return fmt.Errorf("%w: cannot submit in state %q", ErrInvalidState, e.state)
	}
}

func (e *Engine) submitLocked(ctx context.Context, reason models.EndReason) error {
	e.timer.Stop()
	e.session.RemainingSeconds = e.timer.Remaining()

	result := Score(e.session, reason, e.now())
	result.UserID = e.owner

	e.state = models.SessionCompleted
	e.session.State = models.SessionCompleted
	e.result = result

	e.logger.Info("session submitted",
		"owner", e.owner,
		"reason", reason,
		"correct", result.Correct,
		"total", result.Total,
		"percentage", result.Percentage,
		"passed", result.Passed)

	if err := e.results.Append(ctx, result); err != nil {
		e.logger.Warn("result could not be persisted", "owner", e.owner, "error", err)
		return fmt.Errorf("%w: %v", ErrResultPersist, err)
	}
	return nil
}

// Reset discards the completed session and returns the engine to Idle. It is
// only valid from Completed and never touches the results log.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != models.SessionCompleted {
		return fmt.Errorf("%w: cannot reset in state %q", ErrInvalidState, e.state)
	}

	e.session = nil
	e.timer = nil
	e.result = nil
	e.state = models.SessionIdle
	return nil
}

// Result returns the computed result of a completed session.
func (e *Engine) Result() (*models.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != models.SessionCompleted {
		return nil, ErrNotCompleted
	}
	return e.result, nil
}

// Review returns the per-question breakdown of a completed session, in the
// original session order.
func (e *Engine) Review() ([]models.ReviewEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != models.SessionCompleted {
		return nil, ErrNotCompleted
	}
	return BuildReview(e.session), nil
}

// Snapshot returns the state a rendering layer needs to redraw the session.
func (e *Engine) Snapshot() *models.SessionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return &models.SessionSnapshot{State: e.state}
	}

	snap := &models.SessionSnapshot{
		State:            e.state,
		CurrentIndex:     e.session.CurrentIndex,
		QuestionCount:    len(e.session.Questions),
		AnsweredCount:    len(e.session.Answers),
		RemainingSeconds: e.session.RemainingSeconds,
		Paused:           e.session.Paused,
	}
	if e.timer != nil {
		snap.TimeWarning = e.timer.Warning()
	}

	if e.state == models.SessionRunning || e.state == models.SessionPaused {
		q := e.session.Questions[e.session.CurrentIndex]
		sq := &models.SessionQuestion{
			ID:       q.ID,
			Category: q.Category,
			Text:     q.Text,
			Options:  []string(q.Options),
		}
		if chosen, ok := e.session.Answers[q.ID]; ok {
			chosen := chosen
			sq.ChosenIndex = &chosen
		}
		snap.Question = sq
	}
	return snap
}

func (e *Engine) requireRunning() error {
	switch e.state {
	case models.SessionRunning:
		return nil
	case models.SessionPaused:
		return ErrSessionPaused
	case models.SessionCompleted:
		return fmt.Errorf("%w: session already completed", ErrInvalidState)
	default:
		return fmt.Errorf("%w: no session in progress", ErrInvalidState)
	}
}

func (e *Engine) findQuestion(questionID uint) *models.Question {
	for _, q := range e.session.Questions {
		if q.ID == questionID {
			return q
		}
	}
	return nil
}
