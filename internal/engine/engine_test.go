package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hr-training/quiz-service/internal/models"
)

// MockQuestionSource is a mock implementation of QuestionSource.
type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) ListByCategory(ctx context.Context, filter models.CategoryFilter) ([]*models.Question, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Question), args.Error(1)
}

// recordingLog captures appended results and can be told to fail.
type recordingLog struct {
	appended  []*models.Result
	appendErr error
}

func (l *recordingLog) Append(ctx context.Context, result *models.Result) error {
	if l.appendErr != nil {
		return l.appendErr
	}
	l.appended = append(l.appended, result)
	return nil
}

func testPool(n int) []*models.Question {
	pool := make([]*models.Question, n)
	for i := range pool {
		pool[i] = testQuestion(uint(i+1), i%4)
	}
	return pool
}

func newTestEngine(pool []*models.Question, log *recordingLog) *Engine {
	source := &MockQuestionSource{}
	source.On("ListByCategory", mock.Anything, mock.Anything).Return(pool, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New("tester", source, log, logger,
		WithRand(rand.New(rand.NewSource(7))),
		WithClock(func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }))
}

func defaultConfig() models.SessionConfig {
	return models.SessionConfig{
		Category:         models.FilterAll,
		QuestionCount:    0,
		TimeLimitMinutes: 10,
	}
}

func startSession(t *testing.T, eng *Engine) {
	t.Helper()
	require.NoError(t, eng.Start(context.Background(), defaultConfig()))
}

func TestEngine_Start_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.SessionConfig
	}{
		{"unknown category", models.SessionConfig{Category: "trivia", QuestionCount: 5, TimeLimitMinutes: 10}},
		{"negative count", models.SessionConfig{Category: models.FilterAll, QuestionCount: -1, TimeLimitMinutes: 10}},
		{"zero time limit", models.SessionConfig{Category: models.FilterAll, QuestionCount: 5, TimeLimitMinutes: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine(testPool(5), &recordingLog{})
			err := eng.Start(context.Background(), tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Equal(t, models.SessionIdle, eng.State(), "failed start must not change state")
		})
	}
}

func TestEngine_Start_EmptyPool(t *testing.T) {
	eng := newTestEngine(nil, &recordingLog{})
	err := eng.Start(context.Background(), defaultConfig())
	assert.ErrorIs(t, err, ErrNoQuestionsAvailable)
	assert.Equal(t, models.SessionIdle, eng.State())
}

func TestEngine_Start_SelectsRequestedCount(t *testing.T) {
	eng := newTestEngine(testPool(5), &recordingLog{})

	cfg := defaultConfig()
	cfg.QuestionCount = 2
	require.NoError(t, eng.Start(context.Background(), cfg))

	snap := eng.Snapshot()
	assert.Equal(t, 2, snap.QuestionCount)
	assert.Equal(t, models.SessionRunning, snap.State)
}

func TestEngine_Start_CapsCountAtAvailable(t *testing.T) {
	eng := newTestEngine(testPool(3), &recordingLog{})

	cfg := defaultConfig()
	cfg.QuestionCount = 10
	require.NoError(t, eng.Start(context.Background(), cfg))
	assert.Equal(t, 3, eng.Snapshot().QuestionCount)
}

func TestEngine_Start_RejectedWhileInProgress(t *testing.T) {
	eng := newTestEngine(testPool(3), &recordingLog{})
	startSession(t, eng)

	err := eng.Start(context.Background(), defaultConfig())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEngine_Navigate_StaysInBounds(t *testing.T) {
	eng := newTestEngine(testPool(3), &recordingLog{})
	startSession(t, eng)

	// Back from the first question is rejected without mutation.
	assert.ErrorIs(t, eng.Navigate(-1), ErrOutOfRange)
	assert.Equal(t, 0, eng.Snapshot().CurrentIndex)

	require.NoError(t, eng.Navigate(1))
	require.NoError(t, eng.Navigate(1))
	assert.Equal(t, 2, eng.Snapshot().CurrentIndex)

	// Forward past the last question is rejected too.
	assert.ErrorIs(t, eng.Navigate(1), ErrOutOfRange)
	assert.Equal(t, 2, eng.Snapshot().CurrentIndex)

	// Arbitrary navigate sequences keep the index in range.
	for _, delta := range []int{-1, -1, -1, 1, 1, 1, 1, -1} {
		eng.Navigate(delta)
		idx := eng.Snapshot().CurrentIndex
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 3)
	}
}

func TestEngine_Navigate_RejectsLargeDelta(t *testing.T) {
	eng := newTestEngine(testPool(5), &recordingLog{})
	startSession(t, eng)

	assert.ErrorIs(t, eng.Navigate(2), ErrOutOfRange)
	assert.ErrorIs(t, eng.Navigate(0), ErrOutOfRange)
}

func TestEngine_RecordAnswer(t *testing.T) {
	eng := newTestEngine(testPool(3), &recordingLog{})
	startSession(t, eng)

	q := eng.Snapshot().Question
	require.NotNil(t, q)

	require.NoError(t, eng.RecordAnswer(q.ID, 1))

	// Last write wins.
	require.NoError(t, eng.RecordAnswer(q.ID, 2))
	chosen := eng.Snapshot().Question.ChosenIndex
	require.NotNil(t, chosen)
	assert.Equal(t, 2, *chosen)
	assert.Equal(t, 1, eng.Snapshot().AnsweredCount)

	// Bounds violations are rejected without mutation.
	assert.ErrorIs(t, eng.RecordAnswer(q.ID, 4), ErrOutOfRange)
	assert.ErrorIs(t, eng.RecordAnswer(q.ID, -1), ErrOutOfRange)
	assert.ErrorIs(t, eng.RecordAnswer(999, 0), ErrOutOfRange)
	assert.Equal(t, 2, *eng.Snapshot().Question.ChosenIndex)
}

func TestEngine_PausedRejectsAnswerAndNavigate(t *testing.T) {
	eng := newTestEngine(testPool(3), &recordingLog{})
	startSession(t, eng)
	q := eng.Snapshot().Question

	require.NoError(t, eng.Pause())
	assert.ErrorIs(t, eng.RecordAnswer(q.ID, 0), ErrSessionPaused)
	assert.ErrorIs(t, eng.Navigate(1), ErrSessionPaused)

	require.NoError(t, eng.Resume())
	assert.NoError(t, eng.RecordAnswer(q.ID, 0))
	assert.NoError(t, eng.Navigate(1))
}

func TestEngine_Tick_CountdownAndPause(t *testing.T) {
	eng := newTestEngine(testPool(3), &recordingLog{})
	startSession(t, eng)

	ctx := context.Background()
	total := eng.Snapshot().RemainingSeconds

	prev := total
	for i := 0; i < 5; i++ {
		require.NoError(t, eng.Tick(ctx))
		remaining := eng.Snapshot().RemainingSeconds
		assert.Equal(t, prev-1, remaining)
		prev = remaining
	}

	require.NoError(t, eng.Pause())
	for i := 0; i < 5; i++ {
		require.NoError(t, eng.Tick(ctx))
	}
	assert.Equal(t, prev, eng.Snapshot().RemainingSeconds, "remaining must hold while paused")
}

func TestEngine_AutoSubmitFiresExactlyOnce(t *testing.T) {
	log := &recordingLog{}
	eng := newTestEngine(testPool(3), log)

	cfg := defaultConfig()
	cfg.TimeLimitMinutes = 1
	require.NoError(t, eng.Start(context.Background(), cfg))

	ctx := context.Background()
	for i := 0; i < 61; i++ {
		eng.Tick(ctx)
	}

	assert.Equal(t, models.SessionCompleted, eng.State())
	require.Len(t, log.appended, 1, "exactly one result logged")
	assert.Equal(t, models.EndReasonTimeout, log.appended[0].EndReason)

	// Ticks keep arriving after completion; nothing further happens.
	for i := 0; i < 10; i++ {
		require.NoError(t, eng.Tick(ctx))
	}
	assert.Len(t, log.appended, 1)
	assert.Equal(t, 0, eng.Snapshot().RemainingSeconds)
}

func TestEngine_SubmitTwiceLogsOnce(t *testing.T) {
	log := &recordingLog{}
	eng := newTestEngine(testPool(3), log)
	startSession(t, eng)

	require.NoError(t, eng.Submit(context.Background()))
	assert.ErrorIs(t, eng.Submit(context.Background()), ErrAlreadySubmitted)

	assert.Len(t, log.appended, 1)
	assert.Equal(t, models.EndReasonManual, log.appended[0].EndReason)
}

func TestEngine_SubmitWhilePaused(t *testing.T) {
	log := &recordingLog{}
	eng := newTestEngine(testPool(3), log)
	startSession(t, eng)

	require.NoError(t, eng.Pause())
	require.NoError(t, eng.Submit(context.Background()))
	assert.Equal(t, models.SessionCompleted, eng.State())
	assert.Len(t, log.appended, 1)
}

func TestEngine_AnswerAfterCompletedDoesNotChangeResult(t *testing.T) {
	log := &recordingLog{}
	eng := newTestEngine(testPool(3), log)
	startSession(t, eng)

	q := eng.Snapshot().Question
	require.NoError(t, eng.RecordAnswer(q.ID, correctOption(t, eng, q.ID)))
	require.NoError(t, eng.Submit(context.Background()))

	before, err := eng.Result()
	require.NoError(t, err)

	assert.ErrorIs(t, eng.RecordAnswer(q.ID, 0), ErrInvalidState)
	assert.ErrorIs(t, eng.Navigate(1), ErrInvalidState)

	after, err := eng.Result()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// correctOption digs the correct index for a session question out of the
// engine's own session, so tests can answer correctly on purpose.
func correctOption(t *testing.T, eng *Engine, questionID uint) int {
	t.Helper()
	for _, q := range eng.session.Questions {
		if q.ID == questionID {
			return q.CorrectIndex
		}
	}
	t.Fatalf("question %d not in session", questionID)
	return 0
}

func TestEngine_PersistFailureStillCompletes(t *testing.T) {
	log := &recordingLog{appendErr: errors.New("disk full")}
	eng := newTestEngine(testPool(3), log)
	startSession(t, eng)

	err := eng.Submit(context.Background())
	assert.ErrorIs(t, err, ErrResultPersist)
	assert.Equal(t, models.SessionCompleted, eng.State(), "completed transition holds")

	result, err := eng.Result()
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
}

func TestEngine_ReviewPreservesSessionOrder(t *testing.T) {
	eng := newTestEngine(testPool(5), &recordingLog{})
	startSession(t, eng)

	// Capture the shuffled order, then navigate around before submitting.
	order := make([]uint, 0, 5)
	for _, q := range eng.session.Questions {
		order = append(order, q.ID)
	}
	require.NoError(t, eng.Navigate(1))
	require.NoError(t, eng.Navigate(1))
	require.NoError(t, eng.Navigate(-1))

	_, err := eng.Review()
	assert.ErrorIs(t, err, ErrNotCompleted, "review requires a completed session")

	require.NoError(t, eng.Submit(context.Background()))

	review, err := eng.Review()
	require.NoError(t, err)
	require.Len(t, review, 5)
	for i, entry := range review {
		assert.Equal(t, order[i], entry.QuestionID)
		assert.Equal(t, i, entry.QuestionIndex)
	}
}

func TestEngine_ReviewMarksCorrectness(t *testing.T) {
	eng := newTestEngine(testPool(2), &recordingLog{})
	startSession(t, eng)

	first := eng.session.Questions[0]
	require.NoError(t, eng.RecordAnswer(first.ID, first.CorrectIndex))
	require.NoError(t, eng.Submit(context.Background()))

	review, err := eng.Review()
	require.NoError(t, err)

	assert.True(t, review[0].IsCorrect)
	require.NotNil(t, review[0].ChosenIndex)
	assert.Equal(t, first.CorrectIndex, *review[0].ChosenIndex)

	assert.False(t, review[1].IsCorrect)
	assert.Nil(t, review[1].ChosenIndex, "unanswered questions carry no chosen index")
}

func TestEngine_Reset(t *testing.T) {
	log := &recordingLog{}
	eng := newTestEngine(testPool(3), log)
	startSession(t, eng)

	assert.ErrorIs(t, eng.Reset(), ErrInvalidState, "reset only valid from completed")

	require.NoError(t, eng.Submit(context.Background()))
	require.NoError(t, eng.Reset())
	assert.Equal(t, models.SessionIdle, eng.State())
	assert.Len(t, log.appended, 1, "reset never touches the results log")

	// A fresh session can start after reset.
	startSession(t, eng)
	assert.Equal(t, models.SessionRunning, eng.State())
}

func TestEngine_StartAfterCompletedDiscardsOldSession(t *testing.T) {
	eng := newTestEngine(testPool(3), &recordingLog{})
	startSession(t, eng)
	q := eng.Snapshot().Question
	require.NoError(t, eng.RecordAnswer(q.ID, 0))
	require.NoError(t, eng.Submit(context.Background()))

	startSession(t, eng)
	assert.Equal(t, 0, eng.Snapshot().AnsweredCount)
	assert.Equal(t, 0, eng.Snapshot().CurrentIndex)
}
