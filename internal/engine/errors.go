package engine

import "errors"

var (
	// Configuration errors: raised synchronously from Start, the engine stays
	// in its previous state.
	ErrInvalidConfig        = errors.New("invalid session configuration")
	ErrNoQuestionsAvailable = errors.New("no questions available for the selected category")

	// State errors: the operation is rejected and the session is unchanged.
	ErrInvalidState     = errors.New("operation not allowed in current session state")
	ErrSessionPaused    = errors.New("session is paused")
	ErrAlreadySubmitted = errors.New("session already submitted")
	ErrNotCompleted     = errors.New("session is not completed")

	// Bounds errors: rejected without mutation.
	ErrOutOfRange = errors.New("index out of range")

	// ErrResultPersist signals that the result could not be written to the
	// results log. The Completed transition and the computed result still
	// hold; callers should treat this as a warning.
	ErrResultPersist = errors.New("failed to persist result")

	ErrTimerInvalidDuration = errors.New("timer duration must be positive")
)

// IsConfigError reports whether err is a session configuration failure.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrNoQuestionsAvailable)
}

// IsStateError reports whether err is a state-machine rejection.
func IsStateError(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrSessionPaused) ||
		errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrNotCompleted)
}
