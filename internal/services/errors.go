package services

import "errors"

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrNoActiveSession   = errors.New("no session for this user")
	ErrValidationFailed  = errors.New("validation failed")
	ErrNothingToExport   = errors.New("no questions to export")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// IsNotFound reports whether err represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuestionNotFound) || errors.Is(err, ErrNoActiveSession)
}
