package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrCourseNotFound is returned by the catalog for unknown course IDs.
	ErrCourseNotFound = errors.New("course not found")
	// ErrUserNotFound is returned by the user directory for unknown user IDs.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateResult is returned when a result ID is already stored.
	ErrDuplicateResult = errors.New("result already exists")
	// ErrDeadlineExceeded rejects attempts submitted after the quiz time limit.
	ErrDeadlineExceeded = errors.New("quiz time limit exceeded")
	// ErrInvalidQuiz wraps quiz definition validation failures.
	ErrInvalidQuiz = errors.New("invalid quiz")
)
