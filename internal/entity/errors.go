package entity

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	// Assessment flow errors
	ErrLoadFailure         = errors.New("failed to load questions")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrSubmissionFailure   = errors.New("failed to submit answers")
	ErrResultShapeMismatch = errors.New("profile result has unexpected shape")
	ErrCatalogMiss         = errors.New("no answer options for question")

	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionClosed    = errors.New("session is closed")
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidCategory  = errors.New("invalid answer category")
	ErrInvalidIndex     = errors.New("question index out of range")
	ErrIncomplete       = errors.New("assessment is not complete")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrNoQuestions      = errors.New("no questions loaded")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// RemoteError is a failure reported by a remote service. Message is the
// server-provided, user-facing text and may be empty.
type RemoteError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote error %d: %v", e.StatusCode, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is makes 401 and 403 responses match ErrUnauthenticated
func (e *RemoteError) Is(target error) bool {
	return target == ErrUnauthenticated &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// RemoteMessage returns the server-provided message carried by err, if any
func RemoteMessage(err error) string {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Message
	}
	return ""
}
