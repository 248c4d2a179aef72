package handlers

import (
	"context"
	"errors"

	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityCritical
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError analyzes an error and returns a HandlerError with appropriate severity and messages
func classifyHandlerError(err error) *HandlerError {
	if err == nil {
		return &HandlerError{
			UserMessage: render.ErrGeneric,
			LogMessage:  "unknown error",
			Severity:    SeverityWarning,
		}
	}

	handlerErr := &HandlerError{
		Err:         err,
		UserMessage: render.ClassifyError(err),
		LogMessage:  "handler error",
		Severity:    SeverityError,
	}

	var remoteErr *entity.RemoteError
	switch {
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, entity.ErrSessionClosed):
		handlerErr.LogMessage = "session not found"
		handlerErr.Severity = SeverityWarning
	case errors.Is(err, entity.ErrQuestionNotFound), errors.Is(err, entity.ErrInvalidCategory),
		errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrInvalidFormat):
		handlerErr.LogMessage = "invalid input"
		handlerErr.Severity = SeverityWarning
	case errors.Is(err, entity.ErrUnauthenticated):
		handlerErr.LogMessage = "unauthenticated"
		handlerErr.Severity = SeverityWarning
	case errors.Is(err, entity.ErrIncomplete), errors.Is(err, entity.ErrSubmitInProgress),
		errors.Is(err, entity.ErrNoQuestions):
		handlerErr.LogMessage = "invalid session state"
		handlerErr.Severity = SeverityWarning
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		handlerErr.LogMessage = "operation timed out"
	case errors.Is(err, entity.ErrResultShapeMismatch):
		handlerErr.LogMessage = "invalid profile result"
		handlerErr.Severity = SeverityCritical
	case errors.As(err, &remoteErr):
		handlerErr.LogMessage = "scoring service error"
	}

	return handlerErr
}

// HandleError provides centralized error handling for all handlers
// It logs the error with appropriate severity and sends a user-friendly message
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)

	fields := []zap.Field{
		zap.Error(handlerErr.Err),
		zap.Int64("chat_id", chatID),
		zap.String("severity", handlerErr.Severity.String()),
	}
	switch handlerErr.Severity {
	case SeverityCritical, SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage, fields...)
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage, fields...)
	}

	h.sendMessage(chatID, handlerErr.UserMessage, nil)
}
