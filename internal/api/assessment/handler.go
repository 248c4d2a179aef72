package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/pkg/logger"
	"github.com/futig/behavior-profile/internal/pkg/response"
	"github.com/futig/behavior-profile/internal/pkg/validator"
	"github.com/futig/behavior-profile/internal/usecase/questionnaire"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   AssessmentUsecase
	validator *validator.Validator
}

func NewHandler(usecase AssessmentUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// StartSession handles POST /assessment-session
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartSession")

	view, err := h.usecase.StartSession(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err, "")
		return
	}

	ctxzap.Info(ctx, "assessment session started",
		zap.String("session_id", view.ID),
		zap.Int("total_questions", view.State.Total()),
	)

	response.Created(w, h.toDTO(view))
}

// GetSession handles GET /assessment-session/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetSession")

	view, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err, "")
		return
	}

	response.Success(w, h.toDTO(view))
}

// ReloadQuestions handles POST /assessment-session/{id}/reload
func (h *Handler) ReloadQuestions(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "ReloadQuestions")

	view, err := h.usecase.ReloadQuestions(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err, "")
		return
	}

	response.Success(w, h.toDTO(view))
}

// SelectAnswer handles POST /assessment-session/{id}/answers
func (h *Handler) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "SelectAnswer")

	var req entity.SelectAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}

	if err := h.validator.ValidateSelectAnswer(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", "", err)
		return
	}

	view, err := h.usecase.SelectAnswer(ctx, sessionID, req.QuestionID, entity.Category(req.AnswerOption))
	if err != nil {
		h.handleUsecaseError(ctx, w, err, "")
		return
	}

	response.Success(w, h.toDTO(view))
}

// Next handles POST /assessment-session/{id}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Next")
	h.respondView(ctx, w)(h.usecase.Next(ctx, sessionID))
}

// Prev handles POST /assessment-session/{id}/prev
func (h *Handler) Prev(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Prev")
	h.respondView(ctx, w)(h.usecase.Prev(ctx, sessionID))
}

// GoTo handles POST /assessment-session/{id}/goto/{index}
func (h *Handler) GoTo(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GoTo")

	index, err := h.validator.ParseIndex(chi.URLParam(r, "index"))
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", "", err)
		return
	}

	h.respondView(ctx, w)(h.usecase.GoTo(ctx, sessionID, index))
}

// Submit handles POST /assessment-session/{id}/submit. The bearer token of the
// request authorizes the submission.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Submit")

	view, err := h.usecase.Submit(ctx, sessionID)
	if err != nil {
		message := ""
		if view != nil {
			message = view.State.SubmitError
		}
		h.handleUsecaseError(ctx, w, err, message)
		return
	}

	ctxzap.Info(ctx, "assessment submitted")
	response.Success(w, h.toDTO(view))
}

// CloseSession handles DELETE /assessment-session/{id}
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "CloseSession")

	if err := h.usecase.CloseSession(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err, "")
		return
	}

	ctxzap.Info(ctx, "assessment session closed")
	response.NoContent(w)
}

// GetResult handles GET /profile-result
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetResult")

	screen, err := h.usecase.GetResult(ctx, nil)
	if err != nil {
		message := ""
		if screen != nil {
			message = screen.Message()
		}
		h.handleUsecaseError(ctx, w, err, message)
		return
	}

	response.Success(w, screen.View())
}

// ExportResult handles GET /profile-result/export?format=
func (h *Handler) ExportResult(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportResult")

	format, err := h.validator.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format parameter", "", err)
		return
	}
	ctx = logger.AddFields(ctx, zap.String("format", string(format)))

	file, err := h.usecase.ExportResult(ctx, nil, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err, "")
		return
	}

	ctxzap.Info(ctx, "profile result exported", zap.Int("size_bytes", len(file.Data)))
	response.File(w, file.ContentType, file.Filename, file.Data)
}

func (h *Handler) sessionContext(r *http.Request, action string) (context.Context, string) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", action),
	)
	return ctx, sessionID
}

func (h *Handler) respondView(ctx context.Context, w http.ResponseWriter) func(*questionnaire.SessionView, error) {
	return func(view *questionnaire.SessionView, err error) {
		if err != nil {
			h.handleUsecaseError(ctx, w, err, "")
			return
		}
		response.Success(w, h.toDTO(view))
	}
}

func (h *Handler) toDTO(view *questionnaire.SessionView) *entity.SessionDTO {
	return toSessionDTO(view, h.usecase.Options)
}

func (h *Handler) respondError(
	ctx context.Context,
	w http.ResponseWriter,
	status int,
	code, message string,
	err error,
) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, code, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, code, zap.Error(err))
	}
	response.Error(w, status, code, message)
}

// handleUsecaseError maps domain errors to HTTP statuses. message is the
// user-facing text already derived by the use case, if any.
func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error, message string) {
	if message == "" {
		message = entity.RemoteMessage(err)
	}

	var remoteErr *entity.RemoteError
	switch {
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, entity.ErrQuestionNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", message, err)
	case errors.Is(err, entity.ErrInvalidCategory), errors.Is(err, entity.ErrInvalidIndex),
		errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", message, err)
	case errors.Is(err, entity.ErrUnauthenticated):
		h.respondError(ctx, w, http.StatusUnauthorized, "unauthenticated", message, err)
	case errors.Is(err, entity.ErrIncomplete), errors.Is(err, entity.ErrNoQuestions),
		errors.Is(err, entity.ErrSubmitInProgress), errors.Is(err, entity.ErrSessionClosed):
		h.respondError(ctx, w, http.StatusConflict, "invalid session state", message, err)
	case errors.Is(err, entity.ErrResultShapeMismatch):
		h.respondError(ctx, w, http.StatusBadGateway, "invalid profile result", message, err)
	case errors.As(err, &remoteErr) && remoteErr.StatusCode >= 400 && remoteErr.StatusCode < 500:
		h.respondError(ctx, w, remoteErr.StatusCode, "scoring service rejected the request", message, err)
	case errors.As(err, &remoteErr), errors.Is(err, entity.ErrSubmissionFailure):
		h.respondError(ctx, w, http.StatusBadGateway, "scoring service unavailable", message, err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", message, err)
	}
}
