package handlers

import (
	"context"
	"fmt"

	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/telegram/keyboard"
	"github.com/futig/behavior-profile/internal/telegram/render"
	"github.com/futig/behavior-profile/internal/telegram/state"
	"github.com/futig/behavior-profile/internal/usecase/questionnaire"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CallbackHandler handles all callback button clicks
type CallbackHandler struct {
	flow
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(deps Deps) *CallbackHandler {
	return &CallbackHandler{flow: newFlow(HandlerStateCallback, deps)}
}

// Handle routes callback queries to appropriate actions
func (h *CallbackHandler) Handle(ctx context.Context, msg *Message) error {
	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Error(ctx, "failed to parse callback",
			zap.Error(err),
			zap.String("data", msg.CallbackData),
		)
		return fmt.Errorf("parse callback: %w", err)
	}

	ctxzap.Info(ctx, "handling callback",
		zap.String("action", data.Action),
		zap.String("value", data.Value),
		zap.Int64("user_id", msg.UserID),
	)

	switch data.Action {
	case keyboard.ActionCommand:
		return h.handleCommand(ctx, msg, data.Value)
	case keyboard.ActionOption:
		return h.handleOption(ctx, msg, data.Value)
	case keyboard.ActionNavigate:
		return h.handleNavigate(ctx, msg, data.Value)
	case keyboard.ActionTab:
		return h.handleTab(ctx, msg, data.Value)
	case keyboard.ActionDownload:
		return h.handleDownload(ctx, msg, data.Value)
	case keyboard.ActionConfirm:
		return h.handleConfirmation(ctx, msg, data.Value)
	default:
		ctxzap.Warn(ctx, "unknown callback action",
			zap.String("action", data.Action),
		)
		return fmt.Errorf("unknown action: %s", data.Action)
	}
}

func (h *CallbackHandler) handleCommand(ctx context.Context, msg *Message, value string) error {
	switch value {
	case keyboard.CommandStart:
		if err := h.startAssessment(ctx, msg); err != nil {
			h.HandleError(ctx, msg.ChatID, err)
		}
		return nil
	case keyboard.CommandReload:
		return h.withSession(ctx, msg, func(st *state.UserState) (*questionnaire.SessionView, error) {
			return h.usecase.ReloadQuestions(ctx, st.SessionID)
		})
	case keyboard.CommandSubmit:
		st, err := h.activeSession(ctx, msg)
		if err != nil || st == nil {
			return err
		}
		if err := h.submit(ctx, msg, st); err != nil {
			h.HandleError(ctx, msg.ChatID, err)
		}
		return nil
	case keyboard.CommandResult:
		return h.showResult(ctx, msg, 0)
	default:
		return fmt.Errorf("unknown action value: %s", value)
	}
}

// handleOption records the answer; the session advances on its own
func (h *CallbackHandler) handleOption(ctx context.Context, msg *Message, value string) error {
	questionID, category, err := keyboard.ParseOption(value)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	return h.withSession(ctx, msg, func(st *state.UserState) (*questionnaire.SessionView, error) {
		return h.usecase.SelectAnswer(ctx, st.SessionID, questionID, category)
	})
}

func (h *CallbackHandler) handleNavigate(ctx context.Context, msg *Message, value string) error {
	var move func(context.Context, string) (*questionnaire.SessionView, error)
	switch value {
	case keyboard.NavPrev:
		move = h.usecase.Prev
	case keyboard.NavNext:
		move = h.usecase.Next
	default:
		return fmt.Errorf("unknown navigation: %s", value)
	}

	return h.withSession(ctx, msg, func(st *state.UserState) (*questionnaire.SessionView, error) {
		return move(ctx, st.SessionID)
	})
}

// handleTab switches the recommendation tab of the result message
func (h *CallbackHandler) handleTab(ctx context.Context, msg *Message, tab string) error {
	st, err := h.stateManager.Get(ctx, msg.UserID, msg.ChatID)
	if err != nil {
		return fmt.Errorf("get user state: %w", err)
	}

	st.ResultTab = tab
	if err := h.stateManager.Save(ctx, st); err != nil {
		return fmt.Errorf("save user state: %w", err)
	}

	return h.showResult(ctx, msg, msg.MessageID)
}

// handleDownload sends the profile result as a report file
func (h *CallbackHandler) handleDownload(ctx context.Context, msg *Message, value string) error {
	format := entity.ResultFormat(value)

	upload := NewTypingNotifier(h.bot, msg.ChatID, tgbotapi.ChatUploadDocument, h.logger)
	upload.Start(ctx)
	file, err := h.usecase.ExportResult(ctx, h.tokens.ForUser(msg.UserID), format)
	upload.Stop()

	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	if err := h.messageSender.SendDocument(msg.ChatID, file.Filename, file.Data); err != nil {
		ctxzap.Error(ctx, "failed to send report", zap.Error(err), zap.String("format", value))
		h.sendMessage(msg.ChatID, render.MsgDownloadFailed, nil)
		return nil
	}

	ctxzap.Info(ctx, "profile report sent",
		zap.String("format", value),
		zap.Int("size_bytes", len(file.Data)),
	)
	return nil
}

func (h *CallbackHandler) handleConfirmation(ctx context.Context, msg *Message, value string) error {
	st, err := h.stateManager.Get(ctx, msg.UserID, msg.ChatID)
	if err != nil {
		return fmt.Errorf("get user state: %w", err)
	}

	if st.PendingConfirmation != pendingCancel {
		ctxzap.Debug(ctx, "stale confirmation ignored", zap.String("value", value))
		return nil
	}

	switch value {
	case keyboard.ConfirmCancel:
		return h.cancel(ctx, msg, st)
	case keyboard.ConfirmContinue:
		st.PendingConfirmation = ""
		if err := h.stateManager.Save(ctx, st); err != nil {
			return fmt.Errorf("save user state: %w", err)
		}
		h.sendMessage(msg.ChatID, render.MsgContinue, nil)
		return nil
	default:
		return fmt.Errorf("unknown confirmation: %s", value)
	}
}

// withSession runs op against the user's session and re-renders the question
func (h *CallbackHandler) withSession(
	ctx context.Context,
	msg *Message,
	op func(st *state.UserState) (*questionnaire.SessionView, error),
) error {
	st, err := h.activeSession(ctx, msg)
	if err != nil || st == nil {
		return err
	}

	view, err := op(st)
	if err != nil {
		h.HandleError(ctx, msg.ChatID, err)
		return nil
	}

	return h.showQuestion(ctx, st, view)
}
