package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/behavior-profile/internal/auth"
	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/results"
	"github.com/futig/behavior-profile/internal/telegram/keyboard"
	"github.com/futig/behavior-profile/internal/telegram/render"
	"github.com/futig/behavior-profile/internal/telegram/state"
	"github.com/futig/behavior-profile/internal/usecase/questionnaire"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const pendingCancel = "cancel"

// Deps are the dependencies shared by the command and callback handlers
type Deps struct {
	Bot          BotAPI
	StateManager *state.Manager
	Usecase      QuestionnaireUsecase
	Tokens       *auth.TokenStore
	Keyboard     *keyboard.Builder
	Logger       *zap.Logger
}

// flow drives one user's assessment in the chat
type flow struct {
	BaseHandler
	bot          BotAPI
	stateManager *state.Manager
	usecase      QuestionnaireUsecase
	tokens       *auth.TokenStore
	keyboard     *keyboard.Builder
	logger       *zap.Logger
}

func newFlow(stateName string, deps Deps) flow {
	kb := deps.Keyboard
	if kb == nil {
		kb = keyboard.NewBuilder()
	}
	return flow{
		BaseHandler: BaseHandler{
			stateName:     stateName,
			messageSender: NewMessageSender(deps.Bot, deps.Logger),
		},
		bot:          deps.Bot,
		stateManager: deps.StateManager,
		usecase:      deps.Usecase,
		tokens:       deps.Tokens,
		keyboard:     kb,
		logger:       deps.Logger,
	}
}

// startAssessment replaces any running session of the user with a new one
// and shows its first question
func (f *flow) startAssessment(ctx context.Context, msg *Message) error {
	st, err := f.stateManager.Get(ctx, msg.UserID, msg.ChatID)
	if err != nil {
		return fmt.Errorf("get user state: %w", err)
	}
	if st.SessionID != "" {
		f.closeSession(ctx, st.SessionID)
	}

	view, err := f.usecase.StartSession(ctx,
		questionnaire.WithCredentials(f.tokens.ForUser(msg.UserID)),
		questionnaire.WithOnAdvance(f.onAdvance(msg.UserID, msg.ChatID)),
	)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	ctxzap.Info(ctx, "assessment started from telegram",
		zap.String("session_id", view.ID),
		zap.Int64("user_id", msg.UserID),
		zap.Int("total_questions", view.State.Total()),
	)

	st, err = f.stateManager.BindSession(ctx, msg.UserID, msg.ChatID, view.ID)
	if err != nil {
		return fmt.Errorf("bind session: %w", err)
	}

	return f.showQuestion(ctx, st, view)
}

// activeSession returns the user's state, or nil after telling the user there
// is no assessment in progress
func (f *flow) activeSession(ctx context.Context, msg *Message) (*state.UserState, error) {
	st, err := f.stateManager.Get(ctx, msg.UserID, msg.ChatID)
	if err != nil {
		return nil, fmt.Errorf("get user state: %w", err)
	}
	if st.SessionID == "" {
		f.sendMessage(msg.ChatID, render.MsgNoSession, f.keyboard.StartKeyboard())
		return nil, nil
	}
	return st, nil
}

// showQuestion renders the session into the user's question message, editing
// it in place when possible
func (f *flow) showQuestion(ctx context.Context, st *state.UserState, view *questionnaire.SessionView) error {
	text, markup := f.questionScreen(view)

	if st.LastMessageID != 0 {
		if err := f.messageSender.Edit(st.ChatID, st.LastMessageID, text, &markup); err == nil {
			return nil
		}
	}

	id, err := f.messageSender.Send(st.ChatID, text, markup)
	if err != nil {
		return fmt.Errorf("send question: %w", err)
	}

	st.LastMessageID = id
	if err := f.stateManager.Save(ctx, st); err != nil {
		return fmt.Errorf("save user state: %w", err)
	}
	return nil
}

func (f *flow) questionScreen(view *questionnaire.SessionView) (string, tgbotapi.InlineKeyboardMarkup) {
	s := view.State

	switch {
	case s.IsLoadingQuestions:
		return render.MsgLoading, tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	case s.LoadError != "":
		return "❌ " + s.LoadError, f.keyboard.ReloadKeyboard()
	}

	q, ok := s.CurrentQuestion()
	if !ok {
		return render.Question(s, false), f.keyboard.ReloadKeyboard()
	}

	options, available := f.usecase.Options(q.ID)
	selected, _ := s.Answer(q.ID)

	markup := f.keyboard.QuestionKeyboard(keyboard.QuestionOptions{
		QuestionID: q.ID,
		Options:    options,
		Selected:   selected,
		CanGoPrev:  s.CanGoPrev(),
		CanGoNext:  s.CanGoNext(),
		IsComplete: s.IsComplete(),
	})
	return render.Question(s, available), markup
}

// onAdvance edits the question message after an automatic advance
func (f *flow) onAdvance(userID, chatID int64) func(questionnaire.SessionView) {
	return func(view questionnaire.SessionView) {
		ctx := ctxzap.ToContext(context.Background(), f.logger.With(
			zap.Int64("user_id", userID),
			zap.String("session_id", view.ID),
		))

		st, err := f.stateManager.Get(ctx, userID, chatID)
		if err != nil {
			ctxzap.Error(ctx, "failed to get user state on advance", zap.Error(err))
			return
		}
		if st.SessionID != view.ID {
			return
		}

		if err := f.showQuestion(ctx, st, &view); err != nil {
			ctxzap.Error(ctx, "failed to show question on advance", zap.Error(err))
		}
	}
}

// submit sends the answers. Failures keep the session and offer a retry.
func (f *flow) submit(ctx context.Context, msg *Message, st *state.UserState) error {
	typing := NewTypingNotifier(f.bot, msg.ChatID, tgbotapi.ChatTyping, f.logger)
	typing.Start(ctx)
	view, err := f.usecase.Submit(ctx, st.SessionID)
	typing.Stop()

	if err != nil {
		if view == nil || view.State.SubmitError == "" {
			return err
		}

		ctxzap.Warn(ctx, "telegram submission failed", zap.Error(err))
		text := "❌ " + view.State.SubmitError
		if errors.Is(err, entity.ErrUnauthenticated) {
			text += "\n\n" + render.MsgLoginUsage
		}
		f.sendMessage(msg.ChatID, text, f.keyboard.SubmitRetryKeyboard())
		return nil
	}

	if _, err := sendCriticalMessage(ctx, f.messageSender, msg.ChatID, render.MsgSubmitted, nil, f.logger); err != nil {
		return fmt.Errorf("send submission confirmation: %w", err)
	}

	f.closeSession(ctx, st.SessionID)
	st.SessionID = ""
	st.LastMessageID = 0
	st.PendingConfirmation = ""
	if err := f.stateManager.Save(ctx, st); err != nil {
		return fmt.Errorf("save user state: %w", err)
	}

	return f.showResult(ctx, msg, 0)
}

// showResult loads the user's profile result. With editMessageID set the
// result message is edited in place, otherwise a new one is sent.
func (f *flow) showResult(ctx context.Context, msg *Message, editMessageID int) error {
	st, err := f.stateManager.Get(ctx, msg.UserID, msg.ChatID)
	if err != nil {
		return fmt.Errorf("get user state: %w", err)
	}

	typing := NewTypingNotifier(f.bot, msg.ChatID, tgbotapi.ChatTyping, f.logger)
	typing.Start(ctx)
	screen, err := f.usecase.GetResult(ctx, f.tokens.ForUser(msg.UserID))
	typing.Stop()

	if err != nil {
		text := render.ClassifyError(err)
		if screen != nil && screen.Message() != "" {
			text = "❌ " + screen.Message()
		}
		if errors.Is(err, entity.ErrUnauthenticated) {
			text += "\n\n" + render.MsgLoginUsage
		}
		ctxzap.Warn(ctx, "profile result unavailable", zap.Error(err))
		f.sendMessage(msg.ChatID, text, f.keyboard.ResultRetryKeyboard())
		return nil
	}

	view := screen.View()
	tab := st.ResultTab
	if _, ok := view.Tab(tab); !ok {
		tab = results.TabStrengths
	}

	text := render.Result(view, tab)
	markup := f.keyboard.ResultKeyboard(view.Recommendations, tab)

	if editMessageID != 0 {
		if err := f.messageSender.Edit(msg.ChatID, editMessageID, text, &markup); err == nil {
			return nil
		}
	}

	if _, err := f.messageSender.Send(msg.ChatID, text, markup); err != nil {
		return fmt.Errorf("send result: %w", err)
	}
	return nil
}

// requestCancel asks for confirmation before dropping the running assessment
func (f *flow) requestCancel(ctx context.Context, msg *Message) error {
	st, err := f.activeSession(ctx, msg)
	if err != nil || st == nil {
		return err
	}

	if st.PendingConfirmation == pendingCancel {
		return f.cancel(ctx, msg, st)
	}

	st.PendingConfirmation = pendingCancel
	if err := f.stateManager.Save(ctx, st); err != nil {
		return fmt.Errorf("save user state: %w", err)
	}

	f.sendMessage(msg.ChatID, render.MsgConfirmCancel, f.keyboard.ConfirmCancelKeyboard())
	return nil
}

func (f *flow) cancel(ctx context.Context, msg *Message, st *state.UserState) error {
	f.closeSession(ctx, st.SessionID)

	if err := f.stateManager.Delete(ctx, msg.UserID); err != nil {
		return fmt.Errorf("delete user state: %w", err)
	}

	ctxzap.Info(ctx, "assessment cancelled from telegram",
		zap.String("session_id", st.SessionID),
		zap.Int64("user_id", msg.UserID),
	)

	f.sendMessage(msg.ChatID, render.MsgSessionClosed, nil)
	return nil
}

func (f *flow) closeSession(ctx context.Context, sessionID string) {
	if err := f.usecase.CloseSession(ctx, sessionID); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
		ctxzap.Warn(ctx, "failed to close session",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
	}
}
