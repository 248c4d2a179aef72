package handlers

import (
	"context"

	"github.com/futig/behavior-profile/internal/assessment"
	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/results"
	"github.com/futig/behavior-profile/internal/usecase/questionnaire"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of the Telegram client used by handlers
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// QuestionnaireUsecase defines the assessment operations used by the bot
type QuestionnaireUsecase interface {
	StartSession(ctx context.Context, opts ...questionnaire.StartOption) (*questionnaire.SessionView, error)
	ReloadQuestions(ctx context.Context, sessionID string) (*questionnaire.SessionView, error)
	GetSession(ctx context.Context, sessionID string) (*questionnaire.SessionView, error)
	SelectAnswer(ctx context.Context, sessionID string, questionID int, value entity.Category) (*questionnaire.SessionView, error)
	Next(ctx context.Context, sessionID string) (*questionnaire.SessionView, error)
	Prev(ctx context.Context, sessionID string) (*questionnaire.SessionView, error)
	Submit(ctx context.Context, sessionID string) (*questionnaire.SessionView, error)
	CloseSession(ctx context.Context, sessionID string) error
	Options(questionID int) ([]entity.AnswerOption, bool)
	GetResult(ctx context.Context, credentials assessment.CredentialProvider) (*results.Screen, error)
	ExportResult(
		ctx context.Context,
		credentials assessment.CredentialProvider,
		format entity.ResultFormat,
	) (*questionnaire.ExportedFile, error)
}
