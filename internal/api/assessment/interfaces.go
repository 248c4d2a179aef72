package assessment

import (
	"context"

	core "github.com/futig/behavior-profile/internal/assessment"
	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/results"
	"github.com/futig/behavior-profile/internal/usecase/questionnaire"
)

type AssessmentUsecase interface {
	StartSession(ctx context.Context, opts ...questionnaire.StartOption) (*questionnaire.SessionView, error)
	ReloadQuestions(ctx context.Context, sessionID string) (*questionnaire.SessionView, error)
	GetSession(ctx context.Context, sessionID string) (*questionnaire.SessionView, error)
	SelectAnswer(ctx context.Context, sessionID string, questionID int, value entity.Category) (*questionnaire.SessionView, error)
	Next(ctx context.Context, sessionID string) (*questionnaire.SessionView, error)
	Prev(ctx context.Context, sessionID string) (*questionnaire.SessionView, error)
	GoTo(ctx context.Context, sessionID string, index int) (*questionnaire.SessionView, error)
	Submit(ctx context.Context, sessionID string) (*questionnaire.SessionView, error)
	CloseSession(ctx context.Context, sessionID string) error
	Options(questionID int) ([]entity.AnswerOption, bool)
	GetResult(ctx context.Context, credentials core.CredentialProvider) (*results.Screen, error)
	ExportResult(ctx context.Context, credentials core.CredentialProvider, format entity.ResultFormat) (*questionnaire.ExportedFile, error)
}
