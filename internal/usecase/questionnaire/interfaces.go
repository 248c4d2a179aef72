package questionnaire

import (
	"context"

	"github.com/futig/behavior-profile/internal/entity"
)

// ScoringConnector is the remote scoring service
type ScoringConnector interface {
	FetchQuestions(ctx context.Context) ([]entity.Question, error)
	SubmitAnswers(ctx context.Context, token string, payload *entity.SubmissionPayload) error
	FetchResult(ctx context.Context, token string) (*entity.ProfileAnalysisResult, error)
}

// OptionCatalog resolves the answer options of a question
type OptionCatalog interface {
	Lookup(questionID int) ([]entity.AnswerOption, bool)
}
