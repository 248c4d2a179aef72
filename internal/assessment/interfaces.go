package assessment

import (
	"context"

	"github.com/futig/behavior-profile/internal/entity"
)

type QuestionProvider interface {
	FetchQuestions(ctx context.Context) ([]entity.Question, error)
}

type Submitter interface {
	SubmitAnswers(ctx context.Context, token string, payload *entity.SubmissionPayload) error
}

// CredentialProvider returns the bearer token of the current user, if any
type CredentialProvider interface {
	Token(ctx context.Context) (string, bool)
}
