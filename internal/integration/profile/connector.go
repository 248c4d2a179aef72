package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/behavior-profile/internal/config"
	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/integration/common"
	pkgRetry "github.com/futig/behavior-profile/internal/pkg/retry"
	pkghttp "github.com/futig/behavior-profile/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var errMissingData = errors.New("questions response has no data field")

// Connector talks to the scoring service: question list, answer
// submission and profile result.
type Connector struct {
	config    config.ScoringConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ScoringConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// FetchQuestions returns the ordered question list
func (c *Connector) FetchQuestions(ctx context.Context) ([]entity.Question, error) {
	ctxzap.Info(ctx, "fetching behavioral questions")

	var resp entity.QuestionsResponse
	err := pkgRetry.Do(ctx, &c.config.Retry, common.IsRetryable, func() error {
		resp = entity.QuestionsResponse{}
		return c.connector.DoRequest(ctx, http.MethodGet, c.config.QuestionsEndpoint, nil, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", common.ToRemoteError(err))
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("fetch questions: %w", &pkghttp.DecodeError{Err: errMissingData})
	}

	questions := make([]entity.Question, 0, len(resp.Data))
	for _, q := range resp.Data {
		questions = append(questions, entity.Question{ID: q.ID, Text: q.Text})
	}

	ctxzap.Info(ctx, "behavioral questions fetched", zap.Int("count", len(questions)))

	return questions, nil
}

// SubmitAnswers posts the answers on behalf of the user. Never retried:
// the scoring service does not deduplicate submissions.
func (c *Connector) SubmitAnswers(ctx context.Context, token string, payload *entity.SubmissionPayload) error {
	ctxzap.Info(ctx, "submitting behavioral answers", zap.Int("answer_count", len(payload.Answers)))

	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.SubmitEndpoint, payload, nil,
		pkghttp.WithBearerToken(token))
	if err != nil {
		return fmt.Errorf("submit answers: %w", common.ToRemoteError(err))
	}

	ctxzap.Info(ctx, "behavioral answers submitted")

	return nil
}

// FetchResult returns the analysed profile of the user
func (c *Connector) FetchResult(ctx context.Context, token string) (*entity.ProfileAnalysisResult, error) {
	ctxzap.Info(ctx, "fetching profile result")

	var resp entity.ProfileAnalysisResult
	err := pkgRetry.Do(ctx, &c.config.Retry, common.IsRetryable, func() error {
		resp = entity.ProfileAnalysisResult{}
		return c.connector.DoRequest(ctx, http.MethodGet, c.config.ResultEndpoint, nil, &resp,
			pkghttp.WithBearerToken(token))
	})
	var decodeErr *pkghttp.DecodeError
	if errors.As(err, &decodeErr) {
		return nil, fmt.Errorf("fetch result: %w: %w", entity.ErrResultShapeMismatch, err)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch result: %w", common.ToRemoteError(err))
	}

	ctxzap.Info(ctx, "profile result fetched")

	return &resp, nil
}
