package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/behavior-profile/internal/catalog"
	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/results"
)

func TestMockConnector_QuestionsMatchCatalog(t *testing.T) {
	mock := NewMockConnector(zap.NewNop())
	cat := catalog.Default()

	questions, err := mock.FetchQuestions(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, questions)
	for _, q := range questions {
		assert.True(t, cat.Has(q.ID), "question %d has no options", q.ID)
	}
}

func TestMockConnector_ResultRequiresSubmission(t *testing.T) {
	mock := NewMockConnector(zap.NewNop())

	_, err := mock.FetchResult(context.Background(), "someone")

	require.Error(t, err)
	assert.NotEmpty(t, entity.RemoteMessage(err))

	_, err = mock.FetchResult(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)
}

func TestMockConnector_ScoresSubmission(t *testing.T) {
	mock := NewMockConnector(zap.NewNop())
	payload := &entity.SubmissionPayload{Answers: []entity.SubmissionAnswer{
		{QuestionID: 1, AnswerOption: "analista"},
		{QuestionID: 2, AnswerOption: "analista"},
		{QuestionID: 3, AnswerOption: "analista"},
		{QuestionID: 4, AnswerOption: "executor"},
	}}

	require.NoError(t, mock.SubmitAnswers(context.Background(), "tok", payload))
	result, err := mock.FetchResult(context.Background(), "tok")
	require.NoError(t, err)

	assert.Equal(t, 75.0, result.Analysis.Percentages[entity.CategoryAnalista])
	assert.Equal(t, 25.0, result.Analysis.Percentages[entity.CategoryExecutor])
	assert.Equal(t, entity.ClassificationDominante, result.Analysis.Classification.Type)
	assert.Equal(t, entity.CategoryAnalista, result.Analysis.Classification.Primary)

	view, err := results.Build(result)
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryAnalista, view.Distribution[0].Category)
}

func TestBalanceScore(t *testing.T) {
	even := map[entity.Category]float64{
		entity.CategoryExecutor: 25, entity.CategoryPlanejador: 25,
		entity.CategoryAnalista: 25, entity.CategoryComunicador: 25,
	}
	assert.Equal(t, 100.0, balanceScore(even))

	single := map[entity.Category]float64{entity.CategoryExecutor: 100}
	assert.Equal(t, 0.0, balanceScore(single))
}
