package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/behavior-profile/internal/entity"
)

func TestBuildPayload(t *testing.T) {
	answers := entity.AnswerMap{
		3: entity.CategoryAnalista,
		1: entity.CategoryExecutor,
		2: entity.CategoryComunicador,
	}

	payload := BuildPayload(answers)

	require.Len(t, payload.Answers, 3)
	assert.Equal(t, []entity.SubmissionAnswer{
		{QuestionID: 1, AnswerOption: "executor"},
		{QuestionID: 2, AnswerOption: "comunicador"},
		{QuestionID: 3, AnswerOption: "analista"},
	}, payload.Answers)
}

func TestBuildPayload_Empty(t *testing.T) {
	payload := BuildPayload(nil)

	require.NotNil(t, payload.Answers)
	assert.Empty(t, payload.Answers)
}

func TestBuildPayload_UniqueIDs(t *testing.T) {
	answers := entity.AnswerMap{}
	categories := entity.Categories()
	for id := 1; id <= 40; id++ {
		answers[id] = categories[id%len(categories)]
	}

	payload := BuildPayload(answers)

	assert.Len(t, payload.Answers, len(answers))
	seen := map[int]bool{}
	for _, a := range payload.Answers {
		assert.False(t, seen[a.QuestionID], "duplicate id %d", a.QuestionID)
		seen[a.QuestionID] = true
		assert.Equal(t, string(answers[a.QuestionID]), a.AnswerOption)
	}
}
