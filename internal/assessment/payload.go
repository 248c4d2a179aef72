package assessment

import (
	"sort"

	"github.com/futig/behavior-profile/internal/entity"
)

// BuildPayload converts the answer map into the scoring service wire format.
// Entries are ordered by question id; values pass through unchanged.
func BuildPayload(answers entity.AnswerMap) *entity.SubmissionPayload {
	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	payload := &entity.SubmissionPayload{
		Answers: make([]entity.SubmissionAnswer, 0, len(ids)),
	}
	for _, id := range ids {
		payload.Answers = append(payload.Answers, entity.SubmissionAnswer{
			QuestionID:   id,
			AnswerOption: string(answers[id]),
		})
	}

	return payload
}
