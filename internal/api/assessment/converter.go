package assessment

import (
	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/usecase/questionnaire"
)

type optionLookup func(questionID int) ([]entity.AnswerOption, bool)

// toSessionDTO projects a session view, resolving options of the current question
func toSessionDTO(view *questionnaire.SessionView, lookup optionLookup) *entity.SessionDTO {
	state := view.State

	dto := &entity.SessionDTO{
		ID:                 view.ID,
		TotalQuestions:     state.Total(),
		CurrentIndex:       state.CurrentIndex,
		AnsweredCount:      state.AnsweredCount(),
		Progress:           state.Progress(),
		CanGoPrev:          state.CanGoPrev(),
		CanGoNext:          state.CanGoNext(),
		IsComplete:         state.IsComplete(),
		IsLoadingQuestions: state.IsLoadingQuestions,
		IsSubmitting:       state.IsSubmitting,
		Submitted:          state.Submitted,
		LoadError:          optionalString(state.LoadError),
		SubmitError:        optionalString(state.SubmitError),
		CreatedAt:          view.CreatedAt,
	}

	if q, ok := state.CurrentQuestion(); ok {
		options, found := lookup(q.ID)
		question := &entity.QuestionDTO{
			ID:               q.ID,
			Number:           state.CurrentIndex + 1,
			Text:             q.Text,
			Options:          options,
			OptionsAvailable: found,
		}
		if selected, answered := state.Answer(q.ID); answered {
			question.SelectedOption = &selected
		}
		dto.CurrentQuestion = question
	}

	return dto
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
