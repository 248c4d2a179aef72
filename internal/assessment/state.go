package assessment

import (
	"math"

	"github.com/futig/behavior-profile/internal/entity"
)

// State is a read-only snapshot of a session. Derived values are computed
// from it on demand and never stored.
type State struct {
	Questions          []entity.Question
	CurrentIndex       int
	Answers            entity.AnswerMap
	IsLoadingQuestions bool
	LoadError          string
	IsSubmitting       bool
	SubmitError        string
	Submitted          bool
	Closed             bool
}

func (s State) Total() int {
	return len(s.Questions)
}

func (s State) AnsweredCount() int {
	return len(s.Answers)
}

func (s State) Progress() int {
	return Progress(len(s.Answers), len(s.Questions))
}

func (s State) IsComplete() bool {
	return isComplete(s.Questions, s.Answers)
}

// CurrentQuestion returns the displayed question, false when nothing is loaded
func (s State) CurrentQuestion() (entity.Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return entity.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

func (s State) CanGoPrev() bool {
	return len(s.Questions) > 0 && s.CurrentIndex > 0
}

func (s State) CanGoNext() bool {
	return s.CurrentIndex < len(s.Questions)-1
}

func (s State) IsLast() bool {
	return len(s.Questions) > 0 && s.CurrentIndex == len(s.Questions)-1
}

// Answer returns the selected category for a question
func (s State) Answer(questionID int) (entity.Category, bool) {
	value, ok := s.Answers[questionID]
	return value, ok
}

// Progress returns answered/total as a rounded percentage, 0 for an empty questionnaire
func Progress(answered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(answered) / float64(total) * 100))
}

// isComplete requires at least one question and an answer for each of them
func isComplete(questions []entity.Question, answers entity.AnswerMap) bool {
	if len(questions) == 0 {
		return false
	}
	for _, q := range questions {
		if _, ok := answers[q.ID]; !ok {
			return false
		}
	}
	return true
}
