package entity

import "time"

// ProviderQuestion is the question provider wire format
type ProviderQuestion struct {
	ID   int    `json:"id"`
	Text string `json:"text_questions"`
}

// QuestionsResponse is the question provider envelope
type QuestionsResponse struct {
	Data []ProviderQuestion `json:"data"`
}

type SelectAnswerRequest struct {
	QuestionID   int    `json:"question_id"`
	AnswerOption string `json:"answer_option"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type QuestionDTO struct {
	ID               int            `json:"id"`
	Number           int            `json:"number"`
	Text             string         `json:"text"`
	Options          []AnswerOption `json:"options"`
	OptionsAvailable bool           `json:"options_available"`
	SelectedOption   *Category      `json:"selected_option,omitempty"`
}

// SessionDTO is the host-facing projection of an assessment session
type SessionDTO struct {
	ID                 string       `json:"session_id"`
	TotalQuestions     int          `json:"total_questions"`
	CurrentIndex       int          `json:"current_index"`
	CurrentQuestion    *QuestionDTO `json:"current_question,omitempty"`
	AnsweredCount      int          `json:"answered_count"`
	Progress           int          `json:"progress"`
	CanGoPrev          bool         `json:"can_go_prev"`
	CanGoNext          bool         `json:"can_go_next"`
	IsComplete         bool         `json:"is_complete"`
	IsLoadingQuestions bool         `json:"is_loading_questions"`
	LoadError          *string      `json:"load_error,omitempty"`
	IsSubmitting       bool         `json:"is_submitting"`
	SubmitError        *string      `json:"submit_error,omitempty"`
	Submitted          bool         `json:"submitted"`
	CreatedAt          time.Time    `json:"created_at"`
}
