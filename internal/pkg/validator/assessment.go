package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/futig/behavior-profile/internal/entity"
)

// Validator validates incoming assessment requests
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSelectAnswer validates SelectAnswerRequest
func (v *Validator) ValidateSelectAnswer(req *entity.SelectAnswerRequest) error {
	if req.QuestionID <= 0 {
		return fmt.Errorf("%w: question_id", entity.ErrMissingField)
	}

	if strings.TrimSpace(req.AnswerOption) == "" {
		return fmt.Errorf("%w: answer_option", entity.ErrMissingField)
	}

	return entity.Category(req.AnswerOption).Validate()
}

// ParseIndex parses a zero-based question index path parameter
func (v *Validator) ParseIndex(raw string) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: index %q", entity.ErrInvalidParameter, raw)
	}
	return index, nil
}

// ParseFormat parses a report export format, defaulting to PDF
func (v *Validator) ParseFormat(raw string) (entity.ResultFormat, error) {
	if raw == "" {
		return entity.FormatPDF, nil
	}

	format := entity.ResultFormat(strings.ToLower(raw))
	if !format.IsValid() {
		return "", fmt.Errorf("%w: %s", entity.ErrInvalidFormat, raw)
	}
	return format, nil
}
