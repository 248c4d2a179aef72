package validator

import (
	"testing"

	"github.com/futig/behavior-profile/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSelectAnswer(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     entity.SelectAnswerRequest
		wantErr error
	}{
		{name: "valid", req: entity.SelectAnswerRequest{QuestionID: 1, AnswerOption: "analista"}},
		{name: "missing question", req: entity.SelectAnswerRequest{AnswerOption: "analista"}, wantErr: entity.ErrMissingField},
		{name: "missing option", req: entity.SelectAnswerRequest{QuestionID: 2, AnswerOption: " "}, wantErr: entity.ErrMissingField},
		{name: "unknown option", req: entity.SelectAnswerRequest{QuestionID: 2, AnswerOption: "lider"}, wantErr: entity.ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSelectAnswer(&tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseIndex(t *testing.T) {
	v := NewValidator()

	index, err := v.ParseIndex("4")
	require.NoError(t, err)
	assert.Equal(t, 4, index)

	_, err = v.ParseIndex("-1")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	_, err = v.ParseIndex("abc")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestParseFormat(t *testing.T) {
	v := NewValidator()

	format, err := v.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, entity.FormatPDF, format)

	format, err = v.ParseFormat("DOCX")
	require.NoError(t, err)
	assert.Equal(t, entity.FormatDOCX, format)

	_, err = v.ParseFormat("xlsx")
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}
