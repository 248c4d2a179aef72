package keyboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/futig/behavior-profile/internal/entity"
)

// Callback actions
const (
	ActionCommand  = "action"  // start, submit, result, reload
	ActionOption   = "opt"     // <question id>:<category>
	ActionNavigate = "nav"     // prev, next
	ActionTab      = "tab"     // recommendation tab key
	ActionDownload = "dl"      // report format
	ActionConfirm  = "confirm" // cancel, continue
)

// Values of ActionCommand, ActionNavigate and ActionConfirm callbacks
const (
	CommandStart  = "start"
	CommandSubmit = "submit"
	CommandResult = "result"
	CommandReload = "reload"

	NavPrev = "prev"
	NavNext = "next"

	ConfirmCancel   = "cancel"
	ConfirmContinue = "continue"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return fmt.Sprintf("%s:%s", action, value)
}

// EncodeOption creates the callback of an answer option button
func EncodeOption(questionID int, value entity.Category) string {
	return EncodeCallback(ActionOption, fmt.Sprintf("%d:%s", questionID, value))
}

// ParseOption parses the value of an ActionOption callback
func ParseOption(value string) (int, entity.Category, error) {
	rawID, rawCategory, found := strings.Cut(value, ":")
	if !found {
		return 0, "", fmt.Errorf("%w: option callback %q", entity.ErrInvalidParameter, value)
	}

	questionID, err := strconv.Atoi(rawID)
	if err != nil || questionID <= 0 {
		return 0, "", fmt.Errorf("%w: question id %q", entity.ErrInvalidParameter, rawID)
	}

	category := entity.Category(rawCategory)
	if err := category.Validate(); err != nil {
		return 0, "", err
	}

	return questionID, category, nil
}
