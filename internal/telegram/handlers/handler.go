package handlers

import (
	"context"
)

// Handler state constants
const (
	HandlerStateCallback = "CALLBACK"
	HandlerStateCommand  = "COMMAND"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	Args         string
	CallbackData string
	CallbackID   string
}

// Handler defines the interface for state-specific handlers
type Handler interface {
	// Handle processes a message for this state
	Handle(ctx context.Context, msg *Message) error

	// GetState returns the state this handler manages
	GetState() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	stateName     string
	messageSender *MessageSender
}

// GetState implements Handler
func (h *BaseHandler) GetState() string {
	return h.stateName
}

// sendMessage is a convenience wrapper for messageSender.Send
func (h *BaseHandler) sendMessage(chatID int64, text string, markup interface{}) int {
	if h.messageSender == nil {
		return 0
	}
	id, _ := h.messageSender.Send(chatID, text, markup)
	return id
}

// validStates defines all valid handler states
var validStates = map[string]bool{
	HandlerStateCallback: true,
	HandlerStateCommand:  true,
}

// IsValidState checks if a state is valid for handler registration
func IsValidState(state string) bool {
	_, ok := validStates[state]
	return ok
}
