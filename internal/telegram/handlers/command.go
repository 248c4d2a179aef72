package handlers

import (
	"context"
	"strings"

	"github.com/futig/behavior-profile/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot commands
const (
	CommandStart  = "start"
	CommandHelp   = "help"
	CommandLogin  = "login"
	CommandLogout = "logout"
	CommandResult = "result"
	CommandCancel = "cancel"
)

const msgUnknownCommand = "❌ Comando desconhecido. Use /help"

// CommandHandler handles slash commands
type CommandHandler struct {
	flow
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(deps Deps) *CommandHandler {
	return &CommandHandler{flow: newFlow(HandlerStateCommand, deps)}
}

// Handle dispatches msg.Command
func (h *CommandHandler) Handle(ctx context.Context, msg *Message) error {
	ctxzap.Info(ctx, "command received",
		zap.String("command", msg.Command),
		zap.Int64("user_id", msg.UserID),
	)

	switch msg.Command {
	case CommandStart:
		h.sendMessage(msg.ChatID, render.MsgWelcome, h.keyboard.StartKeyboard())
	case CommandHelp:
		h.sendMessage(msg.ChatID, render.MsgHelp, nil)
	case CommandLogin:
		h.handleLogin(ctx, msg)
	case CommandLogout:
		h.tokens.Delete(msg.UserID)
		h.sendMessage(msg.ChatID, render.MsgLoggedOut, nil)
	case CommandResult:
		return h.showResult(ctx, msg, 0)
	case CommandCancel:
		return h.requestCancel(ctx, msg)
	default:
		h.sendMessage(msg.ChatID, msgUnknownCommand, nil)
	}

	return nil
}

// handleLogin stores the token and removes the message that carried it
func (h *CommandHandler) handleLogin(ctx context.Context, msg *Message) {
	token := strings.TrimSpace(msg.Args)
	if token == "" || strings.ContainsAny(token, " \t\n") {
		h.sendMessage(msg.ChatID, render.MsgLoginUsage, nil)
		return
	}

	h.tokens.Set(msg.UserID, token)
	h.messageSender.Delete(msg.ChatID, msg.MessageID)

	ctxzap.Info(ctx, "telegram user logged in", zap.Int64("user_id", msg.UserID))
	h.sendMessage(msg.ChatID, render.MsgLoggedIn, nil)
}
