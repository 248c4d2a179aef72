package assessment

import (
	"errors"

	"github.com/futig/behavior-profile/internal/entity"
)

// User-facing messages
const (
	MsgLoadFailed    = "Não foi possível carregar as perguntas. Recarregue a página para tentar novamente."
	MsgNoQuestions   = "Nenhuma pergunta disponível no momento."
	MsgSubmitFailed  = "Não foi possível enviar suas respostas. Tente novamente."
	MsgLoginRequired = "Você precisa estar logado para enviar o teste. Faça login e tente novamente."
)

// userMessage prefers the server-provided message, then a login hint for
// authentication failures, then the fallback.
func userMessage(err error, fallback string) string {
	if msg := entity.RemoteMessage(err); msg != "" {
		return msg
	}
	if errors.Is(err, entity.ErrUnauthenticated) {
		return MsgLoginRequired
	}
	return fallback
}
