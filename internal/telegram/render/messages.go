package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/futig/behavior-profile/internal/assessment"
	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/results"
)

const (
	MsgWelcome = `👋 Olá! Eu aplico o teste de perfil comportamental.

São perguntas rápidas de múltipla escolha. No final você recebe seu perfil (Executor, Planejador, Analista ou Comunicador) com recomendações.

Para enviar as respostas você precisa estar logado: use /login <token>.`

	MsgHelp = `🤖 Comandos:

/start - Iniciar um novo teste
/login <token> - Informar seu token de acesso
/logout - Esquecer o token
/result - Ver seu último resultado
/cancel - Encerrar o teste atual
/help - Mostrar esta ajuda`

	MsgLoggedIn       = `🔐 Token salvo. Você já pode enviar suas respostas.`
	MsgLoggedOut      = `🔓 Token removido.`
	MsgLoginUsage     = `Use /login <token>.`
	MsgLoading        = `⏳ Carregando perguntas...`
	MsgSubmitting     = `📨 Enviando respostas...`
	MsgSubmitted      = `✅ Respostas enviadas! Veja seu resultado abaixo.`
	MsgLoadingResult  = `📊 Carregando seu resultado...`
	MsgConfirmCancel  = `⚠️ Tem certeza? As respostas deste teste serão perdidas.`
	MsgContinue       = `👍 Vamos continuar.`
	MsgSessionClosed  = "👋 Teste encerrado.\n\nPara começar de novo, use /start"
	MsgNoSession      = `Nenhum teste em andamento. Use /start`
	MsgNoOptions      = `⚠️ Não há opções de resposta disponíveis para esta pergunta.`
	MsgDownloadFailed = `❌ Não foi possível gerar o arquivo. Tente novamente.`

	ErrGeneric         = `❌ Ocorreu um erro. Tente novamente ou use /start`
	ErrSessionNotFound = `❌ Teste não encontrado ou expirado. Comece um novo com /start`
	ErrInvalidInput    = `❌ Resposta inválida. Tente novamente.`
	ErrNetworkIssue    = `❌ Problema de conexão. Tente novamente em instantes.`
	ErrTimeout         = `❌ A operação demorou demais. Tente novamente.`
	ErrIncomplete      = `❌ Responda todas as perguntas antes de enviar.`
	ErrRateLimited     = `⚠️ Muitas solicitações. Aguarde um pouco.`
	ErrPanic           = `❌ Ocorreu um erro. Tente novamente ou use /start`
)

const progressBarWidth = 10

// Question renders the displayed question with its position and progress
func Question(state assessment.State, optionsAvailable bool) string {
	q, ok := state.CurrentQuestion()
	if !ok {
		return assessment.MsgNoQuestions
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "❓ Pergunta %d de %d\n\n%s\n\n", state.CurrentIndex+1, state.Total(), q.Text)
	sb.WriteString(ProgressBar(state.Progress()))
	fmt.Fprintf(&sb, "\nRespondidas: %d de %d", state.AnsweredCount(), state.Total())

	if !optionsAvailable {
		sb.WriteString("\n\n")
		sb.WriteString(MsgNoOptions)
	}
	if state.SubmitError != "" {
		sb.WriteString("\n\n❌ ")
		sb.WriteString(state.SubmitError)
	}
	if state.IsComplete() {
		sb.WriteString("\n\n✅ Todas as perguntas respondidas. Você já pode enviar.")
	}

	return sb.String()
}

// ProgressBar renders a percentage as a fixed-width bar
func ProgressBar(percent int) string {
	percent = max(0, min(100, percent))
	filled := percent * progressBarWidth / 100
	return fmt.Sprintf("[%s%s] %d%%",
		strings.Repeat("▓", filled),
		strings.Repeat("░", progressBarWidth-filled),
		percent,
	)
}

// Result renders the profile view with one recommendation tab expanded
func Result(view *results.ProfileView, activeTab string) string {
	var sb strings.Builder

	c := view.Classification
	fmt.Fprintf(&sb, "🧭 Seu perfil: %s", c.Type)
	if c.Primary != "" {
		fmt.Fprintf(&sb, "\nPrincipal: %s", c.Primary)
	}
	if c.Secondary != "" {
		fmt.Fprintf(&sb, "\nSecundário: %s", c.Secondary)
	}
	if c.Tertiary != "" {
		fmt.Fprintf(&sb, "\nTerciário: %s", c.Tertiary)
	}
	if view.Description != "" {
		fmt.Fprintf(&sb, "\n\n%s", view.Description)
	}
	fmt.Fprintf(&sb, "\n\n⚖️ Índice de equilíbrio: %d/100", view.BalanceScore)

	sb.WriteString("\n\n📊 Distribuição")
	for _, s := range view.Distribution {
		fmt.Fprintf(&sb, "\n%s %d%%", padRight(s.Name, 12), s.Value)
	}

	if len(view.Comparison) > 0 {
		sb.WriteString("\n\n👥 Comparação com a média geral")
		for _, row := range view.Comparison {
			fmt.Fprintf(&sb, "\n%s: você %d%%, média %d%% (%s)", row.Name, row.User, row.Average, signed(row.Difference))
		}
	}

	if tab, ok := view.Tab(activeTab); ok {
		fmt.Fprintf(&sb, "\n\n💡 %s", tab.Title)
		if len(tab.Badges) == 0 {
			sb.WriteString("\nNenhuma recomendação disponível.")
		}
		for _, badge := range tab.Badges {
			fmt.Fprintf(&sb, "\n• %s", badge)
		}
	}

	return sb.String()
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func signed(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}

// ClassifyError returns a user-facing message for errors that carry no
// server-provided text
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	if msg := entity.RemoteMessage(err); msg != "" {
		return msg
	}

	switch {
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, entity.ErrSessionClosed):
		return ErrSessionNotFound
	case errors.Is(err, entity.ErrQuestionNotFound), errors.Is(err, entity.ErrInvalidCategory),
		errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrInvalidFormat):
		return ErrInvalidInput
	case errors.Is(err, entity.ErrIncomplete):
		return ErrIncomplete
	case errors.Is(err, entity.ErrUnauthenticated):
		return assessment.MsgLoginRequired
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	return ErrGeneric
}
