package keyboard

import (
	"github.com/futig/behavior-profile/internal/entity"
	"github.com/futig/behavior-profile/internal/results"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// StartKeyboard creates the initial start button
func (b *Builder) StartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 Iniciar teste", EncodeCallback(ActionCommand, CommandStart)),
		),
	)
}

// ReloadKeyboard is shown when the question list could not be loaded
func (b *Builder) ReloadKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Tentar novamente", EncodeCallback(ActionCommand, CommandReload)),
		),
	)
}

// QuestionOptions describes the question keyboard
type QuestionOptions struct {
	QuestionID int
	Options    []entity.AnswerOption
	Selected   entity.Category
	CanGoPrev  bool
	CanGoNext  bool
	IsComplete bool
}

// QuestionKeyboard creates one button per answer option, navigation and,
// once every question is answered, the submit button
func (b *Builder) QuestionKeyboard(q QuestionOptions) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options)+2)

	for _, opt := range q.Options {
		label := opt.Label
		if opt.Value == q.Selected {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, EncodeOption(q.QuestionID, opt.Value)),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if q.CanGoPrev {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️ Anterior", EncodeCallback(ActionNavigate, NavPrev)))
	}
	if q.CanGoNext {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Próxima ▶️", EncodeCallback(ActionNavigate, NavNext)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	if q.IsComplete {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📨 Enviar respostas", EncodeCallback(ActionCommand, CommandSubmit)),
		))
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// SubmitRetryKeyboard lets the user retry a failed submission
func (b *Builder) SubmitRetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Enviar novamente", EncodeCallback(ActionCommand, CommandSubmit)),
		),
	)
}

// ResultKeyboard creates recommendation tab buttons and downloads
func (b *Builder) ResultKeyboard(tabs []results.RecommendationTab, active string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var row []tgbotapi.InlineKeyboardButton
	for _, tab := range tabs {
		label := tab.Title
		if tab.Key == active {
			label = "• " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionTab, tab.Key)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📕 PDF", EncodeCallback(ActionDownload, string(entity.FormatPDF))),
		tgbotapi.NewInlineKeyboardButtonData("📘 DOCX", EncodeCallback(ActionDownload, string(entity.FormatDOCX))),
		tgbotapi.NewInlineKeyboardButtonData("📄 MD", EncodeCallback(ActionDownload, string(entity.FormatMarkdown))),
	))

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// ResultRetryKeyboard lets the user fetch the result again
func (b *Builder) ResultRetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Ver resultado", EncodeCallback(ActionCommand, CommandResult)),
		),
	)
}

// ConfirmCancelKeyboard asks before discarding an assessment in progress
func (b *Builder) ConfirmCancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Sim, encerrar", EncodeCallback(ActionConfirm, ConfirmCancel)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Não, continuar", EncodeCallback(ActionConfirm, ConfirmContinue)),
		),
	)
}
