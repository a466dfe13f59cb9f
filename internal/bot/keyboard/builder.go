package keyboard

import (
	"log/slog"
	"strconv"

	telebot "gopkg.in/telebot.v3"
)

// Callback prefixes handled by the router.
const (
	CallbackTrivia = "trivia"
	CallbackRPS    = "rps"
	CallbackHelp   = "help"
)

// HelpCategory is one entry of the help menu.
type HelpCategory struct {
	Key   string
	Title string
}

// HelpCategories lists the help sections in menu order.
var HelpCategories = []HelpCategory{
	{Key: "ai", Title: "🤖 AI & Chat"},
	{Key: "games", Title: "🎮 Games"},
	{Key: "fun", Title: "🎲 Fun"},
	{Key: "profile", Title: "👤 Profile"},
	{Key: "utils", Title: "🔧 Utilities"},
}

// Builder creates the bot's inline keyboards.
type Builder struct {
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{log: log}
}

// TriviaOptions renders one numbered button per option, two per row.
// The payload is the 1-based option number, which grades like a typed number.
func (b *Builder) TriviaOptions(options []string) (*telebot.ReplyMarkup, error) {
	kb := NewInlineKeyboard()
	for i := 0; i < len(options); i += 2 {
		row := []InlineButton{triviaButton(i, options[i])}
		if i+1 < len(options) {
			row = append(row, triviaButton(i+1, options[i+1]))
		}
		kb.AddRow(row...)
	}

	markup, err := kb.Build()
	if err != nil {
		b.log.Error("failed to build trivia keyboard", slog.Any("error", err))
		return nil, err
	}
	return markup, nil
}

func triviaButton(i int, option string) InlineButton {
	n := strconv.Itoa(i + 1)
	return InlineButton{Text: n + ". " + option, Unique: CallbackTrivia, Data: n}
}

// RPSChoices renders the three rock-paper-scissors hands.
func (b *Builder) RPSChoices() *telebot.ReplyMarkup {
	markup, err := NewInlineKeyboard().AddRow(
		InlineButton{Text: "🪨 Rock", Unique: CallbackRPS, Data: "rock"},
		InlineButton{Text: "📄 Paper", Unique: CallbackRPS, Data: "paper"},
		InlineButton{Text: "✂️ Scissors", Unique: CallbackRPS, Data: "scissors"},
	).Build()
	if err != nil {
		b.log.Error("failed to build rps keyboard", slog.Any("error", err))
		return nil
	}
	return markup
}

// HelpMenu renders a button per help category.
func (b *Builder) HelpMenu() *telebot.ReplyMarkup {
	kb := NewInlineKeyboard()
	for i := 0; i < len(HelpCategories); i += 2 {
		row := []InlineButton{helpButton(HelpCategories[i])}
		if i+1 < len(HelpCategories) {
			row = append(row, helpButton(HelpCategories[i+1]))
		}
		kb.AddRow(row...)
	}

	markup, err := kb.Build()
	if err != nil {
		b.log.Error("failed to build help keyboard", slog.Any("error", err))
		return nil
	}
	return markup
}

func helpButton(c HelpCategory) InlineButton {
	return InlineButton{Text: c.Title, Unique: CallbackHelp, Data: c.Key}
}
