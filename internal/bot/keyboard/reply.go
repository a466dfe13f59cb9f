package keyboard

import (
	telebot "gopkg.in/telebot.v3"
)

// MainMenu builds the persistent reply keyboard with the most used commands.
func MainMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	markup.Reply(
		markup.Row(markup.Text("/trivia"), markup.Text("/rps"), markup.Text("/guess 50")),
		markup.Row(markup.Text("/profile"), markup.Text("/daily")),
		markup.Row(markup.Text("/help")),
	)

	return markup
}
