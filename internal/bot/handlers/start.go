package handlers

import (
	"fmt"
	"html"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/bot/keyboard"
)

// NewStartHandler greets the user, creating their profile on first contact.
func NewStartHandler(profiles ProfileReader, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		p := profiles.GetOrCreate(sender.ID)

		text := fmt.Sprintf(
			"👋 Welcome, %s!\n\nYou have 💰 %d coins and you're level %d.\nPlay /trivia, /rps or /guess to earn more, or /ask me anything.\nUse /help to see every command.",
			html.EscapeString(DisplayName(sender)), p.Coins, p.Level,
		)

		return c.Send(text, keyboard.MainMenu(), telebot.ModeHTML)
	}
}
