package handlers

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/chat"
)

// Asker answers free-form questions.
type Asker interface {
	Ask(ctx context.Context, userID int64, question string) (chat.Answer, error)
}

// NewAskHandler returns a handler for /ask <question>. Long answers are
// split into several messages.
func NewAskHandler(asker Asker, profiles ProfileReader, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		if err := c.Notify(telebot.Typing); err != nil {
			log.Debug("failed to send typing action", slog.Any("error", err))
		}

		answer, err := asker.Ask(RequestContext(c), sender.ID, Payload(c))
		if err != nil {
			return err
		}

		for i, chunk := range SplitMessage(answer.Text, MessageLimit) {
			send := c.Send
			if i == 0 {
				send = c.Reply
			}
			if err := send(chunk, telebot.NoPreview); err != nil {
				return err
			}
		}

		if answer.LeveledUp {
			p := profiles.GetOrCreate(sender.ID)
			return c.Send(fmt.Sprintf("🎉 %s leveled up to level %d!", html.EscapeString(DisplayName(sender)), p.Level), telebot.ModeHTML)
		}

		return nil
	}
}
