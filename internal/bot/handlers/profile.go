package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/domain"
)

// ProfileReader returns a user's current profile.
type ProfileReader interface {
	GetOrCreate(userID int64) domain.UserProfile
}

// NewProfileHandler returns a handler for the /profile command. Replying to
// another user's message shows that user's profile instead.
func NewProfileHandler(profiles ProfileReader, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		target := c.Sender()
		if msg := c.Message(); msg != nil && msg.ReplyTo != nil && msg.ReplyTo.Sender != nil && !msg.ReplyTo.Sender.IsBot {
			target = msg.ReplyTo.Sender
		}
		if target == nil {
			log.Warn("profile handler invoked without sender")
			return nil
		}

		p := profiles.GetOrCreate(target.ID)
		return c.Send(formatProfile(DisplayName(target), p), telebot.ModeHTML)
	}
}
