package bot

import (
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/bot/handlers"
	"github.com/Proton-105/arcade-bot/internal/waiter"
)

// Dispatcher offers plain chat messages to pending waits, such as an open
// trivia question.
type Dispatcher struct {
	answers handlers.AnswerDeliverer
	log     *slog.Logger
}

// NewDispatcher creates a Dispatcher delivering to answers.
func NewDispatcher(answers handlers.AnswerDeliverer, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		answers: answers,
		log:     log,
	}
}

// Dispatch reports whether the message was consumed by a pending wait.
func (d *Dispatcher) Dispatch(c telebot.Context) bool {
	if d == nil || d.answers == nil || c == nil || c.Sender() == nil || c.Chat() == nil {
		return false
	}

	msg := waiter.Message{
		AuthorID:   c.Sender().ID,
		ChannelID:  c.Chat().ID,
		Text:       c.Text(),
		ReceivedAt: time.Now(),
	}
	if m := c.Message(); m != nil && m.Unixtime > 0 {
		msg.ReceivedAt = m.Time()
	}

	consumed := d.answers.Deliver(msg)
	if consumed {
		d.log.Debug("message delivered to pending wait",
			slog.Int64("user_id", msg.AuthorID),
			slog.Int64("chat_id", msg.ChannelID),
		)
	}

	return consumed
}
