package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/bot/keyboard"
	"github.com/Proton-105/arcade-bot/internal/trivia"
	"github.com/Proton-105/arcade-bot/internal/waiter"
)

// TriviaSessions starts trivia sessions. Abandon is only for questions that
// could not be delivered.
type TriviaSessions interface {
	Create(ctx context.Context, requesterID, channelID int64, notify trivia.NotifyFunc) (*trivia.Session, error)
	Abandon(sessionID string) error
	Timeout() time.Duration
}

// AnswerDeliverer hands a reply to whoever is waiting for it.
type AnswerDeliverer interface {
	Deliver(msg waiter.Message) bool
}

// NewTriviaHandler returns a handler for /trivia. The question is sent right
// away; the result is posted to the chat when the session is graded or expires.
func NewTriviaHandler(sessions TriviaSessions, kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender, chat := c.Sender(), c.Chat()
		if sender == nil || chat == nil {
			return nil
		}

		api := c.Bot()
		name := DisplayName(sender)
		notify := func(ctx context.Context, outcome trivia.Outcome) {
			if _, err := api.Send(chat, formatTriviaOutcome(outcome, name), telebot.ModeHTML); err != nil {
				log.ErrorContext(ctx, "failed to send trivia result",
					slog.String("session_id", outcome.SessionID),
					slog.Int64("chat_id", chat.ID),
					slog.Any("error", err),
				)
			}
		}

		sess, err := sessions.Create(RequestContext(c), sender.ID, chat.ID, notify)
		if err != nil {
			return err
		}

		opts := []interface{}{telebot.ModeHTML}
		if markup, err := kb.TriviaOptions(sess.Options()); err == nil {
			opts = append(opts, markup)
		}

		if err := c.Send(formatTriviaQuestion(sess, sessions.Timeout()), opts...); err != nil {
			if abandonErr := sessions.Abandon(sess.ID); abandonErr != nil {
				log.Warn("failed to abandon trivia session", slog.String("session_id", sess.ID), slog.Any("error", abandonErr))
			}
			return err
		}

		return nil
	}
}

// NewTriviaAnswerCallback delivers an option button press as the user's answer.
func NewTriviaAnswerCallback(answers AnswerDeliverer, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender, chat := c.Sender(), c.Chat()
		if sender == nil || chat == nil {
			return c.Respond()
		}

		_, option, err := keyboard.DecodeCallback(c.Callback().Data)
		if err != nil || strings.TrimSpace(option) == "" {
			return c.Respond()
		}

		consumed := answers.Deliver(waiter.Message{
			AuthorID:  sender.ID,
			ChannelID: chat.ID,
			Text:      option,
		})
		if !consumed {
			return c.Respond(&telebot.CallbackResponse{Text: TriviaClosedMessage})
		}

		return c.Respond()
	}
}
