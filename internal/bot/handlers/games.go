package handlers

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strconv"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/bot/keyboard"
	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
	"github.com/Proton-105/arcade-bot/internal/game"
)

// RewardSettler applies a game reward to a profile.
type RewardSettler interface {
	Settle(ctx context.Context, userID int64, reward game.Reward) (game.Settlement, error)
}

// Games serves the mini game and fun commands.
type Games struct {
	resolver *game.Resolver
	settler  RewardSettler
	keyboard *keyboard.Builder
	log      *slog.Logger
}

// NewGames wires the game commands.
func NewGames(resolver *game.Resolver, settler RewardSettler, kb *keyboard.Builder, log *slog.Logger) *Games {
	if log == nil {
		log = slog.Default()
	}
	return &Games{resolver: resolver, settler: settler, keyboard: kb, log: log}
}

// RPS handles /rps [choice]. Without a choice it offers buttons.
func (g *Games) RPS() Handler {
	return func(c telebot.Context) error {
		choice := Payload(c)
		if choice == "" {
			return c.Send("Pick your hand:", g.keyboard.RPSChoices())
		}
		return g.playRPS(c, choice)
	}
}

// RPSCallback handles the rock-paper-scissors buttons.
func (g *Games) RPSCallback() CallbackHandler {
	return func(c telebot.Context) error {
		_, choice, err := keyboard.DecodeCallback(c.Callback().Data)
		if err != nil {
			return err
		}
		if err := c.Respond(); err != nil {
			g.log.Warn("failed to answer callback", slog.Any("error", err))
		}
		return g.playRPS(c, choice)
	}
}

func (g *Games) playRPS(c telebot.Context, choice string) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	outcome, err := g.resolver.PlayRPS(choice)
	if err != nil {
		return err
	}

	settlement, err := g.settler.Settle(RequestContext(c), sender.ID, outcome.Reward)
	if err != nil {
		return err
	}

	return c.Send(formatRPS(outcome, settlement, DisplayName(sender)), telebot.ModeHTML)
}

// Guess handles /guess <1-100>.
func (g *Games) Guess() Handler {
	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		guess, err := strconv.Atoi(Payload(c))
		if err != nil {
			return apperrors.NewValidationError(GuessUsageMessage)
		}

		outcome, err := g.resolver.PlayGuess(guess)
		if err != nil {
			return err
		}

		settlement, err := g.settler.Settle(RequestContext(c), sender.ID, outcome.Reward)
		if err != nil {
			return err
		}

		return c.Send(formatGuess(outcome, settlement, DisplayName(sender)), telebot.ModeHTML)
	}
}

// Roll handles /roll [sides].
func (g *Games) Roll() Handler {
	return func(c telebot.Context) error {
		sides := game.DefaultDiceSides
		if raw := Payload(c); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				n = 0
			}
			sides = n
		}

		result, err := g.resolver.Roll(sides)
		if err != nil {
			return err
		}

		return c.Send(fmt.Sprintf("🎲 %s rolled a %d (1-%d)", html.EscapeString(DisplayName(c.Sender())), result, sides), telebot.ModeHTML)
	}
}

// Flip handles /flip.
func (g *Games) Flip() Handler {
	return func(c telebot.Context) error {
		result := g.resolver.Flip()
		emoji := "🥈"
		if result == "Heads" {
			emoji = "🪙"
		}
		return c.Send(fmt.Sprintf("%s %s!", emoji, result))
	}
}

// EightBall handles /8ball <question>.
func (g *Games) EightBall() Handler {
	return func(c telebot.Context) error {
		if Payload(c) == "" {
			return apperrors.NewValidationError(EightBallEmptyMessage)
		}
		return c.Send("🎱 " + g.resolver.EightBall())
	}
}

// Joke handles /joke.
func (g *Games) Joke() Handler {
	return func(c telebot.Context) error {
		return c.Send("😂 " + g.resolver.Joke())
	}
}
