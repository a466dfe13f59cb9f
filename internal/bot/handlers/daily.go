package handlers

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/economy"
)

// DailyClaimer grants the daily coin reward.
type DailyClaimer interface {
	Claim(ctx context.Context, userID int64) (economy.DailyClaim, error)
}

// NewDailyHandler returns a handler for /daily.
func NewDailyHandler(daily DailyClaimer, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}

		claim, err := daily.Claim(RequestContext(c), sender.ID)
		if err != nil {
			return err
		}

		return c.Send(fmt.Sprintf("💰 %s received %d daily coins! Total: %d coins",
			html.EscapeString(DisplayName(sender)), claim.Amount, claim.Balance), telebot.ModeHTML)
	}
}
