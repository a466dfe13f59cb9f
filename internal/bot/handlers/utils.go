package handlers

import (
	"fmt"
	"html"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/calc"
	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
)

// NewTimeHandler returns a handler for /time.
func NewTimeHandler(now func() time.Time) Handler {
	if now == nil {
		now = time.Now
	}

	return func(c telebot.Context) error {
		return c.Send("🕐 Current UTC time: " + now().UTC().Format("2006-01-02 15:04:05") + " UTC")
	}
}

// NewWeatherHandler returns a handler for /weather.
func NewWeatherHandler() Handler {
	return func(c telebot.Context) error {
		return c.Send(WeatherMessage)
	}
}

// NewCalcHandler returns a handler for /calc <expression>.
func NewCalcHandler() Handler {
	return func(c telebot.Context) error {
		expr := Payload(c)
		if expr == "" {
			return apperrors.NewValidationError(CalcUsageMessage)
		}

		result, err := calc.Eval(expr)
		if err != nil {
			return err
		}

		return c.Send(fmt.Sprintf("🧮 <code>%s</code> = <b>%s</b>", html.EscapeString(expr), calc.Format(result)), telebot.ModeHTML)
	}
}
