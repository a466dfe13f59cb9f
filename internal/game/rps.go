package game

import (
	"strings"

	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
)

// Choice is a rock-paper-scissors hand.
type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

// Choices lists the hands in a stable order.
var Choices = []Choice{Rock, Paper, Scissors}

var beats = map[Choice]Choice{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

// Emoji returns the icon shown next to the hand.
func (c Choice) Emoji() string {
	switch c {
	case Rock:
		return "🪨"
	case Paper:
		return "📄"
	case Scissors:
		return "✂️"
	default:
		return "❔"
	}
}

// ParseChoice normalizes user input into a Choice.
func ParseChoice(raw string) (Choice, error) {
	choice := Choice(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := beats[choice]; !ok {
		return "", apperrors.NewValidationError("Please choose: `/rps rock`, `/rps paper`, or `/rps scissors`")
	}

	return choice, nil
}

// RPSResult is the round result from the user's point of view.
type RPSResult string

const (
	RPSTie  RPSResult = "tie"
	RPSWin  RPSResult = "win"
	RPSLoss RPSResult = "loss"
)

// RPSOutcome describes a resolved rock-paper-scissors round.
type RPSOutcome struct {
	User   Choice
	Bot    Choice
	Result RPSResult
	Reward Reward
}

// ResolveRPS scores the user's hand against the bot's hand.
//
//	tie  -> 10 coins
//	win  -> 25 coins, 10 XP, counted as a win
//	loss -> 5 coins
func ResolveRPS(user, bot Choice) RPSOutcome {
	outcome := RPSOutcome{User: user, Bot: bot}

	switch {
	case user == bot:
		outcome.Result = RPSTie
		outcome.Reward = Reward{Coins: 10, Played: true}
	case beats[user] == bot:
		outcome.Result = RPSWin
		outcome.Reward = Reward{Coins: 25, XP: 10, Played: true, Won: true}
	default:
		outcome.Result = RPSLoss
		outcome.Reward = Reward{Coins: 5, Played: true}
	}

	return outcome
}
