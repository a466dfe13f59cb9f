package game

import (
	"fmt"

	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
)

const (
	GuessMin = 1
	GuessMax = 100
)

// GuessOutcome describes a resolved number-guess round.
type GuessOutcome struct {
	Guess    int
	Secret   int
	Distance int
	Verdict  string
	Reward   Reward
}

type guessTier struct {
	maxDistance int
	verdict     string
	reward      Reward
}

// guessTiers is ordered by distance; the last tier catches everything further away.
var guessTiers = []guessTier{
	{maxDistance: 0, verdict: "🎉 Exact match! Amazing!", reward: Reward{Coins: 100, XP: 25, Played: true, Won: true}},
	{maxDistance: 5, verdict: "🔥 Very close!", reward: Reward{Coins: 50, XP: 15, Played: true, Won: true}},
	{maxDistance: 10, verdict: "👍 Close!", reward: Reward{Coins: 25, XP: 10, Played: true}},
	{maxDistance: 20, verdict: "🤔 Not bad", reward: Reward{Coins: 10, XP: 5, Played: true}},
	{maxDistance: GuessMax, verdict: "😅 Way off!", reward: Reward{Coins: 5, Played: true}},
}

// ValidateGuess rejects guesses outside [GuessMin, GuessMax].
func ValidateGuess(guess int) error {
	if guess < GuessMin || guess > GuessMax {
		return apperrors.NewValidationError(fmt.Sprintf("Please guess a number between %d and %d!", GuessMin, GuessMax))
	}

	return nil
}

// ResolveGuess scores guess against secret by their distance.
func ResolveGuess(guess, secret int) GuessOutcome {
	distance := guess - secret
	if distance < 0 {
		distance = -distance
	}

	tier := guessTiers[len(guessTiers)-1]
	for _, candidate := range guessTiers {
		if distance <= candidate.maxDistance {
			tier = candidate
			break
		}
	}

	return GuessOutcome{
		Guess:    guess,
		Secret:   secret,
		Distance: distance,
		Verdict:  tier.verdict,
		Reward:   tier.reward,
	}
}
