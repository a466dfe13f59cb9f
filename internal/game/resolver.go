package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"

	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
)

const (
	MinDiceSides     = 2
	MaxDiceSides     = 100
	DefaultDiceSides = 6
)

var eightBallAnswers = []string{
	"Yes, definitely!", "It is certain", "Without a doubt", "Yes, absolutely",
	"You may rely on it", "As I see it, yes", "Most likely", "Outlook good",
	"Signs point to yes", "Reply hazy, try again", "Ask again later",
	"Better not tell you now", "Cannot predict now", "Concentrate and ask again",
	"Don't count on it", "My reply is no", "My sources say no",
	"Outlook not so good", "Very doubtful",
}

var jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"Why did the scarecrow win an award? He was outstanding in his field!",
	"Why don't eggs tell jokes? They'd crack each other up!",
	"What do you call a fake noodle? An impasta!",
	"Why did the math book look so sad? Because it had too many problems!",
	"What do you call a bear with no teeth? A gummy bear!",
	"Why can't a bicycle stand up by itself? It's two tired!",
	"What do you call a fish wearing a bowtie? Sofishticated!",
}

// Resolver draws the random parts of every game. It is safe for concurrent use.
type Resolver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResolver builds a Resolver over src. Tests pass a fixed source.
func NewResolver(src rand.Source) *Resolver {
	return &Resolver{rng: rand.New(src)}
}

// NewSeededResolver builds a Resolver seeded from crypto/rand.
func NewSeededResolver() (*Resolver, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}

	src := rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))
	return NewResolver(src), nil
}

// IntN returns a uniform integer in [0, n).
func (r *Resolver) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// PlayRPS validates the user's hand and plays it against a uniformly drawn bot hand.
func (r *Resolver) PlayRPS(raw string) (RPSOutcome, error) {
	user, err := ParseChoice(raw)
	if err != nil {
		return RPSOutcome{}, err
	}

	return ResolveRPS(user, Choices[r.IntN(len(Choices))]), nil
}

// PlayGuess validates guess and scores it against a uniformly drawn secret.
func (r *Resolver) PlayGuess(guess int) (GuessOutcome, error) {
	if err := ValidateGuess(guess); err != nil {
		return GuessOutcome{}, err
	}

	secret := GuessMin + r.IntN(GuessMax-GuessMin+1)
	return ResolveGuess(guess, secret), nil
}

// Roll throws a die with the given number of sides.
func (r *Resolver) Roll(sides int) (int, error) {
	if sides < MinDiceSides || sides > MaxDiceSides {
		return 0, apperrors.NewValidationError(fmt.Sprintf("Please choose between %d and %d sides!", MinDiceSides, MaxDiceSides))
	}

	return 1 + r.IntN(sides), nil
}

// Flip returns "Heads" or "Tails".
func (r *Resolver) Flip() string {
	if r.IntN(2) == 0 {
		return "Heads"
	}
	return "Tails"
}

// EightBall picks a magic 8-ball answer.
func (r *Resolver) EightBall() string {
	return eightBallAnswers[r.IntN(len(eightBallAnswers))]
}

// Joke picks a joke.
func (r *Resolver) Joke() string {
	return jokes[r.IntN(len(jokes))]
}

// Between returns a uniform integer in [lo, hi].
func (r *Resolver) Between(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}

	return lo + int64(r.IntN(int(hi-lo+1)))
}
