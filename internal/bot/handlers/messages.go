package handlers

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Proton-105/arcade-bot/internal/domain"
	"github.com/Proton-105/arcade-bot/internal/game"
	"github.com/Proton-105/arcade-bot/internal/trivia"
)

// MessageLimit is the longest message the transport sends in one piece.
const MessageLimit = 4000

const (
	UnknownCommandMessage = "❌ Command not found! Use /help to see available commands."
	WeatherMessage        = "🌤️ Weather feature coming soon! For now, try asking the AI: `/ask What's the weather like in [city]?`"
	EightBallEmptyMessage = "You need to ask a question!"
	GuessUsageMessage     = "Please guess a number! Example: `/guess 42`"
	CalcUsageMessage      = "Please give me something to calculate! Example: `/calc (2 + 3) * 4`"
	TriviaClosedMessage   = "⏰ This question is no longer open."
)

// SplitMessage cuts text into chunks of at most limit runes, preferring line breaks.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func formatProfile(name string, p domain.UserProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 <b>%s's Profile</b>\n\n", html.EscapeString(name))
	fmt.Fprintf(&b, "Level: %d\n", p.Level)
	fmt.Fprintf(&b, "XP: %d\n", p.XP)
	fmt.Fprintf(&b, "Coins: 💰 %d\n", p.Coins)
	fmt.Fprintf(&b, "Games Played: %d\n", p.GamesPlayed)
	fmt.Fprintf(&b, "Games Won: %d\n", p.GamesWon)
	fmt.Fprintf(&b, "Win Rate: %.1f%%", p.WinRate())
	return b.String()
}

func levelUpLine(name string, s game.Settlement) string {
	if !s.LeveledUp {
		return ""
	}
	return fmt.Sprintf("\n🎉 %s leveled up to level %d!", html.EscapeString(name), s.Profile.Level)
}

func formatRPS(o game.RPSOutcome, s game.Settlement, name string) string {
	result := map[game.RPSResult]string{
		game.RPSTie:  "It's a tie!",
		game.RPSWin:  "You win!",
		game.RPSLoss: "I win!",
	}[o.Result]

	return fmt.Sprintf("<b>Rock Paper Scissors</b>\n\nYour choice: %s %s\nMy choice: %s %s\n\n%s\nCoins earned: 💰 +%d%s",
		o.User.Emoji(), titleCase(string(o.User)),
		o.Bot.Emoji(), titleCase(string(o.Bot)),
		result, o.Reward.Coins, levelUpLine(name, s),
	)
}

func formatGuess(o game.GuessOutcome, s game.Settlement, name string) string {
	return fmt.Sprintf("The number was <b>%d</b>. Your guess: <b>%d</b>\n%s You earned <b>%d</b> coins!%s",
		o.Secret, o.Guess, o.Verdict, o.Reward.Coins, levelUpLine(name, s))
}

func formatTriviaQuestion(sess *trivia.Session, timeout time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧠 <b>Trivia Time!</b>\n\n%s\n\n", html.EscapeString(sess.Question.Prompt))
	for i, option := range sess.Options() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, html.EscapeString(option))
	}
	fmt.Fprintf(&b, "\nType the number or answer in chat! You have %d seconds.", int(timeout.Seconds()))
	return b.String()
}

func formatTriviaOutcome(o trivia.Outcome, name string) string {
	display := html.EscapeString(name)
	answer := html.EscapeString(o.Answer)

	switch {
	case o.Interrupted:
		return fmt.Sprintf("🔄 I'm restarting, so this question is closed, %s. The answer was: <b>%s</b>", display, answer)
	case o.State == trivia.StateExpired:
		return fmt.Sprintf("⏰ Time's up, %s! The answer was: <b>%s</b>", display, answer)
	case o.Err != nil:
		return fmt.Sprintf("⚠️ %s, I couldn't record your answer. The answer was: <b>%s</b>", display, answer)
	case o.Correct:
		return fmt.Sprintf("🎉 Correct, %s! You earned %d coins!%s", display, o.Reward.Coins, levelUpLine(name, o.Settlement))
	default:
		return fmt.Sprintf("❌ Wrong, %s! The answer was: <b>%s</b>\nYou still get %d coins for trying!", display, answer, o.Reward.Coins)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}
