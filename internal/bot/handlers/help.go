package handlers

import (
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/bot/keyboard"
)

const helpOverview = `🤖 <b>Bot Commands</b>
Use <code>/help [category]</code> for detailed info

🤖 <b>AI &amp; Chat</b>: /ask
🎮 <b>Games</b>: /rps /guess /trivia
🎲 <b>Fun</b>: /roll /flip /8ball /joke
👤 <b>Profile</b>: /profile /daily
🔧 <b>Utilities</b>: /calc /time /weather`

var helpTopics = map[string]string{
	"ai": `🤖 <b>AI Commands</b>

<code>/ask [question]</code>: Ask the AI anything! Gives XP.

Examples:
<code>/ask What is Python?</code>
<code>/ask Tell me a story</code>
<code>/ask Help me with math</code>`,
	"games": `🎮 <b>Games</b>

<code>/rps [choice]</code>: Rock Paper Scissors, e.g. <code>/rps rock</code>
<code>/guess [number]</code>: Guess a number 1-100, e.g. <code>/guess 50</code>
<code>/trivia</code>: Answer a trivia question within 30 seconds

Win coins and XP by playing!`,
	"fun": `🎲 <b>Fun</b>

<code>/roll [sides]</code>: Roll a dice (default 6, 2-100 sides)
<code>/flip</code>: Flip a coin
<code>/8ball [question]</code>: Ask the magic 8-ball
<code>/joke</code>: Get a random joke`,
	"profile": `👤 <b>Profile</b>

<code>/profile</code>: Your level, XP, coins and win rate. Reply to someone's message to see theirs.
<code>/daily</code>: Collect 50-150 daily coins

Every 100 XP is a new level.`,
	"utils": `🔧 <b>Utilities</b>

<code>/calc [expression]</code>: Basic math with + - * / and parentheses
<code>/time</code>: Current UTC time
<code>/weather</code>: Weather info (coming soon)`,
}

// HelpText returns the help for category, or the overview when the category
// is empty or unknown.
func HelpText(category string) string {
	if text, ok := helpTopics[strings.ToLower(strings.TrimSpace(category))]; ok {
		return text
	}
	return helpOverview
}

// NewHelpHandler returns a handler for /help [category].
func NewHelpHandler(kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		category := Payload(c)
		if category == "" {
			return c.Send(helpOverview, kb.HelpMenu(), telebot.ModeHTML)
		}
		return c.Send(HelpText(category), telebot.ModeHTML)
	}
}

// NewHelpCallback shows a help category picked from the menu.
func NewHelpCallback() CallbackHandler {
	return func(c telebot.Context) error {
		_, category, _ := keyboard.DecodeCallback(c.Callback().Data)
		if err := c.Respond(); err != nil {
			return err
		}
		return c.Send(HelpText(category), telebot.ModeHTML)
	}
}
