package bot

// Command constants for Telegram bot commands.
const (
	CommandStart   = "/start"
	CommandHelp    = "/help"
	CommandAsk     = "/ask"
	CommandProfile = "/profile"
	CommandDaily   = "/daily"
	CommandRPS     = "/rps"
	CommandGuess   = "/guess"
	CommandTrivia  = "/trivia"
	CommandRoll    = "/roll"
	CommandFlip    = "/flip"
	Command8Ball   = "/8ball"
	CommandJoke    = "/joke"
	CommandTime    = "/time"
	CommandWeather = "/weather"
	CommandCalc    = "/calc"
)

// menuCommands is the command list published to Telegram clients.
var menuCommands = []struct {
	Text        string
	Description string
}{
	{CommandHelp, "Show all available commands"},
	{CommandAsk, "Ask the AI anything"},
	{CommandTrivia, "Answer a trivia question"},
	{CommandRPS, "Play rock paper scissors"},
	{CommandGuess, "Guess a number from 1 to 100"},
	{CommandProfile, "Show your profile"},
	{CommandDaily, "Collect your daily coins"},
	{CommandRoll, "Roll a dice"},
	{CommandFlip, "Flip a coin"},
	{Command8Ball, "Ask the magic 8-ball"},
	{CommandJoke, "Get a random joke"},
	{CommandCalc, "Evaluate a math expression"},
	{CommandTime, "Current UTC time"},
	{CommandWeather, "Weather info"},
}
