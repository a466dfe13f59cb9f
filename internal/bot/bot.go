// Package bot wires the Telegram transport to the game, trivia and chat services.
package bot

import (
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/bot/handlers"
	"github.com/Proton-105/arcade-bot/internal/bot/keyboard"
	errors "github.com/Proton-105/arcade-bot/internal/errors"
	"github.com/Proton-105/arcade-bot/internal/game"
	"github.com/Proton-105/arcade-bot/internal/idempotency"
	"github.com/Proton-105/arcade-bot/internal/middleware"
	"github.com/Proton-105/arcade-bot/pkg/config"
)

// Deps bundles the services the bot handlers call into.
type Deps struct {
	Profiles    handlers.ProfileReader
	Daily       handlers.DailyClaimer
	Settler     handlers.RewardSettler
	Resolver    *game.Resolver
	Trivia      handlers.TriviaSessions
	Answers     handlers.AnswerDeliverer
	Chat        handlers.Asker
	Idempotency idempotency.Manager
	ErrHandler  *errors.Handler
}

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot  *telebot.Bot
	log      *slog.Logger
	cfg      config.Config
	deps     Deps
	router   *Router
	keyboard *keyboard.Builder
}

// New builds a telegram bot instance configured according to the application settings.
func New(cfg config.Config, log *slog.Logger, deps Deps) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token: cfg.Bot.Token,
		OnError: func(err error, c telebot.Context) {
			log.Error("telebot error", slog.Any("error", err))
		},
	}

	if cfg.Bot.Mode == "webhook" {
		webhook := &telebot.Webhook{Listen: cfg.Bot.Webhook.Listen}
		if cfg.Bot.Webhook.PublicURL != "" {
			webhook.Endpoint = &telebot.WebhookEndpoint{PublicURL: cfg.Bot.Webhook.PublicURL}
		}
		settings.Poller = webhook
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	return newBot(tb, cfg, log, deps), nil
}

func newBot(tb *telebot.Bot, cfg config.Config, log *slog.Logger, deps Deps) *Bot {
	b := &Bot{
		telebot:  tb,
		log:      log,
		cfg:      cfg,
		deps:     deps,
		router:   NewRouter(NewDispatcher(deps.Answers, log), log),
		keyboard: keyboard.NewBuilder(log),
	}

	b.setupRouter()
	b.registerTelebotHandlers()

	return b
}

// Start publishes the command menu and runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot == nil {
		return
	}

	if err := b.telebot.SetCommands(commandList()); err != nil {
		b.log.Warn("failed to publish command menu", slog.Any("error", err))
	}

	b.log.Info("telegram bot started", slog.String("username", b.telebot.Me.Username), slog.String("mode", b.cfg.Bot.Mode))
	b.telebot.Start()
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// Router exposes the update router.
func (b *Bot) Router() *Router {
	return b.router
}

func (b *Bot) setupRouter() {
	d := b.deps

	b.router.Use(RecoveryMiddleware(b.log, d.ErrHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(middleware.Idempotency(d.Idempotency, b.cfg.Idempotency.TTL, b.log))
	b.router.Use(ErrorHandlingMiddleware(d.ErrHandler))
	b.router.Use(middleware.Metrics)
	b.router.UseForText(RecoveryMiddleware(b.log, d.ErrHandler))

	games := handlers.NewGames(d.Resolver, d.Settler, b.keyboard, b.log)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(d.Profiles, b.log))
	b.router.RegisterCommand(CommandHelp, handlers.NewHelpHandler(b.keyboard))
	b.router.RegisterCommand(CommandAsk, handlers.NewAskHandler(d.Chat, d.Profiles, b.log))
	b.router.RegisterCommand(CommandProfile, handlers.NewProfileHandler(d.Profiles, b.log))
	b.router.RegisterCommand(CommandDaily, handlers.NewDailyHandler(d.Daily, b.log))
	b.router.RegisterCommand(CommandRPS, games.RPS())
	b.router.RegisterCommand(CommandGuess, games.Guess())
	b.router.RegisterCommand(CommandTrivia, handlers.NewTriviaHandler(d.Trivia, b.keyboard, b.log))
	b.router.RegisterCommand(CommandRoll, games.Roll())
	b.router.RegisterCommand(CommandFlip, games.Flip())
	b.router.RegisterCommand(Command8Ball, games.EightBall())
	b.router.RegisterCommand(CommandJoke, games.Joke())
	b.router.RegisterCommand(CommandTime, handlers.NewTimeHandler(time.Now))
	b.router.RegisterCommand(CommandWeather, handlers.NewWeatherHandler())
	b.router.RegisterCommand(CommandCalc, handlers.NewCalcHandler())

	b.router.RegisterCallback(keyboard.CallbackTrivia, handlers.NewTriviaAnswerCallback(d.Answers, b.log))
	b.router.RegisterCallback(keyboard.CallbackRPS, games.RPSCallback())
	b.router.RegisterCallback(keyboard.CallbackHelp, handlers.NewHelpCallback())

	b.router.SetDefault(func(c telebot.Context) error {
		return c.Send(handlers.UnknownCommandMessage)
	})
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}

func commandList() []telebot.Command {
	cmds := make([]telebot.Command, 0, len(menuCommands))
	for _, mc := range menuCommands {
		cmds = append(cmds, telebot.Command{
			Text:        mc.Text[1:],
			Description: mc.Description,
		})
	}
	return cmds
}
