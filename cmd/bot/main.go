package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/arcade-bot/internal/bot"
	"github.com/Proton-105/arcade-bot/internal/chat"
	"github.com/Proton-105/arcade-bot/internal/economy"
	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
	"github.com/Proton-105/arcade-bot/internal/game"
	"github.com/Proton-105/arcade-bot/internal/health"
	"github.com/Proton-105/arcade-bot/internal/idempotency"
	"github.com/Proton-105/arcade-bot/internal/lifecycle"
	"github.com/Proton-105/arcade-bot/internal/profile"
	"github.com/Proton-105/arcade-bot/internal/progression"
	"github.com/Proton-105/arcade-bot/internal/trivia"
	"github.com/Proton-105/arcade-bot/internal/waiter"
	"github.com/Proton-105/arcade-bot/pkg/config"
	"github.com/Proton-105/arcade-bot/pkg/graceful"
	"github.com/Proton-105/arcade-bot/pkg/logger"
	"github.com/Proton-105/arcade-bot/pkg/metrics"
	"github.com/Proton-105/arcade-bot/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "arcade bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: sentryEnvironment(cfg),
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
	}

	appLog, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File: logger.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
		Sentry: cfg.Sentry.Enabled,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := appLog.Logger
	slog.SetDefault(log)

	log.Info("starting arcade bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("log_level", cfg.Log.Level),
	)

	config.Watch(v, log, func(next *config.Config) {
		if err := appLog.SetLevel(next.Log.Level); err != nil {
			log.Warn("invalid log level in reloaded config", slog.Any("error", err))
		}
	})

	trivia.RegisterTransitionRecorder(metrics.RecordStateTransition)

	resolver, err := game.NewSeededResolver()
	if err != nil {
		return err
	}

	profiles := profile.NewStore(log)
	settler := game.NewSettler(profiles, log)
	xp := progression.NewEngine(profiles, log)
	daily := economy.NewDaily(profiles, resolver, economy.DailySettings{
		MinReward: cfg.Daily.MinReward,
		MaxReward: cfg.Daily.MaxReward,
		Cooldown:  cfg.Daily.Cooldown,
	}, log)

	answers := waiter.New(log)
	sessions := trivia.NewManager(answers, settler, trivia.Options{
		Timeout: cfg.Trivia.Timeout,
		Pick:    resolver.IntN,
	}, log)

	breaker := apperrors.NewCircuitBreaker(apperrors.BreakerSettings{
		ErrorThreshold:      cfg.Chat.BreakerThreshold,
		MinRequests:         cfg.Chat.BreakerMinRequests,
		OpenTimeout:         cfg.Chat.BreakerOpenFor,
		HalfOpenMaxRequests: apperrors.DefaultBreakerSettings().HalfOpenMaxRequests,
	})
	provider := chat.NewOpenAIProvider(chat.OpenAIConfig{
		APIKey:     cfg.Chat.APIKey,
		BaseURL:    cfg.Chat.BaseURL,
		Model:      cfg.Chat.Model,
		MaxTokens:  cfg.Chat.MaxTokens,
		Timeout:    cfg.Chat.Timeout,
		Referer:    cfg.Chat.Referer,
		Title:      cfg.Chat.Title,
		MaxRetries: cfg.Chat.MaxRetries,
	}, breaker, log)
	asker := chat.NewService(provider, xp, cfg.Chat.GrantXPOnFailure, log)

	shutdown := lifecycle.NewShutdown(log)
	checker := health.NewChecker(log)

	var store interface {
		idempotency.Store
		idempotency.Purger
	}
	switch cfg.Idempotency.Backend {
	case "redis":
		rdb, err := redis.New(ctx, redis.Config{
			Addr:            cfg.Redis.Addr,
			Password:        cfg.Redis.Password,
			DB:              cfg.Redis.DB,
			PoolSize:        cfg.Redis.PoolSize,
			MinIdleConns:    cfg.Redis.MinIdleConns,
			PoolTimeout:     cfg.Redis.PoolTimeout,
			IdleTimeout:     cfg.Redis.IdleTimeout,
			MaxRetries:      cfg.Redis.MaxRetries,
			MinRetryBackoff: cfg.Redis.MinRetryBackoff,
			MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		})
		if err != nil {
			return err
		}
		checker.AddCheck(rdb.Name(), health.CheckFunc(rdb.Check))
		shutdown.Register(lifecycle.StageResources, "redis", func(context.Context) error {
			return rdb.Close()
		})
		store = idempotency.NewRedisStore(rdb.Client, log)
	default:
		store = idempotency.NewMemoryStore()
	}

	b, err := bot.New(*cfg, log, bot.Deps{
		Profiles:    profiles,
		Daily:       daily,
		Settler:     settler,
		Resolver:    resolver,
		Trivia:      sessions,
		Answers:     answers,
		Chat:        asker,
		Idempotency: idempotency.NewManager(store, log),
		ErrHandler:  apperrors.NewHandler(log, cfg.Sentry.Enabled),
	})
	if err != nil {
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))

	probes := lifecycle.NewProbes(checker, log)
	ops := graceful.NewServer(log, &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           lifecycle.NewRouter(probes, log),
		ReadHeaderTimeout: 5 * time.Second,
	}, cfg.Server.ShutdownTimeout)

	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()

	opsDone := make(chan error, 1)
	go func() { opsDone <- ops.ListenAndServe(workCtx) }()
	go idempotency.NewCleaner(store, log, cfg.Idempotency.TTL).Run(workCtx)
	go metrics.NewSessionCollector(sessions).Run(workCtx)
	go b.Start()

	shutdown.Register(lifecycle.StageIngress, "telegram", func(context.Context) error {
		probes.Drain()
		b.Stop()
		return nil
	})
	shutdown.Register(lifecycle.StageSessions, "trivia", func(ctx context.Context) error {
		err := sessions.Shutdown(ctx)
		answers.Close()
		return err
	})
	shutdown.Register(lifecycle.StageResources, "ops_http", func(ctx context.Context) error {
		cancelWork()
		select {
		case err := <-opsDone:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	shutdown.Register(lifecycle.StageResources, "logger", func(context.Context) error {
		if cfg.Sentry.Enabled {
			sentry.Flush(2 * time.Second)
		}
		return nil
	})

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	err = shutdown.Execute(shutdownCtx)
	if closeErr := appLog.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}

	return err
}

func sentryEnvironment(cfg *config.Config) string {
	if cfg.Sentry.Environment != "" {
		return cfg.Sentry.Environment
	}
	return cfg.AppEnv
}
