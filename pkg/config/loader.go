// Package config provides configuration loading and validation utilities.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnv is used when APP_ENV is not set.
const DefaultEnv = "development"

// Load reads .env files, configs/<APP_ENV>.yaml and environment variables,
// validates the result and returns it together with the backing viper instance.
// A missing YAML file is not an error; defaults and environment variables
// can provide every value.
func Load(paths ...string) (*Config, *viper.Viper, error) {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = DefaultEnv
	}

	if len(paths) == 0 {
		paths = []string{"./configs", "."}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-reads the configuration when its file changes and passes the
// validated result to onChange. Invalid updates are logged and skipped.
func Watch(v *viper.Viper, log *slog.Logger, onChange func(*Config)) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	if log == nil {
		log = slog.Default()
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(v)
		if err != nil {
			log.Error("config reload rejected", slog.String("file", e.Name), slog.Any("error", err))
			return
		}
		cfg.AppEnv = os.Getenv("APP_ENV")
		if cfg.AppEnv == "" {
			cfg.AppEnv = DefaultEnv
		}

		log.Info("config reloaded", slog.String("file", e.Name), slog.String("op", e.Op.String()))
		onChange(cfg)
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)

	v.SetDefault("bot.token", "")
	v.SetDefault("bot.mode", "polling")
	v.SetDefault("bot.timeout", "10s")
	v.SetDefault("bot.webhook.listen", ":8443")
	v.SetDefault("bot.webhook.public_url", "")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("sentry.environment", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.pool_timeout", "4s")
	v.SetDefault("redis.idle_timeout", "5m")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.min_retry_backoff", "8ms")
	v.SetDefault("redis.max_retry_backoff", "512ms")

	v.SetDefault("idempotency.backend", "memory")
	v.SetDefault("idempotency.ttl", "10m")

	v.SetDefault("chat.api_key", "")
	v.SetDefault("chat.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("chat.model", "anthropic/claude-3-haiku")
	v.SetDefault("chat.max_tokens", 500)
	v.SetDefault("chat.timeout", "30s")
	v.SetDefault("chat.referer", "")
	v.SetDefault("chat.title", "arcade-bot")
	v.SetDefault("chat.max_retries", 2)
	v.SetDefault("chat.grant_xp_on_failure", true)
	v.SetDefault("chat.breaker_threshold", 0.5)
	v.SetDefault("chat.breaker_min_requests", 10)
	v.SetDefault("chat.breaker_open_for", "30s")

	v.SetDefault("trivia.timeout", "30s")

	v.SetDefault("daily.min_reward", 50)
	v.SetDefault("daily.max_reward", 150)
	v.SetDefault("daily.cooldown", "0s")
}
