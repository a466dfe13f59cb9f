package config

import "time"

// Config holds runtime configuration for the arcade bot.
type Config struct {
	AppEnv      string            `mapstructure:"app_env"`
	Log         LogConfig         `mapstructure:"log"`
	Bot         BotConfig         `mapstructure:"bot"`
	Server      ServerConfig      `mapstructure:"server"`
	Sentry      SentryConfig      `mapstructure:"sentry"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Chat        ChatConfig        `mapstructure:"chat"`
	Trivia      TriviaConfig      `mapstructure:"trivia"`
	Daily       DailyConfig       `mapstructure:"daily"`
}

// LogConfig controls log level, format and optional file rotation.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// BotConfig holds Telegram connection settings.
type BotConfig struct {
	Token   string        `mapstructure:"token" validate:"required"`
	Mode    string        `mapstructure:"mode" validate:"oneof=polling webhook"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig is used when Bot.Mode is webhook.
type WebhookConfig struct {
	Listen    string `mapstructure:"listen"`
	PublicURL string `mapstructure:"public_url" validate:"omitempty,url"`
}

// ServerConfig configures the operational HTTP server.
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// SentryConfig enables error reporting.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	Environment string  `mapstructure:"environment"`
}

// RedisConfig mirrors the Redis client settings.
type RedisConfig struct {
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db" validate:"gte=0"`
	PoolSize        int           `mapstructure:"pool_size" validate:"gte=0"`
	MinIdleConns    int           `mapstructure:"min_idle_conns" validate:"gte=0"`
	PoolTimeout     time.Duration `mapstructure:"pool_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	MinRetryBackoff time.Duration `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff time.Duration `mapstructure:"max_retry_backoff"`
}

// IdempotencyConfig selects the update de-duplication backend.
type IdempotencyConfig struct {
	Backend string        `mapstructure:"backend" validate:"oneof=memory redis"`
	TTL     time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// ChatConfig configures the chat-completion provider.
type ChatConfig struct {
	APIKey             string        `mapstructure:"api_key"`
	BaseURL            string        `mapstructure:"base_url" validate:"omitempty,url"`
	Model              string        `mapstructure:"model" validate:"required"`
	MaxTokens          int64         `mapstructure:"max_tokens" validate:"gt=0"`
	Timeout            time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Referer            string        `mapstructure:"referer"`
	Title              string        `mapstructure:"title"`
	MaxRetries         int           `mapstructure:"max_retries" validate:"gte=0"`
	GrantXPOnFailure   bool          `mapstructure:"grant_xp_on_failure"`
	BreakerThreshold   float64       `mapstructure:"breaker_threshold" validate:"gt=0,lte=1"`
	BreakerMinRequests int           `mapstructure:"breaker_min_requests" validate:"gt=0"`
	BreakerOpenFor     time.Duration `mapstructure:"breaker_open_for" validate:"gt=0"`
}

// TriviaConfig configures trivia sessions.
type TriviaConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// DailyConfig configures the daily coin claim.
type DailyConfig struct {
	MinReward int64         `mapstructure:"min_reward" validate:"gte=0"`
	MaxReward int64         `mapstructure:"max_reward" validate:"gtefield=MinReward"`
	Cooldown  time.Duration `mapstructure:"cooldown" validate:"gte=0"`
}
