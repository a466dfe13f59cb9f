// Package chat forwards free-form questions to a chat-completion model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
	"github.com/Proton-105/arcade-bot/pkg/metrics"
)

const (
	DefaultBaseURL   = "https://openrouter.ai/api/v1"
	DefaultModel     = "anthropic/claude-3-haiku"
	DefaultMaxTokens = 500

	serviceName = "chat_completion"
)

var errEmptyCompletion = errors.New("completion has no content")

// Provider produces a completion for a single user prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIConfig configures the OpenAI-compatible provider.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int64
	Timeout    time.Duration
	Referer    string
	Title      string
	HTTPClient *http.Client
	// MaxRetries repeats transient failures (network, 429, 5xx). Zero disables retries.
	MaxRetries   int
	RetryBackoff time.Duration
}

// OpenAIProvider calls an OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	client    openai.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	breaker   *apperrors.CircuitBreaker
	retry     apperrors.RetryPolicy
	log       *slog.Logger
}

// NewOpenAIProvider builds a provider guarded by breaker. A nil breaker gets
// default settings.
func NewOpenAIProvider(cfg OpenAIConfig, breaker *apperrors.CircuitBreaker, log *slog.Logger) *OpenAIProvider {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if breaker == nil {
		breaker = apperrors.NewCircuitBreaker(apperrors.DefaultBreakerSettings())
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Referer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.Referer))
	}
	if cfg.Title != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.Title))
	}

	breaker.OnStateChange(func(from, to apperrors.State) {
		log.Warn("chat circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return &OpenAIProvider{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		breaker:   breaker,
		retry: apperrors.RetryPolicy{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.RetryBackoff,
			ShouldRetry:    isTransient,
		},
		log: log,
	}
}

// Complete sends prompt as a single user message and returns the first
// choice. Every failure is reported as an external service error.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	var text string

	err := apperrors.WithRetry(ctx, p.retry, func() error {
		return p.breaker.Call(func() error {
			resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(p.model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.UserMessage(prompt),
				},
				MaxTokens: openai.Int(p.maxTokens),
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
				return errEmptyCompletion
			}

			text = resp.Choices[0].Message.Content
			return nil
		})
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordChatCall(status, time.Since(start))

	if err != nil {
		p.log.Warn("chat completion failed",
			slog.String("model", p.model),
			slog.Any("error", err),
		)
		return "", apperrors.NewExternalServiceError(serviceName, fmt.Errorf("complete: %w", err))
	}

	return text, nil
}

// isTransient reports whether a failed completion is worth repeating.
func isTransient(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, errEmptyCompletion),
		errors.Is(err, apperrors.ErrCircuitOpen),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}

	return true
}
