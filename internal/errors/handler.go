package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/arcade-bot/pkg/metrics"
)

const timeoutUserMessage = "⏳ That took too long. Please try again!"

// Handler turns handler failures into a log line, an error metric, an
// optional Sentry event and the text shown to the user.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
}

func NewHandler(log *slog.Logger, sentryEnabled bool) *Handler {
	if log == nil {
		log = slog.Default()
	}

	return &Handler{
		log:           log,
		sentryEnabled: sentryEnabled,
	}
}

// Handle reports err and returns the user-facing message and whether the operation may be retried.
func (h *Handler) Handle(ctx context.Context, err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	code, appErr := classify(err)

	level := slog.LevelError
	if appErr.Severity == SeverityLow {
		level = slog.LevelWarn
	}
	h.log.Log(ctx, level, "handler failed",
		slog.String("code", code),
		slog.String("severity", string(appErr.Severity)),
		slog.Bool("retryable", appErr.Retryable),
		slog.Any("error", err),
	)
	metrics.RecordError(code, string(appErr.Severity))

	if h.sentryEnabled && (appErr.Severity == SeverityHigh || appErr.Severity == SeverityCritical) {
		report(err, code, appErr.Severity)
	}

	if appErr.UserMessage == "" {
		return genericUserMessage, appErr.Retryable
	}
	return appErr.UserMessage, appErr.Retryable
}

// classify maps err onto the taxonomy. Foreign errors get the "unknown"
// metric label; deadline overruns are reported as retryable timeouts.
func classify(err error) (string, *AppError) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Code, appErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout", &AppError{
			Message:     err.Error(),
			UserMessage: timeoutUserMessage,
			Severity:    SeverityMedium,
			Retryable:   true,
			cause:       err,
		}
	}

	return "unknown", &AppError{
		Message:     err.Error(),
		UserMessage: genericUserMessage,
		Severity:    SeverityHigh,
		cause:       err,
	}
}

func report(err error, code string, severity Severity) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("code", code)
		scope.SetTag("severity", string(severity))
		sentry.CaptureException(err)
	})
}
