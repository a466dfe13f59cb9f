package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/bot/handlers"
	"github.com/Proton-105/arcade-bot/internal/idempotency"
)

// Idempotency ensures handlers execute at most once per Telegram update within ttl.
func Idempotency(manager idempotency.Manager, ttl time.Duration, log *slog.Logger) handlers.Middleware {
	if manager == nil {
		return func(next handlers.Handler) handlers.Handler {
			return next
		}
	}
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(c telebot.Context) error {
			key := UpdateKey(c)
			if key == "" {
				return next(c)
			}

			ctx := handlers.RequestContext(c)

			executed, err := manager.Execute(ctx, key, ttl, func(execCtx context.Context) error {
				return next(c)
			})
			if errors.Is(err, idempotency.ErrRequestInProgress) {
				log.DebugContext(ctx, "duplicate update still in progress", slog.String("key", key))
				return nil
			}
			if !executed && err == nil {
				log.DebugContext(ctx, "duplicate update skipped", slog.String("key", key))
			}

			return err
		}
	}
}

// UpdateKey identifies the update behind c, or returns "" when it has no id.
func UpdateKey(c telebot.Context) string {
	if c == nil {
		return ""
	}

	if id := c.Update().ID; id != 0 {
		return fmt.Sprintf("upd:%d", id)
	}

	if cb := c.Callback(); cb != nil && cb.ID != "" {
		return fmt.Sprintf("cb:%s", cb.ID)
	}

	return ""
}
