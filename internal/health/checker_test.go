package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	telebot "gopkg.in/telebot.v3"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChecker_Check(t *testing.T) {
	c := NewChecker(testLogger())
	c.AddCheck("telegram", CheckFunc(func(context.Context) error { return nil }))
	c.AddCheck("redis", CheckFunc(func(context.Context) error { return errors.New("down") }))
	c.AddCheck("", CheckFunc(func(context.Context) error { return nil }))
	c.AddCheck("ignored", nil)

	results, ok := c.Check(context.Background())

	assert.False(t, ok)
	assert.Equal(t, []Result{
		{Component: "redis", Status: "failed", Error: "down"},
		{Component: "telegram", Status: "ok"},
	}, results)
}

func TestChecker_TimesOutSlowChecks(t *testing.T) {
	c := NewChecker(testLogger())
	c.timeout = 20 * time.Millisecond
	c.AddCheck("slow", CheckFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	results, ok := c.Check(context.Background())
	assert.False(t, ok)
	assert.Equal(t, context.DeadlineExceeded.Error(), results[0].Error)
}

func TestChecker_EmptyIsHealthy(t *testing.T) {
	results, ok := NewChecker(nil).Check(context.Background())
	assert.True(t, ok)
	assert.Empty(t, results)
}

func TestTelegramChecker(t *testing.T) {
	assert.Error(t, NewTelegramChecker(nil).HealthCheck(context.Background()))
	assert.Error(t, NewTelegramChecker(&telebot.Bot{}).HealthCheck(context.Background()))
	assert.NoError(t, NewTelegramChecker(&telebot.Bot{Me: &telebot.User{ID: 1}}).HealthCheck(context.Background()))
}
