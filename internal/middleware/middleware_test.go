package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/arcade-bot/internal/idempotency"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCommandName(t *testing.T) {
	testCases := []struct {
		name   string
		update telebot.Update
		want   string
	}{
		{name: "command", update: telebot.Update{Message: &telebot.Message{Text: "/guess 50"}}, want: "/guess"},
		{name: "mention", update: telebot.Update{Message: &telebot.Message{Text: "/Trivia@arcade_bot"}}, want: "/trivia"},
		{name: "plain text", update: telebot.Update{Message: &telebot.Message{Text: "tokyo"}}, want: "unknown"},
		{name: "callback", update: telebot.Update{Callback: &telebot.Callback{Data: "rps:rock"}}, want: "callback:rps"},
		{name: "bad callback", update: telebot.Update{Callback: &telebot.Callback{Data: ":"}}, want: "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CommandName((*telebot.Bot)(nil).NewContext(tc.update)))
		})
	}

	assert.Equal(t, "unknown", CommandName(nil))
}

func TestUpdateKey(t *testing.T) {
	assert.Equal(t, "upd:15", UpdateKey((*telebot.Bot)(nil).NewContext(telebot.Update{ID: 15})))
	assert.Equal(t, "cb:abc", UpdateKey((*telebot.Bot)(nil).NewContext(telebot.Update{Callback: &telebot.Callback{ID: "abc"}})))
	assert.Empty(t, UpdateKey((*telebot.Bot)(nil).NewContext(telebot.Update{})))
}

func TestIdempotencySkipsDuplicateUpdates(t *testing.T) {
	manager := idempotency.NewManager(idempotency.NewMemoryStore(), testLogger())
	mw := Idempotency(manager, time.Minute, testLogger())

	calls := 0
	errHandler := errors.New("handler failed")
	h := mw(func(telebot.Context) error {
		calls++
		return errHandler
	})

	c := (*telebot.Bot)(nil).NewContext(telebot.Update{ID: 3, Message: &telebot.Message{Text: "/roll"}})
	assert.ErrorIs(t, h(c), errHandler)
	assert.NoError(t, h(c), "redelivered update is dropped")
	assert.Equal(t, 1, calls)

	other := (*telebot.Bot)(nil).NewContext(telebot.Update{ID: 4, Message: &telebot.Message{Text: "/roll"}})
	assert.ErrorIs(t, h(other), errHandler)
	assert.Equal(t, 2, calls)
}

func TestIdempotencyWithoutManagerIsPassThrough(t *testing.T) {
	calls := 0
	h := Idempotency(nil, time.Minute, testLogger())(func(telebot.Context) error {
		calls++
		return nil
	})

	c := (*telebot.Bot)(nil).NewContext(telebot.Update{ID: 3})
	require.NoError(t, h(c))
	require.NoError(t, h(c))
	assert.Equal(t, 2, calls)
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil).WithContext(context.Background())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"path":"/readyz"`)
	assert.Contains(t, buf.String(), `"status":418`)
}
