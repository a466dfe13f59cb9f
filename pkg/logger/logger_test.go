package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		lines = append(lines, line)
	}
	return lines
}

func TestMaskingHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewJSONHandler(&buf, nil)))

	log.With(slog.String("api_key", "sk-123")).Info("calling provider",
		slog.String("Token", "123:abc"),
		slog.String("model", "haiku"),
		slog.Group("redis", slog.String("password", "hunter2"), slog.String("addr", "localhost:6379")),
	)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	line := lines[0]

	assert.Equal(t, "***", line["api_key"])
	assert.Equal(t, "***", line["Token"])
	assert.Equal(t, "haiku", line["model"])

	group, ok := line["redis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "***", group["password"])
	assert.Equal(t, "localhost:6379", group["addr"])
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestMaskingHandlerAddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewMaskingHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := WithCorrelationID(context.Background(), "req-1")
	log.InfoContext(ctx, "handled update")
	log.Info("no context")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "req-1", lines[0]["correlation_id"])
	assert.NotContains(t, lines[1], "correlation_id")
}

func TestWithCorrelationIDGeneratesID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "")
	assert.Len(t, CorrelationIDFromContext(ctx), 36)
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestMiddlewareUsesRequestHeader(t *testing.T) {
	var seen string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CorrelationIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc", seen)
}

func TestNewAndSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	require.NoError(t, l.SetLevel("debug"))
	l.Debug("now shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "shown", lines[0]["msg"])
	assert.Equal(t, "log level changed", lines[1]["msg"])
	assert.Equal(t, "now shown", lines[2]["msg"])
	assert.Equal(t, slog.LevelDebug, l.Level())

	assert.Error(t, l.SetLevel("verbose"))
	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")

	l, err := New(Options{Level: "info", Format: "text", Output: &bytes.Buffer{}, File: FileOptions{Path: path, MaxSizeMB: 1}})
	require.NoError(t, err)

	l.Info("persisted", slog.String("secret", "xyz"))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"persisted"`)
	assert.Contains(t, string(data), `"secret":"***"`)
}
