package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/arcade-bot/internal/health"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestShutdown_RunsStagesInOrder(t *testing.T) {
	s := NewShutdown(testLogger())

	var mu sync.Mutex
	var order []string
	hook := func(name string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}

	s.Register(StageResources, "redis", hook("redis"))
	s.Register(StageSessions, "trivia", hook("trivia"))
	s.Register(StageIngress, "telegram", hook("telegram"))
	s.Register(StageIngress, "nil", nil)

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"telegram", "trivia", "redis"}, order)
}

func TestShutdown_CollectsErrors(t *testing.T) {
	s := NewShutdown(testLogger())
	ran := false

	s.Register(StageIngress, "telegram", func(context.Context) error { return errors.New("stop failed") })
	s.Register(StageResources, "redis", func(context.Context) error {
		ran = true
		return nil
	})

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram: stop failed")
	assert.True(t, ran, "later stages still run")
}

func TestProbesAndRouter(t *testing.T) {
	checker := health.NewChecker(testLogger())
	var failing bool
	checker.AddCheck("redis", health.CheckFunc(func(context.Context) error {
		if failing {
			return errors.New("connection refused")
		}
		return nil
	}))

	probes := NewProbes(checker, testLogger())
	router := NewRouter(probes, testLogger())

	get := func(path string) (int, probeResponse) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		var body probeResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		return rec.Code, body
	}

	code, body := get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)

	code, body = get("/readyz")
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, body.Checks, 1)
	assert.Equal(t, "redis", body.Checks[0].Component)

	failing = true
	code, body = get("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "connection refused", body.Checks[0].Error)

	failing = false
	probes.Drain()
	code, body = get("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, ErrDraining.Error(), body.Error)

	code, _ = get("/healthz")
	assert.Equal(t, http.StatusOK, code, "liveness is unaffected by draining")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
