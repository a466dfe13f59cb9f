package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream failed")

func TestConstructors(t *testing.T) {
	testCases := []struct {
		name      string
		err       *AppError
		code      string
		severity  Severity
		retryable bool
	}{
		{name: "validation", err: NewValidationError("bad input"), code: CodeValidation, severity: SeverityLow},
		{name: "internal", err: NewInternalError(errUpstream), code: CodeInternal, severity: SeverityHigh},
		{name: "external", err: NewExternalServiceError("chat", errUpstream), code: CodeExternalService, severity: SeverityMedium, retryable: true},
		{name: "state", err: NewStateError("not now"), code: CodeState, severity: SeverityLow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.severity, tc.err.Severity)
			assert.Equal(t, tc.retryable, tc.err.Retryable)
			assert.NotEmpty(t, tc.err.UserMessage)
			assert.True(t, HasCode(fmt.Errorf("wrapped: %w", tc.err), tc.code))
		})
	}

	assert.ErrorIs(t, NewExternalServiceError("chat", errUpstream), errUpstream)
	assert.Equal(t, "bad input", NewValidationError("bad input").UserMessage)
	assert.True(t, IsValidation(NewValidationError("x")))
	assert.True(t, IsExternalService(NewExternalServiceError("x", nil)))
	assert.False(t, IsValidation(errUpstream))
}

func TestHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewJSONHandler(&buf, nil)), false)
	ctx := context.Background()

	msg, retryable := h.Handle(ctx, NewValidationError("Please guess a number between 1 and 100!"))
	assert.Equal(t, "Please guess a number between 1 and 100!", msg)
	assert.False(t, retryable)
	assert.Contains(t, buf.String(), `"code":"E100"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	buf.Reset()
	msg, retryable = h.Handle(ctx, NewExternalServiceError("chat", errUpstream))
	assert.Equal(t, "The service is temporarily unavailable. Try again later!", msg)
	assert.True(t, retryable)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)

	msg, retryable = h.Handle(ctx, errUpstream)
	assert.Equal(t, genericUserMessage, msg)
	assert.False(t, retryable)

	buf.Reset()
	msg, retryable = h.Handle(ctx, fmt.Errorf("ask: %w", context.DeadlineExceeded))
	assert.Equal(t, timeoutUserMessage, msg)
	assert.True(t, retryable)
	assert.Contains(t, buf.String(), `"code":"timeout"`)

	msg, _ = h.Handle(ctx, nil)
	assert.Empty(t, msg)
}

func TestCircuitBreaker_Transitions(t *testing.T) {
	cb := NewCircuitBreaker(BreakerSettings{
		ErrorThreshold:      0.5,
		MinRequests:         4,
		OpenTimeout:         time.Minute,
		HalfOpenMaxRequests: 2,
	})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return now }

	var changes []string
	cb.OnStateChange(func(from, to State) {
		changes = append(changes, from.String()+"->"+to.String())
	})

	fail := func() error { return errUpstream }
	ok := func() error { return nil }

	require.NoError(t, cb.Call(ok))
	require.NoError(t, cb.Call(ok))
	require.ErrorIs(t, cb.Call(fail), errUpstream)
	assert.Equal(t, StateClosed, cb.State())
	require.ErrorIs(t, cb.Call(fail), errUpstream)
	assert.Equal(t, StateOpen, cb.State(), "2 of 4 calls failed")

	called := false
	err := cb.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	require.NoError(t, cb.Call(ok))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Call(ok))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, changes)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(BreakerSettings{ErrorThreshold: 1, MinRequests: 1, OpenTimeout: time.Second, HalfOpenMaxRequests: 1})
	now := time.Now()
	cb.now = func() time.Time { return now }

	require.Error(t, cb.Call(func() error { return errUpstream }))
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(time.Second)
	require.Error(t, cb.Call(func() error { return errUpstream }))
	assert.Equal(t, StateOpen, cb.State())
}

func TestWithRetry(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

	t.Run("retries retryable errors until success", func(t *testing.T) {
		attempts := 0
		err := WithRetry(context.Background(), policy, func() error {
			attempts++
			if attempts < 3 {
				return NewExternalServiceError("chat", errUpstream)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		attempts := 0
		err := WithRetry(context.Background(), policy, func() error {
			attempts++
			return NewValidationError("nope")
		})
		assert.True(t, IsValidation(err))
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := WithRetry(context.Background(), policy, func() error {
			attempts++
			return NewExternalServiceError("chat", errUpstream)
		})
		assert.ErrorIs(t, err, errUpstream)
		assert.Equal(t, 4, attempts)
	})

	t.Run("custom predicate", func(t *testing.T) {
		attempts := 0
		p := policy
		p.ShouldRetry = func(err error) bool { return errors.Is(err, errUpstream) }
		err := WithRetry(context.Background(), p, func() error {
			attempts++
			return errUpstream
		})
		assert.ErrorIs(t, err, errUpstream)
		assert.Equal(t, 4, attempts)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := WithRetry(ctx, policy, func() error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRetryBackoffIsCapped(t *testing.T) {
	p := RetryPolicy{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond}.withDefaults()

	assert.Equal(t, 100*time.Millisecond, p.backoff(1))
	assert.Equal(t, 200*time.Millisecond, p.backoff(2))
	assert.Equal(t, 300*time.Millisecond, p.backoff(3))
}
