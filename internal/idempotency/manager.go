// Package idempotency runs an operation at most once per key within a TTL.
package idempotency

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var ErrRequestInProgress = errors.New("request with this key is already in progress")

const defaultLockTTL = 5 * time.Minute

type Operation func(ctx context.Context) error

type Manager interface {
	// Execute runs fn unless key was already executed or is running.
	// executed reports whether fn ran in this call.
	Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (executed bool, err error)
}

type manager struct {
	store Store
	now   func() time.Time
	log   *slog.Logger
}

func NewManager(store Store, log *slog.Logger) Manager {
	if log == nil {
		log = slog.Default()
	}

	return &manager{
		store: store,
		now:   time.Now,
		log:   log,
	}
}

func (m *manager) Execute(ctx context.Context, key string, ttl time.Duration, fn Operation) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if fn == nil {
		return false, errors.New("operation fn cannot be nil")
	}

	locked, err := m.store.Lock(ctx, key, defaultLockTTL)
	if err != nil {
		return false, err
	}
	if !locked {
		record, err := m.store.Get(ctx, key)
		if err != nil {
			return false, err
		}
		if record == nil {
			return false, ErrRequestInProgress
		}
		return false, nil
	}
	defer func() {
		if err := m.store.ReleaseLock(context.WithoutCancel(ctx), key); err != nil {
			m.log.Warn("failed to release idempotency lock", slog.String("key", key), slog.Any("error", err))
		}
	}()

	record, err := m.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if record != nil {
		return false, nil
	}

	runErr := fn(ctx)

	status := StatusCompleted
	if runErr != nil {
		status = StatusFailed
	}
	if err := m.store.Set(context.WithoutCancel(ctx), key, &Record{Status: status, CompletedAt: m.now()}, ttl); err != nil {
		m.log.Error("failed to record idempotent execution", slog.String("key", key), slog.Any("error", err))
	}

	return true, runErr
}
