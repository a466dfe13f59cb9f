package idempotency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func stores(t *testing.T) map[string]Store {
	client, _ := setupTestRedis(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client, testLogger()),
	}
}

func TestManager_ExecutesOnce(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			m := NewManager(store, testLogger())
			ctx := context.Background()

			calls := 0
			op := func(context.Context) error {
				calls++
				return nil
			}

			executed, err := m.Execute(ctx, "upd:1", time.Minute, op)
			require.NoError(t, err)
			assert.True(t, executed)

			executed, err = m.Execute(ctx, "upd:1", time.Minute, op)
			require.NoError(t, err)
			assert.False(t, executed)

			executed, err = m.Execute(ctx, "upd:2", time.Minute, op)
			require.NoError(t, err)
			assert.True(t, executed)

			assert.Equal(t, 2, calls)
		})
	}
}

func TestManager_FailedRunIsNotRepeated(t *testing.T) {
	errHandler := errors.New("handler failed")

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			m := NewManager(store, testLogger())
			ctx := context.Background()

			executed, err := m.Execute(ctx, "upd:9", time.Minute, func(context.Context) error { return errHandler })
			assert.True(t, executed)
			assert.ErrorIs(t, err, errHandler)

			record, err := store.Get(ctx, "upd:9")
			require.NoError(t, err)
			require.NotNil(t, record)
			assert.Equal(t, StatusFailed, record.Status)

			executed, err = m.Execute(ctx, "upd:9", time.Minute, func(context.Context) error { return nil })
			assert.False(t, executed)
			assert.NoError(t, err)
		})
	}
}

func TestManager_InProgress(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			m := NewManager(store, testLogger())
			ctx := context.Background()

			started := make(chan struct{})
			release := make(chan struct{})
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = m.Execute(ctx, "upd:5", time.Minute, func(context.Context) error {
					close(started)
					<-release
					return nil
				})
			}()
			<-started

			executed, err := m.Execute(ctx, "upd:5", time.Minute, func(context.Context) error { return nil })
			assert.False(t, executed)
			assert.ErrorIs(t, err, ErrRequestInProgress)

			close(release)
			wg.Wait()
		})
	}
}

func TestManager_ConcurrentDuplicatesRunOnce(t *testing.T) {
	m := NewManager(NewMemoryStore(), testLogger())
	ctx := context.Background()

	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Execute(ctx, "upd:77", time.Minute, func(context.Context) error {
				calls.Add(1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestMemoryStore_ExpiryAndPurge(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", &Record{Status: StatusCompleted, CompletedAt: now}, time.Minute))
	locked, err := store.Lock(ctx, "b", time.Second)
	require.NoError(t, err)
	require.True(t, locked)

	now = now.Add(2 * time.Minute)

	record, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, record)

	removed, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	locked, err = store.Lock(ctx, "b", time.Second)
	require.NoError(t, err)
	assert.True(t, locked, "expired lock can be taken again")
}

func TestRedisStore_RecordRoundTripAndTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, testLogger())
	ctx := context.Background()

	completedAt := time.Date(2024, 3, 1, 10, 0, 0, 123, time.UTC)
	require.NoError(t, store.Set(ctx, "upd:1", &Record{Status: StatusCompleted, CompletedAt: completedAt}, time.Minute))

	record, err := store.Get(ctx, "upd:1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, StatusCompleted, record.Status)
	assert.True(t, completedAt.Equal(record.CompletedAt))

	mr.FastForward(2 * time.Minute)

	record, err = store.Get(ctx, "upd:1")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestRedisStore_PurgeRemovesKeysWithoutExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client, testLogger())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "upd:1", &Record{Status: StatusCompleted}, time.Minute))
	mr.HSet("idempotency:upd:2", "status", StatusCompleted)

	removed, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.True(t, mr.Exists("idempotency:upd:1"))
	assert.False(t, mr.Exists("idempotency:upd:2"))
}

func TestCleaner_RunPurgesUntilCancelled(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Set(context.Background(), "a", &Record{Status: StatusCompleted}, -time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewCleaner(store, testLogger(), 5*time.Millisecond).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.records) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleaner did not stop")
	}
}
