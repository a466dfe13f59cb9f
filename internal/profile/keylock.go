package profile

import (
	"context"
	"sync"
)

type keySlot struct {
	sem  chan struct{}
	refs int
}

// keyLock serializes read-modify-write cycles per user id. Slots are
// reference counted and dropped once no goroutine holds or waits on them.
type keyLock struct {
	mu    sync.Mutex
	slots map[int64]*keySlot
}

func newKeyLock() *keyLock {
	return &keyLock{slots: make(map[int64]*keySlot)}
}

func (l *keyLock) acquire(ctx context.Context, userID int64) error {
	l.mu.Lock()
	slot, ok := l.slots[userID]
	if !ok {
		slot = &keySlot{sem: make(chan struct{}, 1)}
		l.slots[userID] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(userID, slot)
		return ctx.Err()
	}
}

func (l *keyLock) release(userID int64) {
	l.mu.Lock()
	slot, ok := l.slots[userID]
	l.mu.Unlock()
	if !ok {
		return
	}

	<-slot.sem
	l.unref(userID, slot)
}

func (l *keyLock) unref(userID int64, slot *keySlot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, userID)
	}
}

func (l *keyLock) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
