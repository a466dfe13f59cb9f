// Package waiter correlates follow-up chat messages with an earlier prompt.
//
// A caller registers a Filter with a deadline and receives exactly one Result:
// the first matching message, a timeout, or a cancellation. The message and
// timer arms race through a single compare-and-swap, so only one of them can
// ever resolve a registration.
package waiter

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Proton-105/arcade-bot/pkg/metrics"
)

// Filter selects messages by author and channel.
type Filter struct {
	AuthorID  int64
	ChannelID int64
}

// Message is an inbound chat message offered to pending registrations.
type Message struct {
	AuthorID   int64
	ChannelID  int64
	Text       string
	ReceivedAt time.Time
}

// Matches reports whether msg satisfies the filter.
func (f Filter) Matches(msg Message) bool {
	return msg.AuthorID == f.AuthorID && msg.ChannelID == f.ChannelID
}

// Outcome tells how a registration was resolved.
type Outcome int

const (
	OutcomeMessage Outcome = iota
	OutcomeTimedOut
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMessage:
		return "message"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is delivered once on Registration.Done.
type Result struct {
	Outcome Outcome
	Message Message
}

// Registration is a single pending wait.
type Registration struct {
	filter   Filter
	waiter   *Waiter
	resolved atomic.Bool
	done     chan Result
	timer    *time.Timer // guarded by waiter.mu
}

// Done yields the single Result of the registration.
func (r *Registration) Done() <-chan Result {
	return r.done
}

// Filter returns the filter the registration was created with.
func (r *Registration) Filter() Filter {
	return r.filter
}

// Cancel resolves the registration as cancelled. It returns false when the
// registration had already been resolved.
func (r *Registration) Cancel() bool {
	return r.resolve(Result{Outcome: OutcomeCancelled})
}

func (r *Registration) resolve(res Result) bool {
	if !r.resolved.CompareAndSwap(false, true) {
		return false
	}

	r.waiter.remove(r)
	r.done <- res

	return true
}

// Waiter holds pending registrations keyed by filter.
type Waiter struct {
	mu      sync.Mutex
	pending map[Filter][]*Registration
	log     *slog.Logger
}

// New constructs an empty Waiter.
func New(log *slog.Logger) *Waiter {
	if log == nil {
		log = slog.Default()
	}

	return &Waiter{
		pending: make(map[Filter][]*Registration),
		log:     log,
	}
}

// Register starts waiting for a message matching filter. The registration
// resolves as timed out once timeout elapses without a match.
func (w *Waiter) Register(filter Filter, timeout time.Duration) *Registration {
	reg := &Registration{
		filter: filter,
		waiter: w,
		done:   make(chan Result, 1),
	}

	w.mu.Lock()
	w.pending[filter] = append(w.pending[filter], reg)
	reg.timer = time.AfterFunc(timeout, func() {
		reg.resolve(Result{Outcome: OutcomeTimedOut})
	})
	count := w.countLocked()
	w.mu.Unlock()

	metrics.SetPendingWaits(count)

	return reg
}

// Deliver offers msg to the oldest live registration whose filter matches.
// It reports whether the message was consumed.
func (w *Waiter) Deliver(msg Message) bool {
	filter := Filter{AuthorID: msg.AuthorID, ChannelID: msg.ChannelID}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}

	for {
		reg := w.next(filter)
		if reg == nil {
			return false
		}

		if reg.resolve(Result{Outcome: OutcomeMessage, Message: msg}) {
			return true
		}
	}
}

// Pending reports whether a live registration exists for filter.
func (w *Waiter) Pending(filter Filter) bool {
	return w.next(filter) != nil
}

// Close cancels every pending registration.
func (w *Waiter) Close() {
	w.mu.Lock()
	all := make([]*Registration, 0, w.countLocked())
	for _, regs := range w.pending {
		all = append(all, regs...)
	}
	w.mu.Unlock()

	for _, reg := range all {
		reg.Cancel()
	}

	if len(all) > 0 {
		w.log.Info("cancelled pending waits", slog.Int("count", len(all)))
	}
}

func (w *Waiter) next(filter Filter) *Registration {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, reg := range w.pending[filter] {
		if !reg.resolved.Load() {
			return reg
		}
	}

	return nil
}

func (w *Waiter) remove(reg *Registration) {
	w.mu.Lock()

	if reg.timer != nil {
		reg.timer.Stop()
	}

	regs := w.pending[reg.filter]
	for i, candidate := range regs {
		if candidate == reg {
			regs = append(regs[:i], regs[i+1:]...)
			break
		}
	}

	if len(regs) == 0 {
		delete(w.pending, reg.filter)
	} else {
		w.pending[reg.filter] = regs
	}

	count := w.countLocked()
	w.mu.Unlock()

	metrics.SetPendingWaits(count)
}

func (w *Waiter) countLocked() int {
	count := 0
	for _, regs := range w.pending {
		count += len(regs)
	}
	return count
}
