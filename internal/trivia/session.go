package trivia

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Proton-105/arcade-bot/internal/waiter"
)

// Session is one trivia question put to one user in one channel.
type Session struct {
	ID          string
	Question    Question
	RequesterID int64
	ChannelID   int64
	CreatedAt   time.Time
	Deadline    time.Time

	mu    sync.Mutex
	state State
	reg   *waiter.Registration

	// abandoned marks a wait cancelled by Manager.Abandon. Any other
	// cancellation interrupts the session.
	abandoned atomic.Bool
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Options returns a copy of the answer options in display order.
func (s *Session) Options() []string {
	return append([]string(nil), s.Question.Options...)
}

func (s *Session) transition(to State) error {
	s.mu.Lock()
	from := s.state
	if !IsTransitionAllowed(from, to) {
		s.mu.Unlock()
		return fmt.Errorf("trivia session %s: transition %s -> %s not allowed", s.ID, from, to)
	}
	s.state = to
	s.mu.Unlock()

	transitionRecorder(string(from), string(to))
	return nil
}
