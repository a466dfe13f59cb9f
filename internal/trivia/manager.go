// Package trivia runs timed trivia questions: one question per session,
// graded on the first answer from the asking user in the same channel, or
// expired when the deadline passes first.
package trivia

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
	"github.com/Proton-105/arcade-bot/internal/game"
	"github.com/Proton-105/arcade-bot/internal/waiter"
)

// DefaultTimeout is how long a question stays open.
const DefaultTimeout = 30 * time.Second

var (
	// CorrectReward is applied when the answer is right.
	CorrectReward = game.Reward{Coins: 30, XP: 15, Played: true, Won: true}
	// IncorrectReward is the consolation for a wrong answer.
	IncorrectReward = game.Reward{Coins: 5, Played: true}
)

// ErrSessionNotFound is returned for unknown or already finished sessions.
var ErrSessionNotFound = errors.New("trivia session not found")

var errShuttingDown = apperrors.NewStateError("🔄 I'm restarting right now. Try /trivia again in a moment!")

// Settler applies a reward to a user's profile.
type Settler interface {
	Settle(ctx context.Context, userID int64, reward game.Reward) (game.Settlement, error)
}

// Outcome is reported once a session reaches a terminal state.
type Outcome struct {
	SessionID   string
	RequesterID int64
	ChannelID   int64
	State       State
	Correct     bool
	Reply       string
	Answer      string
	Reward      game.Reward
	Settlement  game.Settlement
	Err         error
	// Interrupted is set when the wait was cancelled by shutdown before an
	// answer or the deadline. State is left at AwaitingResponse.
	Interrupted bool
}

// NotifyFunc receives the outcome of a graded, expired or interrupted session.
type NotifyFunc func(ctx context.Context, outcome Outcome)

// Options tunes a Manager.
type Options struct {
	Timeout time.Duration
	Bank    []Question
	// Pick returns an index in [0, n). Defaults to a uniform random choice.
	Pick func(n int) int
}

// Manager owns live trivia sessions.
type Manager struct {
	waiter  *waiter.Waiter
	settler Settler
	bank    []Question
	pick    func(n int) int
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	active   map[waiter.Filter]string
	closed   bool
	wg       sync.WaitGroup
}

// NewManager constructs a Manager that waits for answers through w and
// settles rewards through settler.
func NewManager(w *waiter.Waiter, settler Settler, opts Options, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if len(opts.Bank) == 0 {
		opts.Bank = DefaultBank()
	}
	if opts.Pick == nil {
		opts.Pick = rand.IntN
	}

	return &Manager{
		waiter:   w,
		settler:  settler,
		bank:     opts.Bank,
		pick:     opts.Pick,
		timeout:  opts.Timeout,
		now:      time.Now,
		log:      log,
		sessions: make(map[string]*Session),
		active:   make(map[waiter.Filter]string),
	}
}

// Create opens a session for requesterID in channelID and returns it without
// waiting for the answer. notify is called once when the session is graded,
// expires or is interrupted by Shutdown; it is not called for abandoned sessions.
func (m *Manager) Create(ctx context.Context, requesterID, channelID int64, notify NotifyFunc) (*Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	filter := waiter.Filter{AuthorID: requesterID, ChannelID: channelID}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, errShuttingDown
	}
	if _, busy := m.active[filter]; busy {
		m.mu.Unlock()
		return nil, apperrors.NewValidationError("⏳ You already have a trivia question waiting for an answer here!")
	}

	now := m.now()
	sess := &Session{
		ID:          uuid.NewString(),
		Question:    m.bank[m.pick(len(m.bank))],
		RequesterID: requesterID,
		ChannelID:   channelID,
		CreatedAt:   now,
		Deadline:    now.Add(m.timeout),
		state:       StateAwaitingResponse,
	}
	sess.reg = m.waiter.Register(filter, m.timeout)
	m.sessions[sess.ID] = sess
	m.active[filter] = sess.ID
	m.wg.Add(1)
	m.mu.Unlock()

	m.log.Debug("trivia session created",
		slog.String("session_id", sess.ID),
		slog.Int64("user_id", requesterID),
		slog.Int64("chat_id", channelID),
	)

	go m.await(context.WithoutCancel(ctx), sess, notify)

	return sess, nil
}

// Abandon cancels a waiting session whose question could not be delivered.
// No reward is applied, nothing is reported and the state does not change.
func (m *Manager) Abandon(sessionID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.abandoned.Store(true)
	if !sess.reg.Cancel() {
		return ErrSessionNotFound
	}
	return nil
}

// Timeout is how long each question stays open.
func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

// ActiveSessions returns the number of sessions still awaiting an answer.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown stops accepting sessions, closes every waiting one with an
// interrupted outcome and waits for in-flight grading to finish.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	open := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		open = append(open, sess)
	}
	m.mu.Unlock()

	for _, sess := range open {
		sess.reg.Cancel()
	}
	if len(open) > 0 {
		m.log.Info("interrupted open trivia sessions", slog.Int("count", len(open)))
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) await(ctx context.Context, sess *Session, notify NotifyFunc) {
	defer m.wg.Done()

	res := <-sess.reg.Done()
	m.forget(sess)

	var outcome Outcome

	switch res.Outcome {
	case waiter.OutcomeMessage:
		outcome = m.grade(ctx, sess, res.Message.Text)
	case waiter.OutcomeTimedOut:
		outcome = m.expire(sess)
	default:
		if sess.abandoned.Load() {
			m.log.Debug("trivia session abandoned", slog.String("session_id", sess.ID))
			return
		}
		outcome = m.outcome(sess, sess.State())
		outcome.Interrupted = true
	}

	if notify != nil {
		notify(ctx, outcome)
	}
}

func (m *Manager) grade(ctx context.Context, sess *Session, reply string) Outcome {
	outcome := m.outcome(sess, StateGraded)
	outcome.Reply = reply

	if err := sess.transition(StateGraded); err != nil {
		m.log.Error("failed to grade trivia session", slog.String("session_id", sess.ID), slog.Any("error", err))
		outcome.Err = err
		return outcome
	}

	outcome.Correct = Grade(sess.Question, reply)
	reward := IncorrectReward
	if outcome.Correct {
		reward = CorrectReward
	}

	settlement, err := m.settler.Settle(ctx, sess.RequesterID, reward)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Reward = reward
	outcome.Settlement = settlement

	m.log.Info("trivia session graded",
		slog.String("session_id", sess.ID),
		slog.Int64("user_id", sess.RequesterID),
		slog.Bool("correct", outcome.Correct),
	)

	return outcome
}

func (m *Manager) expire(sess *Session) Outcome {
	outcome := m.outcome(sess, StateExpired)
	if err := sess.transition(StateExpired); err != nil {
		m.log.Error("failed to expire trivia session", slog.String("session_id", sess.ID), slog.Any("error", err))
		outcome.Err = err
	}
	return outcome
}

func (m *Manager) outcome(sess *Session, state State) Outcome {
	return Outcome{
		SessionID:   sess.ID,
		RequesterID: sess.RequesterID,
		ChannelID:   sess.ChannelID,
		State:       state,
		Answer:      sess.Question.DisplayAnswer(),
	}
}

func (m *Manager) forget(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sess.ID)
	filter := sess.reg.Filter()
	if m.active[filter] == sess.ID {
		delete(m.active, filter)
	}
}
