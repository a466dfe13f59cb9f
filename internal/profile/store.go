// Package profile owns the in-memory progression profiles of chat users.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Proton-105/arcade-bot/internal/domain"
	"github.com/Proton-105/arcade-bot/pkg/metrics"
)

// ErrInvariantViolated is returned when a mutation would leave a profile in an invalid state.
var ErrInvariantViolated = errors.New("profile invariant violated")

// MutateFunc edits a draft copy of a profile. Returning an error discards the draft.
type MutateFunc func(p *domain.UserProfile) error

// Store maps user ids to profiles. Profiles are created lazily and live for
// the lifetime of the process.
type Store struct {
	mu       sync.RWMutex
	profiles map[int64]*domain.UserProfile
	locks    *keyLock
	now      func() time.Time
	log      *slog.Logger
}

// NewStore constructs an empty Store.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}

	return &Store{
		profiles: make(map[int64]*domain.UserProfile),
		locks:    newKeyLock(),
		now:      time.Now,
		log:      log,
	}
}

// GetOrCreate returns a snapshot of the user's profile, creating the default one on first access.
func (s *Store) GetOrCreate(userID int64) domain.UserProfile {
	s.mu.RLock()
	p, ok := s.profiles[userID]
	if ok {
		snapshot := *p
		s.mu.RUnlock()
		return snapshot
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok = s.profiles[userID]; ok {
		return *p
	}

	created := domain.NewUserProfile(userID, s.now().UTC())
	s.profiles[userID] = &created
	metrics.SetProfiles(len(s.profiles))
	s.log.Info("profile created", slog.Int64("user_id", userID))

	return created
}

// Update applies fn to the user's profile atomically with respect to every
// other Update on the same user. The draft is committed only when fn succeeds
// and the result satisfies the profile invariants.
func (s *Store) Update(ctx context.Context, userID int64, fn MutateFunc) (domain.UserProfile, error) {
	if fn == nil {
		return domain.UserProfile{}, errors.New("profile mutation is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.locks.acquire(ctx, userID); err != nil {
		return domain.UserProfile{}, fmt.Errorf("lock profile %d: %w", userID, err)
	}
	defer s.locks.release(userID)

	current := s.GetOrCreate(userID)
	draft := current

	if err := fn(&draft); err != nil {
		return current, err
	}
	draft.UserID = userID

	if err := CheckInvariants(draft); err != nil {
		s.log.Error("profile mutation rejected",
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		return current, err
	}

	s.mu.Lock()
	*s.profiles[userID] = draft
	s.mu.Unlock()

	return draft, nil
}

// Len reports how many profiles exist.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// CheckInvariants verifies the bookkeeping rules every committed profile must satisfy.
func CheckInvariants(p domain.UserProfile) error {
	switch {
	case p.Coins < 0:
		return fmt.Errorf("%w: coins %d below zero", ErrInvariantViolated, p.Coins)
	case p.XP < 0:
		return fmt.Errorf("%w: xp %d below zero", ErrInvariantViolated, p.XP)
	case p.Level != p.XP/domain.XPPerLevel+1:
		return fmt.Errorf("%w: level %d does not match xp %d", ErrInvariantViolated, p.Level, p.XP)
	case p.GamesPlayed < 0 || p.GamesWon < 0:
		return fmt.Errorf("%w: negative game counters", ErrInvariantViolated)
	case p.GamesWon > p.GamesPlayed:
		return fmt.Errorf("%w: games won %d exceeds games played %d", ErrInvariantViolated, p.GamesWon, p.GamesPlayed)
	}

	return nil
}
