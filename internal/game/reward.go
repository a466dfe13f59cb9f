// Package game resolves the outcome of the bot's mini games and settles
// their rewards against user profiles.
package game

import (
	"context"
	"log/slog"

	"github.com/Proton-105/arcade-bot/internal/domain"
	"github.com/Proton-105/arcade-bot/internal/economy"
	"github.com/Proton-105/arcade-bot/internal/profile"
	"github.com/Proton-105/arcade-bot/internal/progression"
	"github.com/Proton-105/arcade-bot/pkg/metrics"
)

// Reward is the set of profile deltas produced by one game round.
type Reward struct {
	Coins  int64
	XP     int64
	Played bool
	Won    bool
}

// Settlement is the profile state after a reward has been applied.
type Settlement struct {
	Profile   domain.UserProfile
	LeveledUp bool
}

// Settler applies rewards as single profile transactions.
type Settler struct {
	store *profile.Store
	log   *slog.Logger
}

// NewSettler constructs a Settler over store.
func NewSettler(store *profile.Store, log *slog.Logger) *Settler {
	if log == nil {
		log = slog.Default()
	}

	return &Settler{store: store, log: log}
}

// Settle applies every part of reward to the user or none of it.
func (s *Settler) Settle(ctx context.Context, userID int64, reward Reward) (Settlement, error) {
	var leveledUp bool

	updated, err := s.store.Update(ctx, userID, func(p *domain.UserProfile) error {
		if err := economy.Credit(p, reward.Coins); err != nil {
			return err
		}

		up, err := progression.ApplyXP(p, reward.XP)
		if err != nil {
			return err
		}
		leveledUp = up

		if reward.Played || reward.Won {
			p.GamesPlayed++
		}
		if reward.Won {
			p.GamesWon++
		}

		return nil
	})
	if err != nil {
		s.log.Error("failed to settle reward",
			slog.Int64("user_id", userID),
			slog.Int64("coins", reward.Coins),
			slog.Int64("xp", reward.XP),
			slog.Any("error", err),
		)
		return Settlement{Profile: updated}, err
	}

	metrics.RecordCoins(reward.Coins)
	metrics.RecordXP(reward.XP)
	if leveledUp {
		metrics.RecordLevelUp()
	}

	return Settlement{Profile: updated, LeveledUp: leveledUp}, nil
}
