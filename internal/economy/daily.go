package economy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Proton-105/arcade-bot/internal/domain"
	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
	"github.com/Proton-105/arcade-bot/internal/profile"
	"github.com/Proton-105/arcade-bot/pkg/metrics"
)

// Randomizer draws uniform integers in [lo, hi].
type Randomizer interface {
	Between(lo, hi int64) int64
}

// DailySettings bounds the daily bonus. A zero Cooldown lets users claim at any time.
type DailySettings struct {
	MinReward int64
	MaxReward int64
	Cooldown  time.Duration
}

// DailyClaim is the result of a successful daily bonus claim.
type DailyClaim struct {
	Amount  int64
	Balance int64
}

// Daily hands out the randomized daily coin bonus.
type Daily struct {
	store    *profile.Store
	rnd      Randomizer
	settings DailySettings
	now      func() time.Time
	log      *slog.Logger
}

// NewDaily constructs a Daily bonus dispenser.
func NewDaily(store *profile.Store, rnd Randomizer, settings DailySettings, log *slog.Logger) *Daily {
	if log == nil {
		log = slog.Default()
	}

	return &Daily{
		store:    store,
		rnd:      rnd,
		settings: settings,
		now:      time.Now,
		log:      log,
	}
}

// Claim credits the daily bonus unless the user is still on cooldown.
func (d *Daily) Claim(ctx context.Context, userID int64) (DailyClaim, error) {
	now := d.now().UTC()
	amount := d.rnd.Between(d.settings.MinReward, d.settings.MaxReward)

	updated, err := d.store.Update(ctx, userID, func(p *domain.UserProfile) error {
		if d.settings.Cooldown > 0 && !p.LastDailyAt.IsZero() {
			next := p.LastDailyAt.Add(d.settings.Cooldown)
			if now.Before(next) {
				wait := next.Sub(now).Round(time.Minute)
				return apperrors.NewValidationError(fmt.Sprintf("⏳ You already claimed your daily coins. Come back in %s.", wait))
			}
		}

		if err := Credit(p, amount); err != nil {
			return err
		}
		p.LastDailyAt = now

		return nil
	})
	if err != nil {
		return DailyClaim{}, err
	}

	metrics.RecordCoins(amount)
	d.log.Info("daily bonus claimed", slog.Int64("user_id", userID), slog.Int64("amount", amount))

	return DailyClaim{Amount: amount, Balance: updated.Coins}, nil
}
