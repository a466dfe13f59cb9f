// Package progression applies XP grants and derives levels from XP.
package progression

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Proton-105/arcade-bot/internal/domain"
	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
	"github.com/Proton-105/arcade-bot/internal/profile"
	"github.com/Proton-105/arcade-bot/pkg/metrics"
)

// LevelFor returns the level reached with the given amount of XP.
func LevelFor(xp int64) int64 {
	if xp < 0 {
		return domain.DefaultLevel
	}
	return xp/domain.XPPerLevel + 1
}

// ApplyXP adds amount to the profile inside an already running transaction
// and reports whether the level went up.
func ApplyXP(p *domain.UserProfile, amount int64) (bool, error) {
	if amount < 0 {
		return false, apperrors.NewValidationError(fmt.Sprintf("xp amount must not be negative, got %d", amount))
	}

	p.XP += amount
	newLevel := LevelFor(p.XP)
	if newLevel > p.Level {
		p.Level = newLevel
		return true, nil
	}

	return false, nil
}

// Engine grants XP to users held in a profile store.
type Engine struct {
	store *profile.Store
	log   *slog.Logger
}

// NewEngine constructs an Engine over store.
func NewEngine(store *profile.Store, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}

	return &Engine{store: store, log: log}
}

// AddXP grants amount XP to the user and reports whether they leveled up.
// Every call adds amount again; it is not a retry-safe primitive.
func (e *Engine) AddXP(ctx context.Context, userID, amount int64) (bool, error) {
	var leveledUp bool

	updated, err := e.store.Update(ctx, userID, func(p *domain.UserProfile) error {
		var applyErr error
		leveledUp, applyErr = ApplyXP(p, amount)
		return applyErr
	})
	if err != nil {
		return false, err
	}

	metrics.RecordXP(amount)
	if leveledUp {
		metrics.RecordLevelUp()
		e.log.Info("user leveled up", slog.Int64("user_id", userID), slog.Int64("level", updated.Level))
	}

	return leveledUp, nil
}
