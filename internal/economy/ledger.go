// Package economy applies coin grants on top of the profile store.
package economy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Proton-105/arcade-bot/internal/domain"
	"github.com/Proton-105/arcade-bot/internal/profile"
	"github.com/Proton-105/arcade-bot/pkg/metrics"
)

// ErrInsufficientFunds is returned when a grant would leave a negative balance.
var ErrInsufficientFunds = errors.New("insufficient coins")

// Credit adds amount to the profile balance inside an already running transaction.
func Credit(p *domain.UserProfile, amount int64) error {
	if p.Coins+amount < 0 {
		return fmt.Errorf("%w: balance %d, change %d", ErrInsufficientFunds, p.Coins, amount)
	}

	p.Coins += amount
	return nil
}

// Ledger grants coins to users held in a profile store.
type Ledger struct {
	store *profile.Store
	log   *slog.Logger
}

// NewLedger constructs a Ledger over store.
func NewLedger(store *profile.Store, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}

	return &Ledger{store: store, log: log}
}

// Grant adds amount coins to the user's balance and returns the new balance.
func (l *Ledger) Grant(ctx context.Context, userID, amount int64) (int64, error) {
	updated, err := l.store.Update(ctx, userID, func(p *domain.UserProfile) error {
		return Credit(p, amount)
	})
	if err != nil {
		l.log.Warn("coin grant rejected",
			slog.Int64("user_id", userID),
			slog.Int64("amount", amount),
			slog.Any("error", err),
		)
		return updated.Coins, err
	}

	metrics.RecordCoins(amount)

	return updated.Coins, nil
}
