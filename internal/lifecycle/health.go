package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/Proton-105/arcade-bot/internal/health"
)

// ErrDraining is reported by Readiness once shutdown has begun.
var ErrDraining = errors.New("shutting down")

// Probes answers liveness and readiness questions for the process.
type Probes struct {
	checker  *health.Checker
	draining atomic.Bool
	log      *slog.Logger
}

// NewProbes creates probes backed by checker. A nil checker means every
// dependency is considered ready.
func NewProbes(checker *health.Checker, log *slog.Logger) *Probes {
	if log == nil {
		log = slog.Default()
	}
	return &Probes{checker: checker, log: log}
}

// Liveness reports success while the process can serve requests at all.
func (p *Probes) Liveness(_ context.Context) error {
	return nil
}

// Readiness fails while draining or when any dependency check fails.
func (p *Probes) Readiness(ctx context.Context) ([]health.Result, error) {
	if p.draining.Load() {
		return nil, ErrDraining
	}
	if p.checker == nil {
		return nil, nil
	}

	results, ok := p.checker.Check(ctx)
	if !ok {
		return results, errors.New("dependency check failed")
	}
	return results, nil
}

// Drain makes Readiness fail from now on.
func (p *Probes) Drain() {
	if !p.draining.Swap(true) {
		p.log.Info("readiness probe switched to draining")
	}
}
