package progression

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Proton-105/arcade-bot/internal/domain"
	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
	"github.com/Proton-105/arcade-bot/internal/profile"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLevelFor(t *testing.T) {
	testCases := []struct {
		xp    int64
		level int64
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{105, 2},
		{199, 2},
		{200, 3},
		{1000, 11},
		{-5, 1},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.level, LevelFor(tc.xp), "xp=%d", tc.xp)
	}
}

func TestEngine_AddXP(t *testing.T) {
	testCases := []struct {
		name      string
		startXP   int64
		amount    int64
		wantXP    int64
		wantLevel int64
		leveledUp bool
	}{
		{name: "below threshold", startXP: 0, amount: 50, wantXP: 50, wantLevel: 1},
		{name: "crosses threshold", startXP: 95, amount: 10, wantXP: 105, wantLevel: 2, leveledUp: true},
		{name: "skips levels", startXP: 0, amount: 350, wantXP: 350, wantLevel: 4, leveledUp: true},
		{name: "zero amount", startXP: 120, amount: 0, wantXP: 120, wantLevel: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := profile.NewStore(testLogger())
			ctx := context.Background()
			_, err := store.Update(ctx, 1, func(p *domain.UserProfile) error {
				p.XP = tc.startXP
				p.Level = LevelFor(tc.startXP)
				return nil
			})
			require.NoError(t, err)

			engine := NewEngine(store, testLogger())
			leveledUp, err := engine.AddXP(ctx, 1, tc.amount)
			require.NoError(t, err)

			p := store.GetOrCreate(1)
			assert.Equal(t, tc.leveledUp, leveledUp)
			assert.Equal(t, tc.wantXP, p.XP)
			assert.Equal(t, tc.wantLevel, p.Level)
		})
	}
}

func TestEngine_AddXPRejectsNegative(t *testing.T) {
	store := profile.NewStore(testLogger())
	engine := NewEngine(store, testLogger())

	_, err := engine.AddXP(context.Background(), 1, -10)

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, store.GetOrCreate(1).XP)
}

func TestApplyXP_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.Int64Range(0, 1_000_000).Draw(t, "start")
		amount := rapid.Int64Range(0, 1_000_000).Draw(t, "amount")

		p := domain.UserProfile{XP: start, Level: LevelFor(start)}
		before := p.Level

		leveledUp, err := ApplyXP(&p, amount)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if p.XP != start+amount {
			t.Fatalf("xp = %d, want %d", p.XP, start+amount)
		}
		if p.Level != p.XP/domain.XPPerLevel+1 {
			t.Fatalf("level %d out of sync with xp %d", p.Level, p.XP)
		}
		if p.Level < before {
			t.Fatalf("level decreased from %d to %d", before, p.Level)
		}
		if leveledUp != (p.Level > before) {
			t.Fatalf("leveledUp=%v but level went %d -> %d", leveledUp, before, p.Level)
		}
	})
}
