package economy

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/arcade-bot/internal/domain"
	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
	"github.com/Proton-105/arcade-bot/internal/profile"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixedRandomizer struct {
	value int64
	lo    int64
	hi    int64
}

func (f *fixedRandomizer) Between(lo, hi int64) int64 {
	f.lo, f.hi = lo, hi
	return f.value
}

func TestCredit(t *testing.T) {
	p := domain.UserProfile{Coins: 10}

	require.NoError(t, Credit(&p, 5))
	assert.Equal(t, int64(15), p.Coins)

	require.NoError(t, Credit(&p, -15))
	assert.Zero(t, p.Coins)

	err := Credit(&p, -1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Zero(t, p.Coins)
}

func TestLedger_Grant(t *testing.T) {
	store := profile.NewStore(testLogger())
	ledger := NewLedger(store, testLogger())
	ctx := context.Background()

	balance, err := ledger.Grant(ctx, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(130), balance)

	balance, err = ledger.Grant(ctx, 1, -130)
	require.NoError(t, err)
	assert.Zero(t, balance)

	balance, err = ledger.Grant(ctx, 1, -1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Zero(t, balance)
	assert.Zero(t, store.GetOrCreate(1).Coins)
}

func TestLedger_ConcurrentGrantsSum(t *testing.T) {
	store := profile.NewStore(testLogger())
	ledger := NewLedger(store, testLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Grant(ctx, 5, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(400), store.GetOrCreate(5).Coins)
}

func TestDaily_Claim(t *testing.T) {
	store := profile.NewStore(testLogger())
	rnd := &fixedRandomizer{value: 77}
	daily := NewDaily(store, rnd, DailySettings{MinReward: 50, MaxReward: 150}, testLogger())

	claim, err := daily.Claim(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(77), claim.Amount)
	assert.Equal(t, int64(177), claim.Balance)
	assert.Equal(t, int64(50), rnd.lo)
	assert.Equal(t, int64(150), rnd.hi)

	claim, err = daily.Claim(context.Background(), 1)
	require.NoError(t, err, "no cooldown by default")
	assert.Equal(t, int64(254), claim.Balance)
}

func TestDaily_Cooldown(t *testing.T) {
	store := profile.NewStore(testLogger())
	daily := NewDaily(store, &fixedRandomizer{value: 60}, DailySettings{
		MinReward: 50,
		MaxReward: 150,
		Cooldown:  24 * time.Hour,
	}, testLogger())

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	daily.now = func() time.Time { return now }

	_, err := daily.Claim(context.Background(), 1)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = daily.Claim(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, int64(160), store.GetOrCreate(1).Coins)

	now = now.Add(23 * time.Hour)
	claim, err := daily.Claim(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(220), claim.Balance)
}
