package domain

import "time"

// Profile defaults applied when a user is seen for the first time.
const (
	DefaultCoins = 100
	DefaultLevel = 1
	XPPerLevel   = 100
)

// UserProfile is the progression record of a single chat user.
type UserProfile struct {
	UserID      int64     `json:"user_id"`
	Coins       int64     `json:"coins"`
	Level       int64     `json:"level"`
	XP          int64     `json:"xp"`
	GamesPlayed int64     `json:"games_played"`
	GamesWon    int64     `json:"games_won"`
	LastDailyAt time.Time `json:"last_daily_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserProfile returns the starting profile for userID.
func NewUserProfile(userID int64, now time.Time) UserProfile {
	return UserProfile{
		UserID:    userID,
		Coins:     DefaultCoins,
		Level:     DefaultLevel,
		CreatedAt: now,
	}
}

// WinRate returns the share of won games in percent.
func (p UserProfile) WinRate() float64 {
	if p.GamesPlayed == 0 {
		return 0
	}

	return float64(p.GamesWon) / float64(p.GamesPlayed) * 100
}
