package chat

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
)

const (
	// FallbackReply is returned when the provider fails.
	FallbackReply = "Sorry, I'm having trouble thinking right now. Try again later!"
	// AskXP is granted for every question asked.
	AskXP int64 = 5
)

// XPGranter awards experience to a user.
type XPGranter interface {
	AddXP(ctx context.Context, userID int64, amount int64) (bool, error)
}

// Answer is the reply to one question.
type Answer struct {
	Text      string
	Fallback  bool
	LeveledUp bool
}

// Service answers user questions and awards XP for asking.
type Service struct {
	provider       Provider
	xp             XPGranter
	grantOnFailure bool
	log            *slog.Logger
}

// NewService constructs a Service. When grantOnFailure is false, XP is only
// awarded for successful completions.
func NewService(provider Provider, xp XPGranter, grantOnFailure bool, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		provider:       provider,
		xp:             xp,
		grantOnFailure: grantOnFailure,
		log:            log,
	}
}

// Ask forwards question to the provider. A provider failure is not returned
// to the caller; the fallback reply is used instead.
func (s *Service) Ask(ctx context.Context, userID int64, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, apperrors.NewValidationError("Please provide a question! Example: `/ask What is quantum physics?`")
	}

	var answer Answer

	text, err := s.provider.Complete(ctx, question)
	if err != nil {
		s.log.Warn("chat provider failed, using fallback reply",
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
		answer.Text = FallbackReply
		answer.Fallback = true
	} else {
		answer.Text = text
	}

	if answer.Fallback && !s.grantOnFailure {
		return answer, nil
	}

	leveledUp, err := s.xp.AddXP(ctx, userID, AskXP)
	if err != nil {
		return answer, err
	}
	answer.LeveledUp = leveledUp

	return answer, nil
}
