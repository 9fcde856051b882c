// Package broadcast fans one message out to every known user with per-send
// pacing, so the downstream rate limits are respected.
package broadcast

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fargona_jobs_bot/database"
)

// ErrEmptyMessage refuses a broadcast with no text.
var ErrEmptyMessage = errors.New("broadcast message is empty")

type UserSource interface {
	GetAllUsers(ctx context.Context) ([]database.User, error)
}

type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Report tallies per-recipient results. Blocked recipients are counted
// separately because they are expected and suppressed from error logs.
type Report struct {
	Sent    int
	Blocked int
	Failed  int
}

type Broadcaster struct {
	users  UserSource
	sender Sender
	pace   time.Duration
	log    zerolog.Logger
}

func New(users UserSource, sender Sender, pace time.Duration, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{users: users, sender: sender, pace: pace, log: log}
}

// Run sends text to every known user, pacing between sends. Delivery
// failures never abort the run, they are tallied per recipient.
func (b *Broadcaster) Run(ctx context.Context, text string) (Report, error) {
	var report Report

	if strings.TrimSpace(text) == "" {
		return report, ErrEmptyMessage
	}

	users, err := b.users.GetAllUsers(ctx)
	if err != nil {
		return report, err
	}

	for i, user := range users {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		switch err := b.sender.Send(ctx, user.TelegramID, text); {
		case err == nil:
			report.Sent++
		case IsBlocked(err):
			report.Blocked++
		default:
			report.Failed++
			b.log.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("broadcast send failed")
		}

		if b.pace > 0 && i < len(users)-1 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(b.pace):
			}
		}
	}

	b.log.Info().
		Int("sent", report.Sent).
		Int("blocked", report.Blocked).
		Int("failed", report.Failed).
		Msg("broadcast finished")
	return report, nil
}

// IsBlocked reports whether a delivery error means the recipient is
// unreachable: blocked the bot or deactivated the account.
func IsBlocked(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "blocked") || strings.Contains(msg, "deactivated")
}
