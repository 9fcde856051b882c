// Package tglog mirrors operator-facing notices into a Telegram log channel.
package tglog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

type Logger struct {
	bot       *bot.Bot
	channelID int64
}

// New returns a channel logger. With channelID == 0 the logger is disabled
// and Sendf becomes a no-op.
func New(b *bot.Bot, channelID int64) *Logger {
	if channelID == 0 {
		log.Info().Msg("LOG_CHANNEL_ID not set, channel logging disabled")
		return &Logger{}
	}
	return &Logger{bot: b, channelID: channelID}
}

// Sendf posts to the log channel without blocking the caller.
func (l *Logger) Sendf(format string, args ...any) {
	if l == nil || l.bot == nil {
		return
	}
	text := fmt.Sprintf(format, args...)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    l.channelID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			log.Error().Err(err).Msg("log channel send failed")
		}
	}()
}
