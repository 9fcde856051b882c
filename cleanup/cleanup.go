// Package cleanup runs the retention sweep: expired listings are deleted
// regardless of moderation status.
package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type Store interface {
	CleanupExpiredAds(ctx context.Context) (int64, error)
}

type Job struct {
	store    Store
	interval time.Duration
	log      zerolog.Logger
}

func New(store Store, interval time.Duration, log zerolog.Logger) *Job {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Job{store: store, interval: interval, log: log}
}

// Run performs one sweep. A failed sweep is logged, never fatal.
func (j *Job) Run(ctx context.Context) {
	deleted, err := j.store.CleanupExpiredAds(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("retention sweep failed")
		return
	}
	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Msg("expired ads removed")
	}
}

// Start sweeps immediately, then on every tick until the context is done.
// Intended to run on its own goroutine.
func (j *Job) Start(ctx context.Context) {
	j.Run(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Run(ctx)
		}
	}
}
