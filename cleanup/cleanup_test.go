package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	calls   int
	deleted int64
	err     error
}

func (f *fakeStore) CleanupExpiredAds(context.Context) (int64, error) {
	f.calls++
	return f.deleted, f.err
}

func TestRunSweeps(t *testing.T) {
	store := &fakeStore{deleted: 3}
	j := New(store, time.Hour, zerolog.Nop())

	j.Run(context.Background())
	require.Equal(t, 1, store.calls)
}

func TestRunSurvivesStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	j := New(store, time.Hour, zerolog.Nop())

	// a failing sweep must not panic or stop future sweeps
	j.Run(context.Background())
	j.Run(context.Background())
	require.Equal(t, 2, store.calls)
}

func TestStartStopsOnCancel(t *testing.T) {
	store := &fakeStore{}
	j := New(store, time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not stop after cancel")
	}
	require.GreaterOrEqual(t, store.calls, 1)
}
