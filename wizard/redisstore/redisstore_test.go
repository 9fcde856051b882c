package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"fargona_jobs_bot/wizard"
)

func newStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, New(client, ttl)
}

func TestRoundTrip(t *testing.T) {
	_, store := newStore(t, time.Hour)
	ctx := context.Background()

	sess := wizard.Session{
		State: wizard.StateContact,
		Draft: wizard.Draft{Title: "Python dasturchi", Description: "Backend ish"},
	}
	require.NoError(t, store.Set(ctx, 42, sess))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, sess, got)
}

func TestMissingSessionIsIdle(t *testing.T) {
	_, store := newStore(t, time.Hour)

	sess, err := store.Get(context.Background(), 404)
	require.NoError(t, err)
	require.Equal(t, wizard.StateIdle, sess.State)
}

func TestClear(t *testing.T) {
	_, store := newStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 42, wizard.Session{State: wizard.StateTitle}))
	require.NoError(t, store.Clear(ctx, 42))

	sess, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, wizard.StateIdle, sess.State)
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	mr, store := newStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 42, wizard.Session{State: wizard.StateTitle}))

	mr.FastForward(61 * time.Minute)

	sess, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, wizard.StateIdle, sess.State, "abandoned wizard state must expire")
}
