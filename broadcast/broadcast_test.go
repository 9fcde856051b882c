package broadcast

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"fargona_jobs_bot/database"
)

type fakeUsers struct {
	users []database.User
}

func (f *fakeUsers) GetAllUsers(context.Context) ([]database.User, error) {
	return f.users, nil
}

type fakeSender struct {
	sent []int64
	errs map[int64]error
}

func (f *fakeSender) Send(_ context.Context, chatID int64, _ string) error {
	if err := f.errs[chatID]; err != nil {
		return err
	}
	f.sent = append(f.sent, chatID)
	return nil
}

func users(ids ...int64) *fakeUsers {
	f := &fakeUsers{}
	for _, id := range ids {
		f.users = append(f.users, database.User{TelegramID: id})
	}
	return f
}

func TestRunTallies(t *testing.T) {
	sender := &fakeSender{errs: map[int64]error{
		2: errors.New("Forbidden: bot was blocked by the user"),
		4: errors.New("connection reset"),
	}}
	b := New(users(1, 2, 3, 4, 5), sender, 0, zerolog.Nop())

	report, err := b.Run(context.Background(), "salom")
	require.NoError(t, err)
	require.Equal(t, Report{Sent: 3, Blocked: 1, Failed: 1}, report)
	require.Equal(t, []int64{1, 3, 5}, sender.sent)
}

func TestRunRefusesEmptyMessage(t *testing.T) {
	sender := &fakeSender{}
	b := New(users(1), sender, 0, zerolog.Nop())

	_, err := b.Run(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
	require.Empty(t, sender.sent)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(users(1, 2, 3), &fakeSender{}, 0, zerolog.Nop())
	report, err := b.Run(ctx, "salom")
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, report.Sent)
}

func TestIsBlocked(t *testing.T) {
	require.True(t, IsBlocked(errors.New("Forbidden: bot was blocked by the user")))
	require.True(t, IsBlocked(errors.New("Forbidden: user is deactivated")))
	require.False(t, IsBlocked(errors.New("connection reset")))
	require.False(t, IsBlocked(nil))
}
