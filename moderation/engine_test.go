package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"fargona_jobs_bot/database"
	"fargona_jobs_bot/roles"
)

type fakeStore struct {
	users map[int64]*database.User
	ads   map[int64]*database.Ad
}

func (f *fakeStore) GetUser(_ context.Context, telegramID int64) (*database.User, error) {
	u, ok := f.users[telegramID]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) GetAd(_ context.Context, id int64) (*database.Ad, error) {
	a, ok := f.ads[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeStore) UpdateAdStatus(_ context.Context, id int64, status database.AdStatus, approvedBy *int64) error {
	a, ok := f.ads[id]
	if !ok {
		return database.ErrNotFound
	}
	a.Status = status
	if status == database.StatusApproved {
		a.ApprovedBy = approvedBy
	}
	return nil
}

func (f *fakeStore) UpdateAd(_ context.Context, id int64, title, description, contact *string) error {
	a, ok := f.ads[id]
	if !ok {
		return database.ErrNotFound
	}
	if title != nil {
		a.Title = *title
	}
	if description != nil {
		a.Description = *description
	}
	if contact != nil {
		a.Contact = *contact
	}
	return nil
}

func (f *fakeStore) DeleteAd(_ context.Context, id int64) error {
	if _, ok := f.ads[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.ads, id)
	return nil
}

func (f *fakeStore) UpdateUserRole(_ context.Context, telegramID int64, role database.Role) error {
	u, ok := f.users[telegramID]
	if !ok {
		return database.ErrNotFound
	}
	u.Role = role
	return nil
}

type fakeNotifier struct {
	sent map[int64][]string
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	if f.sent == nil {
		f.sent = make(map[int64][]string)
	}
	f.sent[chatID] = append(f.sent[chatID], text)
	return nil
}

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, text)
	return nil
}

const (
	userID       = int64(100)
	adminID      = int64(200)
	superadminID = int64(300)
)

func newFixture() (*fakeStore, *fakeNotifier, *fakePublisher, *Engine) {
	store := &fakeStore{
		users: map[int64]*database.User{
			userID:       {TelegramID: userID, FullName: "Aziz", Role: database.RoleUser},
			adminID:      {TelegramID: adminID, FullName: "Admin", Role: database.RoleAdmin},
			superadminID: {TelegramID: superadminID, FullName: "SuperAdmin", Role: database.RoleSuperadmin},
		},
		ads: map[int64]*database.Ad{
			1: {
				ID: 1, UserID: userID,
				Title: "Python dasturchi", Description: "Backend dasturchi kerak",
				Category: "💻 IT", Contact: "+998901234567",
				Status: database.StatusPending,
			},
		},
	}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	engine := NewEngine(store, roles.NewAuthority(store), notifier, publisher, zerolog.Nop())
	return store, notifier, publisher, engine
}

func TestApprove(t *testing.T) {
	store, notifier, publisher, engine := newFixture()
	ctx := context.Background()

	ad, err := engine.Approve(ctx, adminID, 1)
	require.NoError(t, err)
	require.Equal(t, database.StatusApproved, ad.Status)
	require.NotNil(t, ad.ApprovedBy)
	require.Equal(t, adminID, *ad.ApprovedBy)

	require.Equal(t, database.StatusApproved, store.ads[1].Status)
	require.Len(t, publisher.published, 1, "publish must be issued exactly once")
	require.Contains(t, publisher.published[0], "Python dasturchi")
	require.Len(t, notifier.sent[userID], 1)
}

func TestApproveRequiresAdmin(t *testing.T) {
	store, _, publisher, engine := newFixture()

	_, err := engine.Approve(context.Background(), userID, 1)
	require.ErrorIs(t, err, roles.ErrForbidden)
	require.Equal(t, database.StatusPending, store.ads[1].Status, "refused approval must be a no-op")
	require.Empty(t, publisher.published)
}

func TestTerminalStatesNeverSwap(t *testing.T) {
	store, _, _, engine := newFixture()
	ctx := context.Background()

	_, err := engine.Approve(ctx, adminID, 1)
	require.NoError(t, err)

	_, err = engine.Reject(ctx, adminID, 1)
	require.ErrorIs(t, err, ErrStatusFinal)
	require.Equal(t, database.StatusApproved, store.ads[1].Status)

	store.ads[2] = &database.Ad{ID: 2, UserID: userID, Title: "Kassir kerak", Status: database.StatusRejected}
	_, err = engine.Approve(ctx, adminID, 2)
	require.ErrorIs(t, err, ErrStatusFinal)
	require.Equal(t, database.StatusRejected, store.ads[2].Status)
}

func TestReject(t *testing.T) {
	store, notifier, publisher, engine := newFixture()

	ad, err := engine.Reject(context.Background(), adminID, 1)
	require.NoError(t, err)
	require.Equal(t, database.StatusRejected, ad.Status)
	require.Equal(t, database.StatusRejected, store.ads[1].Status)
	require.Empty(t, publisher.published, "rejection must not publish")
	require.Len(t, notifier.sent[userID], 1)
}

func TestEditFieldBounds(t *testing.T) {
	store, _, _, engine := newFixture()
	ctx := context.Background()

	_, err := engine.EditField(ctx, adminID, 1, FieldTitle, "abc")
	require.ErrorIs(t, err, ErrInvalidValue)
	require.Equal(t, "Python dasturchi", store.ads[1].Title, "record must be unchanged on violation")

	_, err = engine.EditField(ctx, adminID, 1, FieldTitle, strings.Repeat("x", 101))
	require.ErrorIs(t, err, ErrInvalidValue)
	require.Equal(t, "Python dasturchi", store.ads[1].Title)

	ad, err := engine.EditField(ctx, adminID, 1, FieldTitle, "Senior Python dasturchi")
	require.NoError(t, err)
	require.Equal(t, "Senior Python dasturchi", ad.Title)
	require.Equal(t, "Senior Python dasturchi", store.ads[1].Title)
}

func TestEditKeepsStatus(t *testing.T) {
	store, _, _, engine := newFixture()
	ctx := context.Background()

	_, err := engine.Approve(ctx, adminID, 1)
	require.NoError(t, err)

	_, err = engine.EditField(ctx, adminID, 1, FieldContact, "+998907654321")
	require.NoError(t, err)
	require.Equal(t, database.StatusApproved, store.ads[1].Status, "editing must not reset status")
	require.Equal(t, "+998907654321", store.ads[1].Contact)
}

func TestDelete(t *testing.T) {
	store, notifier, _, engine := newFixture()

	ad, err := engine.Delete(context.Background(), adminID, 1)
	require.NoError(t, err)
	require.Equal(t, "Python dasturchi", ad.Title)
	require.NotContains(t, store.ads, int64(1))
	require.Len(t, notifier.sent[userID], 1)
}

func TestDeleteMissingAd(t *testing.T) {
	store, _, _, engine := newFixture()

	_, err := engine.Delete(context.Background(), adminID, 99)
	require.ErrorIs(t, err, database.ErrNotFound)
	require.Len(t, store.ads, 1, "store must be unchanged")
}

func TestPromote(t *testing.T) {
	store, notifier, _, engine := newFixture()
	ctx := context.Background()

	target, err := engine.Promote(ctx, superadminID, userID)
	require.NoError(t, err)
	require.Equal(t, database.RoleAdmin, target.Role)
	require.Equal(t, database.RoleAdmin, store.users[userID].Role)
	require.Len(t, notifier.sent[userID], 1)

	// admins cannot promote
	store.users[userID].Role = database.RoleUser
	_, err = engine.Promote(ctx, adminID, userID)
	require.ErrorIs(t, err, roles.ErrForbidden)

	// promoting an admin again is refused
	_, err = engine.Promote(ctx, superadminID, adminID)
	require.ErrorIs(t, err, ErrAlreadyAdmin)

	_, err = engine.Promote(ctx, superadminID, 404)
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestDemote(t *testing.T) {
	store, _, _, engine := newFixture()
	ctx := context.Background()

	target, err := engine.Demote(ctx, superadminID, adminID)
	require.NoError(t, err)
	require.Equal(t, database.RoleUser, target.Role)
	require.Equal(t, database.RoleUser, store.users[adminID].Role)

	_, err = engine.Demote(ctx, superadminID, userID)
	require.ErrorIs(t, err, ErrNotAdmin)
}

func TestDemoteSuperadminAlwaysRefused(t *testing.T) {
	store, _, _, engine := newFixture()
	ctx := context.Background()

	// even the superadmin itself cannot demote a superadmin
	_, err := engine.Demote(ctx, superadminID, superadminID)
	require.ErrorIs(t, err, ErrSuperadminImmutable)
	require.Equal(t, database.RoleSuperadmin, store.users[superadminID].Role)

	_, err = engine.Demote(ctx, adminID, superadminID)
	require.ErrorIs(t, err, roles.ErrForbidden)
}

func TestNotificationFailureDoesNotFailMutation(t *testing.T) {
	store, notifier, _, engine := newFixture()
	notifier.err = errors.New("forbidden: bot was blocked by the user")

	ad, err := engine.Reject(context.Background(), adminID, 1)
	require.NoError(t, err, "delivery failure must not fail the committed mutation")
	require.Equal(t, database.StatusRejected, ad.Status)
	require.Equal(t, database.StatusRejected, store.ads[1].Status)
}
