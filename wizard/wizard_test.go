package wizard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fargona_jobs_bot/database"
)

var testCategories = []string{
	"💼 Ofis ishi", "🏗 Qurilish", "🍽 Restoran/Kafe", "🚗 Haydovchi",
	"🏥 Tibbiyot", "💻 IT", "📚 Ta'lim", "🔧 Xizmat",
}

type fakeAdStore struct {
	todayCount int
	created    []database.Ad
	nextID     int64
}

func (f *fakeAdStore) CountUserAdsToday(context.Context, int64) (int, error) {
	return f.todayCount, nil
}

func (f *fakeAdStore) CreateAd(_ context.Context, userID int64, title, description, category, contact string, expiresAt time.Time) (*database.Ad, error) {
	f.nextID++
	ad := database.Ad{
		ID:          f.nextID,
		UserID:      userID,
		Title:       title,
		Description: description,
		Category:    category,
		Contact:     contact,
		Status:      database.StatusPending,
		ExpiresAt:   expiresAt,
	}
	f.created = append(f.created, ad)
	return &ad, nil
}

func newMachine(ads *fakeAdStore) *Machine {
	return New(NewMemoryStore(time.Hour), ads, testCategories, 3, 7*24*time.Hour)
}

func TestFullSubmissionFlow(t *testing.T) {
	ctx := context.Background()
	ads := &fakeAdStore{}
	m := newMachine(ads)

	require.NoError(t, m.Start(ctx, 100))

	state, err := m.Input(ctx, 100, "Python dasturchi")
	require.NoError(t, err)
	require.Equal(t, StateDescription, state)

	state, err = m.Input(ctx, 100, strings.Repeat("x", 50))
	require.NoError(t, err)
	require.Equal(t, StateContact, state)

	state, err = m.Input(ctx, 100, "+998901234567")
	require.NoError(t, err)
	require.Equal(t, StateCategory, state)

	ad, err := m.SelectCategory(ctx, 100, 5)
	require.NoError(t, err)
	require.Equal(t, database.StatusPending, ad.Status)
	require.Equal(t, "💻 IT", ad.Category)
	require.Equal(t, "Python dasturchi", ad.Title)
	require.Equal(t, "+998901234567", ad.Contact)
	require.Equal(t, int64(100), ad.UserID)

	// terminal transition cleared the session
	sess, err := m.Session(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, StateIdle, sess.State)
}

func TestStartRefusedAtDailyLimit(t *testing.T) {
	ctx := context.Background()
	m := newMachine(&fakeAdStore{todayCount: 3})

	require.ErrorIs(t, m.Start(ctx, 100), ErrDailyLimit)

	sess, err := m.Session(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, StateIdle, sess.State, "refused start must leave the machine idle")
}

func TestInvalidInputKeepsState(t *testing.T) {
	ctx := context.Background()
	m := newMachine(&fakeAdStore{})

	require.NoError(t, m.Start(ctx, 100))

	state, err := m.Input(ctx, 100, "abc") // too short for a title
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, StateTitle, state)

	state, err = m.Input(ctx, 100, strings.Repeat("x", 101)) // too long
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, StateTitle, state)

	// valid input still advances afterwards
	state, err = m.Input(ctx, 100, "Kassir kerak")
	require.NoError(t, err)
	require.Equal(t, StateDescription, state)
}

func TestCategoryOutOfRange(t *testing.T) {
	ctx := context.Background()
	ads := &fakeAdStore{}
	m := newMachine(ads)

	require.NoError(t, m.Start(ctx, 100))
	_, err := m.Input(ctx, 100, "Python dasturchi")
	require.NoError(t, err)
	_, err = m.Input(ctx, 100, strings.Repeat("x", 50))
	require.NoError(t, err)
	_, err = m.Input(ctx, 100, "+998901234567")
	require.NoError(t, err)

	_, err = m.SelectCategory(ctx, 100, len(testCategories))
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = m.SelectCategory(ctx, 100, -1)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, ads.created)

	// state survived the bad selection
	sess, err := m.Session(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, StateCategory, sess.State)
}

func TestCancelDiscardsDraft(t *testing.T) {
	ctx := context.Background()
	ads := &fakeAdStore{}
	m := newMachine(ads)

	require.NoError(t, m.Start(ctx, 100))
	_, err := m.Input(ctx, 100, "Python dasturchi")
	require.NoError(t, err)

	require.NoError(t, m.Cancel(ctx, 100))

	sess, err := m.Session(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, StateIdle, sess.State)
	require.Empty(t, sess.Draft.Title)
	require.Empty(t, ads.created)
}

func TestInputOutsideWizardIsBadState(t *testing.T) {
	ctx := context.Background()
	m := newMachine(&fakeAdStore{})

	_, err := m.Input(ctx, 100, "hello")
	require.ErrorIs(t, err, ErrBadState)

	_, err = m.SelectCategory(ctx, 100, 0)
	require.ErrorIs(t, err, ErrBadState)
}

func TestMemoryStoreExpiresIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, 1, Session{State: StateTitle}))

	now = now.Add(30 * time.Minute)
	sess, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, StateTitle, sess.State)

	now = now.Add(31 * time.Minute)
	sess, err = store.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, StateIdle, sess.State, "stale session must expire")
}
