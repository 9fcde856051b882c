package wizard

import (
	"context"
	"errors"
	"time"

	"fargona_jobs_bot/database"
	"fargona_jobs_bot/validate"
)

type State string

// Submission states, strictly ordered. No skipping or branching.
const (
	StateIdle        State = "idle"
	StateTitle       State = "awaiting_title"
	StateDescription State = "awaiting_description"
	StateContact     State = "awaiting_contact"
	StateCategory    State = "awaiting_category"
)

// Admin input states ride the same per-user session store, so there is one
// state machine per user for the whole transport.
const (
	StateEditTitle       State = "awaiting_edit_title"
	StateEditDescription State = "awaiting_edit_description"
	StateEditContact     State = "awaiting_edit_contact"
	StateNewAdminID      State = "awaiting_new_admin_id"
	StateBlockUserID     State = "awaiting_block_user_id"
	StateBroadcast       State = "awaiting_broadcast"
)

var (
	// ErrDailyLimit refuses a wizard start once the user hit the daily ad quota.
	ErrDailyLimit = errors.New("daily ad limit reached")
	// ErrInvalidInput re-prompts without changing state.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBadState means the input does not fit the user's current state.
	ErrBadState = errors.New("no active wizard step")
)

type Draft struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Contact     string `json:"contact,omitempty"`
}

// Session is the per-user machine value: current state plus collected fields.
// AdID targets admin edit states, Text holds a broadcast awaiting confirmation.
type Session struct {
	State State  `json:"state"`
	Draft Draft  `json:"draft"`
	AdID  int64  `json:"ad_id,omitempty"`
	Text  string `json:"text,omitempty"`
}

// SessionStore holds sessions keyed by telegram id. The zero Session means
// idle. Implementations expire sessions after an idle TTL.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Set(ctx context.Context, userID int64, s Session) error
	Clear(ctx context.Context, userID int64) error
}

// AdStore is the slice of the data store the wizard needs.
type AdStore interface {
	CountUserAdsToday(ctx context.Context, telegramID int64) (int, error)
	CreateAd(ctx context.Context, userID int64, title, description, category, contact string, expiresAt time.Time) (*database.Ad, error)
}

type Machine struct {
	sessions   SessionStore
	ads        AdStore
	categories []string
	maxDaily   int
	retention  time.Duration
	now        func() time.Time
}

func New(sessions SessionStore, ads AdStore, categories []string, maxDaily int, retention time.Duration) *Machine {
	return &Machine{
		sessions:   sessions,
		ads:        ads,
		categories: categories,
		maxDaily:   maxDaily,
		retention:  retention,
		now:        time.Now,
	}
}

// Start transitions idle → awaiting_title, gated by the daily quota. The
// quota is derived from persisted ads, not in-memory counters.
func (m *Machine) Start(ctx context.Context, userID int64) error {
	count, err := m.ads.CountUserAdsToday(ctx, userID)
	if err != nil {
		return err
	}
	if count >= m.maxDaily {
		return ErrDailyLimit
	}
	return m.sessions.Set(ctx, userID, Session{State: StateTitle})
}

// Input feeds a text message into the machine and returns the new state.
// A validation failure returns ErrInvalidInput with the state unchanged.
func (m *Machine) Input(ctx context.Context, userID int64, text string) (State, error) {
	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return StateIdle, err
	}

	text = validate.CleanText(text)

	switch sess.State {
	case StateTitle:
		if !validate.TitleOK(text) {
			return sess.State, ErrInvalidInput
		}
		sess.Draft.Title = text
		sess.State = StateDescription
	case StateDescription:
		if !validate.DescriptionOK(text) {
			return sess.State, ErrInvalidInput
		}
		sess.Draft.Description = text
		sess.State = StateContact
	case StateContact:
		if !validate.ContactOK(text) {
			return sess.State, ErrInvalidInput
		}
		sess.Draft.Contact = text
		sess.State = StateCategory
	default:
		return sess.State, ErrBadState
	}

	if err := m.sessions.Set(ctx, userID, sess); err != nil {
		return sess.State, err
	}
	return sess.State, nil
}

// SelectCategory finalizes the wizard: the ad is persisted as pending and the
// session is cleared. Notifying admins is the caller's concern, the record is
// committed regardless of delivery.
func (m *Machine) SelectCategory(ctx context.Context, userID int64, index int) (*database.Ad, error) {
	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess.State != StateCategory {
		return nil, ErrBadState
	}
	if index < 0 || index >= len(m.categories) {
		return nil, ErrInvalidInput
	}

	ad, err := m.ads.CreateAd(ctx, userID,
		sess.Draft.Title, sess.Draft.Description, m.categories[index], sess.Draft.Contact,
		m.now().Add(m.retention))
	if err != nil {
		return nil, err
	}

	if err := m.sessions.Clear(ctx, userID); err != nil {
		return ad, err
	}
	return ad, nil
}

// Cancel discards the draft from any state and returns to idle. Persisted
// data is never touched.
func (m *Machine) Cancel(ctx context.Context, userID int64) error {
	return m.sessions.Clear(ctx, userID)
}

// Session exposes the raw session for the transport layer.
func (m *Machine) Session(ctx context.Context, userID int64) (Session, error) {
	return m.sessions.Get(ctx, userID)
}
