// Package moderation implements the role-gated review operations on listings
// and on admin membership. Every mutation commits first, side-effect
// notifications are best-effort afterwards and never roll anything back.
package moderation

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"fargona_jobs_bot/broadcast"
	"fargona_jobs_bot/database"
	"fargona_jobs_bot/messages"
	"fargona_jobs_bot/roles"
	"fargona_jobs_bot/validate"
)

var (
	// ErrStatusFinal means the ad already reached approved or rejected.
	// Terminal states never swap.
	ErrStatusFinal = errors.New("ad status is final")
	// ErrInvalidValue means an edit violates the field length bounds.
	ErrInvalidValue = errors.New("invalid field value")
	// ErrAlreadyAdmin refuses promoting an existing admin or superadmin.
	ErrAlreadyAdmin = errors.New("user is already an admin")
	// ErrNotAdmin refuses demoting a plain user.
	ErrNotAdmin = errors.New("user is not an admin")
	// ErrSuperadminImmutable refuses demoting the superadmin, regardless of caller.
	ErrSuperadminImmutable = errors.New("superadmin cannot be demoted")
)

type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldContact     Field = "contact"
)

// Label is the Uzbek field name used in user-facing notices.
func (f Field) Label() string {
	switch f {
	case FieldTitle:
		return "📝 Yangi sarlavha"
	case FieldDescription:
		return "📄 Yangi tavsif"
	case FieldContact:
		return "📞 Yangi aloqa"
	}
	return string(f)
}

// Store is the slice of the data store the engine mutates.
type Store interface {
	GetUser(ctx context.Context, telegramID int64) (*database.User, error)
	GetAd(ctx context.Context, id int64) (*database.Ad, error)
	UpdateAdStatus(ctx context.Context, id int64, status database.AdStatus, approvedBy *int64) error
	UpdateAd(ctx context.Context, id int64, title, description, contact *string) error
	DeleteAd(ctx context.Context, id int64) error
	UpdateUserRole(ctx context.Context, telegramID int64, role database.Role) error
}

// Notifier delivers a message to a single user.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Publisher posts a formatted listing to the public channel.
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

type Engine struct {
	store     Store
	auth      *roles.Authority
	notifier  Notifier
	publisher Publisher
	log       zerolog.Logger
}

func NewEngine(store Store, auth *roles.Authority, notifier Notifier, publisher Publisher, log zerolog.Logger) *Engine {
	return &Engine{
		store:     store,
		auth:      auth,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
	}
}

// Approve moves a pending ad to approved, records the approver, publishes the
// listing to the channel and notifies the owner.
func (e *Engine) Approve(ctx context.Context, actorID, adID int64) (*database.Ad, error) {
	if err := e.auth.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	ad, err := e.store.GetAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	if ad.Status != database.StatusPending {
		return nil, ErrStatusFinal
	}

	if err := e.store.UpdateAdStatus(ctx, adID, database.StatusApproved, &actorID); err != nil {
		return nil, err
	}
	ad.Status = database.StatusApproved
	ad.ApprovedBy = &actorID

	if err := e.publisher.Publish(ctx, messages.FormatChannelPost(ad)); err != nil {
		e.log.Error().Err(err).Int64("ad_id", adID).Msg("channel publish failed")
	}
	e.notify(ctx, ad.UserID, messages.FormatAdApprovedUser(ad.Title))

	return ad, nil
}

// Reject moves a pending ad to rejected and notifies the owner.
func (e *Engine) Reject(ctx context.Context, actorID, adID int64) (*database.Ad, error) {
	if err := e.auth.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	ad, err := e.store.GetAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	if ad.Status != database.StatusPending {
		return nil, ErrStatusFinal
	}

	if err := e.store.UpdateAdStatus(ctx, adID, database.StatusRejected, nil); err != nil {
		return nil, err
	}
	ad.Status = database.StatusRejected

	e.notify(ctx, ad.UserID, messages.FormatAdRejectedUser(ad.Title))
	return ad, nil
}

// EditField overwrites one field in place. The value must pass the same
// bounds as the wizard. Status is unchanged, terminal ads stay editable.
func (e *Engine) EditField(ctx context.Context, actorID, adID int64, field Field, value string) (*database.Ad, error) {
	if err := e.auth.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	value = validate.CleanText(value)

	var title, description, contact *string
	switch field {
	case FieldTitle:
		if !validate.TitleOK(value) {
			return nil, ErrInvalidValue
		}
		title = &value
	case FieldDescription:
		if !validate.DescriptionOK(value) {
			return nil, ErrInvalidValue
		}
		description = &value
	case FieldContact:
		if !validate.ContactOK(value) {
			return nil, ErrInvalidValue
		}
		contact = &value
	default:
		return nil, ErrInvalidValue
	}

	ad, err := e.store.GetAd(ctx, adID)
	if err != nil {
		return nil, err
	}

	if err := e.store.UpdateAd(ctx, adID, title, description, contact); err != nil {
		return nil, err
	}

	switch field {
	case FieldTitle:
		ad.Title = value
	case FieldDescription:
		ad.Description = value
	case FieldContact:
		ad.Contact = value
	}

	e.notify(ctx, ad.UserID, messages.FormatAdEditedUser(field.Label(), value))
	return ad, nil
}

// Delete removes an ad permanently and notifies the owner. The confirmation
// step belongs to the transport, this executes unconditionally.
func (e *Engine) Delete(ctx context.Context, actorID, adID int64) (*database.Ad, error) {
	if err := e.auth.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	ad, err := e.store.GetAd(ctx, adID)
	if err != nil {
		return nil, err
	}

	if err := e.store.DeleteAd(ctx, adID); err != nil {
		return nil, err
	}

	e.notify(ctx, ad.UserID, messages.FormatAdDeletedUser(ad.Title))
	return ad, nil
}

// Promote grants admin rights. Superadmin only.
func (e *Engine) Promote(ctx context.Context, actorID, targetID int64) (*database.User, error) {
	if err := e.auth.RequireSuperadmin(ctx, actorID); err != nil {
		return nil, err
	}

	target, err := e.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role.IsAdmin() {
		return nil, ErrAlreadyAdmin
	}

	if err := e.store.UpdateUserRole(ctx, targetID, database.RoleAdmin); err != nil {
		return nil, err
	}
	target.Role = database.RoleAdmin

	e.notify(ctx, targetID, messages.MsgAdminGranted)
	return target, nil
}

// Demote revokes admin rights. Superadmin only, and the superadmin itself is
// never demotable.
func (e *Engine) Demote(ctx context.Context, actorID, targetID int64) (*database.User, error) {
	if err := e.auth.RequireSuperadmin(ctx, actorID); err != nil {
		return nil, err
	}

	target, err := e.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == database.RoleSuperadmin {
		return nil, ErrSuperadminImmutable
	}
	if target.Role != database.RoleAdmin {
		return nil, ErrNotAdmin
	}

	if err := e.store.UpdateUserRole(ctx, targetID, database.RoleUser); err != nil {
		return nil, err
	}
	target.Role = database.RoleUser

	e.notify(ctx, targetID, messages.MsgAdminRevoked)
	return target, nil
}

// notify is best-effort. A recipient who blocked the bot is expected and
// suppressed from error logs, anything else is logged for the operator.
func (e *Engine) notify(ctx context.Context, chatID int64, text string) {
	err := e.notifier.Send(ctx, chatID, text)
	if err == nil || broadcast.IsBlocked(err) {
		return
	}
	e.log.Error().Err(err).Int64("chat_id", chatID).Msg("notification failed")
}
