package roles

import (
	"context"
	"errors"

	"fargona_jobs_bot/database"
)

// ErrForbidden is returned when a privileged operation is attempted by an
// insufficient role. The operation must be a no-op in that case.
var ErrForbidden = errors.New("forbidden")

type Store interface {
	GetUser(ctx context.Context, telegramID int64) (*database.User, error)
}

// Authority resolves a telegram id to a permission tier. A missing user
// record is the lowest tier. The single place role strings are interpreted.
type Authority struct {
	store Store
}

func NewAuthority(store Store) *Authority {
	return &Authority{store: store}
}

// Resolve returns the user's current role, RoleUser for unknown ids.
func (a *Authority) Resolve(ctx context.Context, telegramID int64) (database.Role, error) {
	user, err := a.store.GetUser(ctx, telegramID)
	if errors.Is(err, database.ErrNotFound) {
		return database.RoleUser, nil
	}
	if err != nil {
		return database.RoleUser, err
	}
	return user.Role, nil
}

func (a *Authority) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	role, err := a.Resolve(ctx, telegramID)
	if err != nil {
		return false, err
	}
	return role.IsAdmin(), nil
}

func (a *Authority) IsSuperadmin(ctx context.Context, telegramID int64) (bool, error) {
	role, err := a.Resolve(ctx, telegramID)
	if err != nil {
		return false, err
	}
	return role == database.RoleSuperadmin, nil
}

// RequireAdmin returns ErrForbidden unless the user is admin or superadmin.
func (a *Authority) RequireAdmin(ctx context.Context, telegramID int64) error {
	ok, err := a.IsAdmin(ctx, telegramID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// RequireSuperadmin returns ErrForbidden unless the user is the superadmin.
func (a *Authority) RequireSuperadmin(ctx context.Context, telegramID int64) error {
	ok, err := a.IsSuperadmin(ctx, telegramID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
