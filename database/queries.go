package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, telegram_id, full_name, role, is_blocked, created_at`

const adColumns = `id, user_id, title, description, category, contact, status,
	created_at, expires_at, approved_by, approved_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.TelegramID, &u.FullName, &u.Role, &u.IsBlocked, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanAd(row pgx.Row) (*Ad, error) {
	var a Ad
	err := row.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Category, &a.Contact,
		&a.Status, &a.CreatedAt, &a.ExpiresAt, &a.ApprovedBy, &a.ApprovedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAds(rows pgx.Rows) ([]Ad, error) {
	defer rows.Close()

	var ads []Ad
	for rows.Next() {
		var a Ad
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Category, &a.Contact,
			&a.Status, &a.CreatedAt, &a.ExpiresAt, &a.ApprovedBy, &a.ApprovedAt); err != nil {
			return nil, err
		}
		ads = append(ads, a)
	}
	return ads, rows.Err()
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.FullName, &u.Role, &u.IsBlocked, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ============================================
// Users
// ============================================

func (db *DB) CreateUser(ctx context.Context, telegramID int64, fullName string, role Role) (*User, error) {
	query := `
		INSERT INTO users (telegram_id, full_name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING ` + userColumns

	return scanUser(db.Pool.QueryRow(ctx, query, telegramID, fullName, role))
}

// GetUser looks a user up by telegram id.
func (db *DB) GetUser(ctx context.Context, telegramID int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, telegramID))
}

// GetUserByID looks a user up by primary key.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, id))
}

func (db *DB) UpdateUserRole(ctx context.Context, telegramID int64, role Role) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE users SET role = $1 WHERE telegram_id = $2`, role, telegramID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetAdmins(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role IN ('admin', 'superadmin') ORDER BY created_at`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (db *DB) GetAllUsers(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (db *DB) BlockUser(ctx context.Context, telegramID int64) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE users SET is_blocked = TRUE WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================
// Ads
// ============================================

func (db *DB) CreateAd(ctx context.Context, userID int64, title, description, category, contact string, expiresAt time.Time) (*Ad, error) {
	query := `
		INSERT INTO ads (user_id, title, description, category, contact, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6)
		RETURNING ` + adColumns

	return scanAd(db.Pool.QueryRow(ctx, query, userID, title, description, category, contact, expiresAt))
}

func (db *DB) GetAd(ctx context.Context, id int64) (*Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE id = $1`
	return scanAd(db.Pool.QueryRow(ctx, query, id))
}

// UpdateAdStatus moves an ad to the given status. When approving, the
// approver id and timestamp are recorded in the same statement.
func (db *DB) UpdateAdStatus(ctx context.Context, id int64, status AdStatus, approvedBy *int64) error {
	query := `
		UPDATE ads SET
			status = $2,
			approved_by = CASE WHEN $2 = 'approved' THEN $3 ELSE approved_by END,
			approved_at = CASE WHEN $2 = 'approved' THEN NOW() ELSE approved_at END
		WHERE id = $1`

	tag, err := db.Pool.Exec(ctx, query, id, status, approvedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAd overwrites the non-nil fields in place. Status is untouched.
func (db *DB) UpdateAd(ctx context.Context, id int64, title, description, contact *string) error {
	query := `
		UPDATE ads SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			contact = COALESCE($4, contact)
		WHERE id = $1`

	tag, err := db.Pool.Exec(ctx, query, id, title, description, contact)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteAd(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetUserAds(ctx context.Context, telegramID int64) ([]Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := db.Pool.Query(ctx, query, telegramID)
	if err != nil {
		return nil, err
	}
	return collectAds(rows)
}

// CountUserAdsToday counts the user's ads created on the current UTC calendar
// day. Authoritative for the daily quota, survives restarts.
func (db *DB) CountUserAdsToday(ctx context.Context, telegramID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM ads
		WHERE user_id = $1
		  AND (created_at AT TIME ZONE 'utc')::date = (NOW() AT TIME ZONE 'utc')::date`

	var count int
	err := db.Pool.QueryRow(ctx, query, telegramID).Scan(&count)
	return count, err
}

func (db *DB) GetAdsByStatus(ctx context.Context, status AdStatus, limit int) ([]Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE status = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := db.Pool.Query(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	return collectAds(rows)
}

func (db *DB) GetAllAds(ctx context.Context, limit int) ([]Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads ORDER BY created_at DESC LIMIT $1`
	rows, err := db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectAds(rows)
}

// SearchAds matches the query against title and description. Category is
// optional, empty means any.
func (db *DB) SearchAds(ctx context.Context, text, category string, status AdStatus) ([]Ad, error) {
	query := `
		SELECT ` + adColumns + ` FROM ads
		WHERE status = $1
		  AND (title ILIKE $2 OR description ILIKE $2)
		  AND ($3 = '' OR category = $3)
		ORDER BY created_at DESC`

	rows, err := db.Pool.Query(ctx, query, status, "%"+text+"%", category)
	if err != nil {
		return nil, err
	}
	return collectAds(rows)
}

func (db *DB) GetAdsByCategory(ctx context.Context, category string, status AdStatus) ([]Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE category = $1 AND status = $2 ORDER BY created_at DESC`
	rows, err := db.Pool.Query(ctx, query, category, status)
	if err != nil {
		return nil, err
	}
	return collectAds(rows)
}

func (db *DB) GetRecentAds(ctx context.Context, days int, status AdStatus) ([]Ad, error) {
	query := `
		SELECT ` + adColumns + ` FROM ads
		WHERE status = $1 AND created_at >= NOW() - $2 * INTERVAL '1 day'
		ORDER BY created_at DESC`

	rows, err := db.Pool.Query(ctx, query, status, days)
	if err != nil {
		return nil, err
	}
	return collectAds(rows)
}

// CleanupExpiredAds deletes every ad past its expiry, status-independent.
// Returns the number of deleted rows.
func (db *DB) CleanupExpiredAds(ctx context.Context) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM ads WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ============================================
// Statistics
// ============================================

func (db *DB) GetStatistics(ctx context.Context) (*Statistics, error) {
	var s Statistics

	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM ads),
			(SELECT COUNT(*) FROM ads WHERE status = 'pending'),
			(SELECT COUNT(*) FROM ads WHERE status = 'approved'),
			(SELECT COUNT(*) FROM ads WHERE status = 'rejected'),
			(SELECT COUNT(*) FROM ads
				WHERE (created_at AT TIME ZONE 'utc')::date = (NOW() AT TIME ZONE 'utc')::date),
			(SELECT COUNT(*) FROM users
				WHERE (created_at AT TIME ZONE 'utc')::date = (NOW() AT TIME ZONE 'utc')::date)`

	err := db.Pool.QueryRow(ctx, query).Scan(
		&s.TotalUsers, &s.TotalAds, &s.PendingAds, &s.ApprovedAds, &s.RejectedAds,
		&s.TodayAds, &s.TodayUsers,
	)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT category, COUNT(*) AS count FROM ads
		WHERE status = 'approved'
		GROUP BY category
		ORDER BY count DESC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		s.PopularCategories = append(s.PopularCategories, c)
	}
	return &s, rows.Err()
}

func (db *DB) GetUserStats(ctx context.Context, telegramID int64) (*UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		FROM ads WHERE user_id = $1`

	var s UserStats
	err := db.Pool.QueryRow(ctx, query, telegramID).Scan(
		&s.TotalAds, &s.ApprovedAds, &s.PendingAds, &s.RejectedAds,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ============================================
// Settings
// ============================================

func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.Pool.QueryRow(ctx, `SELECT value FROM bot_settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting creates or overwrites the setting by key.
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO bot_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	_, err := db.Pool.Exec(ctx, query, key, value)
	return err
}
