package database

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// IsAdmin is true for admin and superadmin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

type AdStatus string

const (
	StatusPending  AdStatus = "pending"
	StatusApproved AdStatus = "approved"
	StatusRejected AdStatus = "rejected"
)

type User struct {
	ID         int64
	TelegramID int64
	FullName   string
	Role       Role
	IsBlocked  bool
	CreatedAt  time.Time
}

// Ad is a job listing. UserID holds the owner's telegram id.
type Ad struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Category    string
	Contact     string
	Status      AdStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
	ApprovedBy  *int64
	ApprovedAt  *time.Time
}

type Setting struct {
	ID        int64
	Key       string
	Value     string
	UpdatedAt time.Time
}

type CategoryCount struct {
	Category string
	Count    int
}

type Statistics struct {
	TotalUsers        int
	TotalAds          int
	PendingAds        int
	ApprovedAds       int
	RejectedAds       int
	TodayAds          int
	TodayUsers        int
	PopularCategories []CategoryCount
}

type UserStats struct {
	TotalAds    int
	ApprovedAds int
	PendingAds  int
	RejectedAds int
}
