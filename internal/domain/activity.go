package domain

import "time"

// Activity action tags. Admin edits are tagged with the acting admin's
// username, e.g. "updated_by_admin_root".
const (
	ActionRegistration = "registration"
	ActionLogin        = "login"
	ActionLogout       = "logout"
	ActionSelfUpdate   = "self_update"

	AdminUpdatePrefix = "updated_by_admin_"
)

// UserActivity is an append-only audit record. Rows are never mutated and are
// removed only by the cascade when the user itself is deleted.
type UserActivity struct {
	ID        string    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index;not null" json:"user_id"`
	Action    string    `gorm:"size:100;not null" json:"action"`
	IPAddress string    `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string    `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"timestamp"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserActivity) TableName() string { return "bookstore_user_activity" }
