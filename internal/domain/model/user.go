package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// UserStatus represents a user's presence status.
type UserStatus string

const (
	UserStatusOnline    UserStatus = "online"
	UserStatusOffline   UserStatus = "offline"
	UserStatusAway      UserStatus = "away"
	UserStatusInMeeting UserStatus = "in_meeting"
)

// Scan implements sql.Scanner interface
func (s *UserStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = UserStatus(v)
	case []byte:
		*s = UserStatus(v)
	default:
		*s = UserStatusOffline
	}
	return nil
}

// Value implements driver.Valuer interface
func (s UserStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// User is an identity keyed by phone number. Users are created on first
// successful OTP verification and never hard-deleted.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Phone     string     `gorm:"not null;uniqueIndex;size:20" json:"phone"`
	Name      string     `gorm:"size:100" json:"name"`
	Email     string     `gorm:"size:255;index" json:"email"`
	AvatarURL string     `gorm:"size:512" json:"avatar_url,omitempty"`
	Status    UserStatus `gorm:"type:varchar(20);not null;default:'offline'" json:"status"`
	CreatedAt time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// Session is an opaque bearer token bound to a user with an absolute expiry.
// At most one session is active per user; old rows are purged on sign-in.
type Session struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"not null;uniqueIndex;size:64" json:"token"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Session) TableName() string {
	return "sessions"
}

// IsExpired reports whether the session has passed its absolute expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// OTP is a one-time phone verification code. At most one live code exists
// per phone; requesting a new one replaces the prior row.
type OTP struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone     string    `gorm:"not null;index;size:20" json:"phone"`
	Code      string    `gorm:"not null;size:10" json:"code"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (OTP) TableName() string {
	return "otps"
}

// IsExpired reports whether the code has passed its expiry.
func (o *OTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
