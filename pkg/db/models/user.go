package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the account identity. Authentication itself is handled by
// the passwordless flow; the password hash only exists so accounts created
// during card activation are not left open.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Onboarded    bool       `gorm:"column:onboarded;not null;default:false"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
