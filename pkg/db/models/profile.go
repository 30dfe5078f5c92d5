package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Profile is the public digital business card for a user.
type Profile struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Username    string          `gorm:"column:username;not null;uniqueIndex"`
	Email       string          `gorm:"column:email;not null"`
	FullName    string          `gorm:"column:full_name"`
	Company     string          `gorm:"column:company"`
	JobTitle    string          `gorm:"column:job_title"`
	Phone       string          `gorm:"column:phone"`
	Bio         string          `gorm:"column:bio"`
	AvatarURL   string          `gorm:"column:avatar_url"`
	VideoURL    string          `gorm:"column:video_url"`
	SocialLinks json.RawMessage `gorm:"column:social_links;type:jsonb"`
	ViewCount   int64           `gorm:"column:view_count;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
