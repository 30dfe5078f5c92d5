package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

// Card is a physical NFC/QR card. Codes are generated application-side;
// uniqueness is enforced by the unique indexes, not the generator.
type Card struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CardCode       string           `gorm:"column:card_code;not null;uniqueIndex"`
	ActivationCode string           `gorm:"column:activation_code;not null;uniqueIndex"`
	Tier           enums.Tier       `gorm:"column:tier;type:tier;not null"`
	Status         enums.CardStatus `gorm:"column:status;type:card_status;not null;default:'pending'"`
	OrderID        *uuid.UUID       `gorm:"column:order_id;type:uuid;index"`
	ProfileID      *uuid.UUID       `gorm:"column:profile_id;type:uuid;index"`
	ActivatedAt    *time.Time       `gorm:"column:activated_at"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
