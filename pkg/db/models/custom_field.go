package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

// CustomField is an extra profile attribute. The number of fields per profile
// is bounded by the owner's resolved tier.
type CustomField struct {
	ID        uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID uuid.UUID             `gorm:"column:profile_id;type:uuid;not null;index"`
	Type      enums.CustomFieldType `gorm:"column:type;type:custom_field_type;not null"`
	Label     string                `gorm:"column:label;not null"`
	Value     string                `gorm:"column:value;not null"`
	IsPublic  bool                  `gorm:"column:is_public;not null;default:true"`
	Position  int                   `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
