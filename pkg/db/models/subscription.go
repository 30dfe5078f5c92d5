package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

// Subscription is the billing record deciding which tier a user resolves to.
// Any status other than active resolves to free-tier defaults.
type Subscription struct {
	ID                 uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	Tier               enums.SubscriptionTier   `gorm:"column:tier;type:subscription_tier;not null;default:'free'"`
	Status             enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'"`
	CurrentPeriodStart time.Time                `gorm:"column:current_period_start;not null"`
	CurrentPeriodEnd   time.Time                `gorm:"column:current_period_end;not null"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
