package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

// Order is a card purchase created by the payment webhook. PaymentIntentID is
// unique so replayed payment events cannot create a second order.
type Order struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string              `gorm:"column:order_number;not null"`
	PaymentIntentID string              `gorm:"column:payment_intent_id;not null;uniqueIndex"`
	CustomerEmail   string              `gorm:"column:customer_email;not null"`
	CustomerName    string              `gorm:"column:customer_name;not null"`
	CustomerPhone   string              `gorm:"column:customer_phone"`
	ShippingLine1   string              `gorm:"column:shipping_line1;not null"`
	ShippingLine2   string              `gorm:"column:shipping_line2"`
	ShippingCity    string              `gorm:"column:shipping_city;not null"`
	ShippingPostal  string              `gorm:"column:shipping_postal;not null"`
	ShippingCountry string              `gorm:"column:shipping_country;not null"`
	Tier            enums.Tier          `gorm:"column:tier;type:tier;not null"`
	Quantity        int                 `gorm:"column:quantity;not null"`
	TotalCents      int64               `gorm:"column:total_cents;not null"`
	Status          enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'paid'"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	UserID          *uuid.UUID          `gorm:"column:user_id;type:uuid;index"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
