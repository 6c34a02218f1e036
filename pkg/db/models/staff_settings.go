package models

import (
	"time"

	"github.com/chefknifeworks/crm-backend/pkg/types"
)

// StaffSettings is the single settings row for the shop: login credentials,
// the PayPal handle used in payment links, and the active custom discounts.
// Until the row exists, login falls back to the bootstrap pair from config.
type StaffSettings struct {
	ID           int                `gorm:"column:id;primaryKey;default:1"`
	Username     string             `gorm:"column:username;not null"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	PayPalHandle string             `gorm:"column:paypal_handle;not null"`
	Discounts    types.DiscountList `gorm:"column:discounts;type:jsonb;serializer:json"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (StaffSettings) TableName() string {
	return "staff_settings"
}
