package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chefknifeworks/crm-backend/pkg/enums"
	"github.com/chefknifeworks/crm-backend/pkg/types"
)

// Invoice freezes the price agreed at check-in. One invoice per reservation;
// re-invoicing replaces the previous row's amounts and breakdown.
type Invoice struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReservationID string               `gorm:"column:reservation_id;not null;uniqueIndex:idx_invoices_reservation"`
	Subtotal      decimal.Decimal      `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Total         decimal.Decimal      `gorm:"column:total;type:numeric(10,2);not null"`
	Status        enums.InvoiceStatus  `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod *enums.PaymentMethod `gorm:"column:payment_method"`
	PaymentLink   string               `gorm:"column:payment_link;not null"`
	Details       types.InvoiceDetails `gorm:"column:details;type:jsonb;serializer:json"`
	PaidAt        *time.Time           `gorm:"column:paid_at"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
