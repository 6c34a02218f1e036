package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// KnifeLineItem is one knife itemized at the counter. Saving knives for a
// reservation replaces the whole set, so there is no per-row update path.
// Price is the per-knife amount quoted when the set was saved; invoices are
// still computed from the catalog, so the column is a record, not an input.
type KnifeLineItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReservationID string          `gorm:"column:reservation_id;not null;index:idx_knives_reservation"`
	Position      int             `gorm:"column:position;not null"`
	KnifeType     string          `gorm:"column:knife_type;not null"`
	Brand         *string         `gorm:"column:brand"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	Services      pq.StringArray  `gorm:"column:services;type:text[]"`
	Notes         *string         `gorm:"column:notes"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (KnifeLineItem) TableName() string {
	return "knives"
}

func (k *KnifeLineItem) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
