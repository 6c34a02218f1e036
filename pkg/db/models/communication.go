package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chefknifeworks/crm-backend/pkg/enums"
)

// Communication is an append-only log entry of contact with the customer.
// Entries are never edited or removed, including duplicates.
type Communication struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReservationID string              `gorm:"column:reservation_id;not null;index:idx_comms_reservation"`
	Channel       enums.CommChannel   `gorm:"column:channel;not null"`
	Direction     enums.CommDirection `gorm:"column:direction;not null;default:'outbound'"`
	Summary       string              `gorm:"column:summary;not null"`
	Content       *string             `gorm:"column:content"`
	SentBy        *string             `gorm:"column:sent_by"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Communication) TableName() string {
	return "communications"
}

func (c *Communication) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
