package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/chefknifeworks/crm-backend/pkg/enums"
)

// Reservation is one drop-off appointment. The ID is the short confirmation
// code handed to the customer, not a surrogate key. KnifeQuantity is the
// count the customer declared when booking and stays a free string ("Pending"
// until they decide); ActualQuantity is the verified count set at check-in.
type Reservation struct {
	ID             string                  `gorm:"column:id;primaryKey"`
	CustomerID     uuid.UUID               `gorm:"column:customer_id;type:uuid;not null"`
	Status         enums.ReservationStatus `gorm:"column:status;not null;default:'booked'"`
	KnifeQuantity  string                  `gorm:"column:knife_quantity;not null;default:'Pending'"`
	ActualQuantity *int                    `gorm:"column:actual_quantity"`
	DropOffDate    string                  `gorm:"column:drop_off_date;not null"`
	DropOffTime    string                  `gorm:"column:drop_off_time;not null"`
	PickupDate     *string                 `gorm:"column:pickup_date"`
	Notes          *string                 `gorm:"column:notes"`
	Photos         pq.StringArray          `gorm:"column:photos;type:text[]"`
	CheckInTime    *time.Time              `gorm:"column:check_in_time"`
	Customer       *Customer               `gorm:"foreignKey:CustomerID"`
	Knives         []KnifeLineItem         `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
	Invoice        *Invoice                `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
	Communications []Communication         `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (Reservation) TableName() string {
	return "reservations"
}
