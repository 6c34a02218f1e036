package reservations

import (
	"context"

	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for customers, reservations,
// and the knife line items recorded against them.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	CreateReservation(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error)
	FindReservationByID(ctx context.Context, id string) (*models.Reservation, error)
	ReservationExists(ctx context.Context, id string) (bool, error)
	ListReservations(ctx context.Context, filters ListFilters) ([]models.Reservation, error)
	UpdateReservation(ctx context.Context, id string, updates map[string]any) error
	ReplaceKnives(ctx context.Context, reservationID string, knives []models.KnifeLineItem) error
	FindKnivesByReservation(ctx context.Context, reservationID string) ([]models.KnifeLineItem, error)
}

// ListFilters narrows the reservation list endpoint.
type ListFilters struct {
	Status      *enums.ReservationStatus
	DropOffDate string
	Search      string
}
