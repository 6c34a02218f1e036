package comms

import (
	"context"

	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence for the communications log.
type Repository interface {
	Create(ctx context.Context, entry *models.Communication) (*models.Communication, error)
	ListByReservation(ctx context.Context, reservationID string) ([]models.Communication, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a communications repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *models.Communication) (*models.Communication, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) ListByReservation(ctx context.Context, reservationID string) ([]models.Communication, error) {
	var entries []models.Communication
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
