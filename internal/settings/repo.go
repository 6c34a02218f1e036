package settings

import (
	"context"

	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines persistence for the single staff settings row.
type Repository interface {
	Load(ctx context.Context) (*models.StaffSettings, error)
	Save(ctx context.Context, row *models.StaffSettings) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Load(ctx context.Context) (*models.StaffSettings, error) {
	var row models.StaffSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", 1).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Save(ctx context.Context, row *models.StaffSettings) error {
	row.ID = 1
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "password_hash", "paypal_handle", "discounts", "updated_at",
			}),
		}).
		Create(row).Error
}
