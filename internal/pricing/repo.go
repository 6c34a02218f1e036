package pricing

import (
	"context"

	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines persistence operations for invoices. Invoicing and
// counter payments both write through the same upsert.
type Repository interface {
	UpsertInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an invoice repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// UpsertInvoice inserts or replaces the invoice for a reservation. The
// reservation_id unique index makes re-invoicing overwrite the frozen
// amounts instead of stacking rows.
func (r *repository) UpsertInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "reservation_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"subtotal", "total", "status", "payment_method", "payment_link", "details", "paid_at", "updated_at",
			}),
		}).
		Create(invoice).Error
	if err != nil {
		return nil, err
	}
	return invoice, nil
}
