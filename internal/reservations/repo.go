package reservations

import (
	"context"
	"strings"

	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reservations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *repository) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) CreateReservation(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	if err := r.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

func (r *repository) FindReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Knives", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Invoice").
		Preload("Communications", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) ReservationExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListReservations(ctx context.Context, filters ListFilters) ([]models.Reservation, error) {
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Invoice").
		Order("created_at DESC")

	if filters.Status != nil {
		query = query.Where("status = ?", filters.Status.String())
	}
	if filters.DropOffDate != "" {
		query = query.Where("drop_off_date = ?", filters.DropOffDate)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.
			Joins("JOIN customers ON customers.id = reservations.customer_id").
			Where("lower(customers.name) LIKE ? OR lower(customers.email) LIKE ? OR customers.phone LIKE ? OR lower(reservations.id) LIKE ?",
				pattern, pattern, "%"+search+"%", pattern)
	}

	var out []models.Reservation
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) UpdateReservation(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ReplaceKnives swaps the full knife set for a reservation. There is no
// per-row edit: the client always sends the whole list.
func (r *repository) ReplaceKnives(ctx context.Context, reservationID string, knives []models.KnifeLineItem) error {
	if err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.KnifeLineItem{}).Error; err != nil {
		return err
	}
	if len(knives) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&knives).Error
}

func (r *repository) FindKnivesByReservation(ctx context.Context, reservationID string) ([]models.KnifeLineItem, error) {
	var knives []models.KnifeLineItem
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("position ASC").
		Find(&knives).Error
	if err != nil {
		return nil, err
	}
	return knives, nil
}
