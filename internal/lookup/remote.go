package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
	"gorm.io/gorm"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// RemoteStore answers lookups from the primary database. A ping runs before
// the query so an unreachable database fails fast and hands over to the
// cache fallback.
type RemoteStore struct {
	db     *gorm.DB
	health pinger
}

// NewRemoteStore builds the database-backed lookup store.
func NewRemoteStore(db *gorm.DB, health pinger) (*RemoteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &RemoteStore{db: db, health: health}, nil
}

func (s *RemoteStore) Name() string {
	return "remote"
}

func (s *RemoteStore) Find(ctx context.Context, q Query) (*Snapshot, error) {
	if s.health != nil {
		if err := s.health.Ping(ctx); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable")
		}
	}

	query := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Joins("JOIN customers ON customers.id = reservations.customer_id").
		Preload("Customer").
		Order("reservations.created_at DESC")

	var conditions []string
	var args []any
	if q.ReservationID != "" {
		conditions = append(conditions, "upper(reservations.id) = ?")
		args = append(args, q.ReservationID)
	}
	if q.Phone != "" {
		conditions = append(conditions, "customers.phone = ?")
		args = append(args, q.Phone)
	}
	if q.Email != "" {
		conditions = append(conditions, "lower(customers.email) = ?")
		args = append(args, strings.ToLower(q.Email))
	}
	if len(conditions) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one search term required")
	}

	var row models.Reservation
	err := query.
		Where(strings.Join(conditions, " OR "), args...).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup reservation")
	}

	return snapshotFromModel(&row), nil
}

func snapshotFromModel(m *models.Reservation) *Snapshot {
	snap := &Snapshot{
		ReservationID: m.ID,
		Status:        m.Status.String(),
		KnifeQuantity: m.KnifeQuantity,
		DropOffDate:   m.DropOffDate,
		DropOffTime:   m.DropOffTime,
		CreatedAt:     m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if m.PickupDate != nil {
		snap.PickupDate = *m.PickupDate
	}
	if m.Customer != nil {
		snap.CustomerName = m.Customer.Name
		snap.Phone = m.Customer.Phone
		snap.Email = m.Customer.Email
	}
	return snap
}
