package reservations

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SnapshotWriter mirrors reservation state into the snapshot cache after
// writes. Implementations are best-effort: a cache failure never fails the
// underlying database write.
type SnapshotWriter interface {
	WriteReservation(ctx context.Context, detail *Detail)
}

// Service defines the reservation lifecycle operations.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]Summary, error)
	Detail(ctx context.Context, id string) (*Detail, error)
	UpdateStatus(ctx context.Context, input StatusUpdateInput) (*Detail, error)
	CheckIn(ctx context.Context, input CheckInInput) (*Detail, error)
	SaveKnives(ctx context.Context, reservationID string, knives []KnifeInput) (*Detail, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	snapshots SnapshotWriter
}

// NewService builds a reservation service with the required dependencies.
// The snapshot writer is optional.
func NewService(repo Repository, tx txRunner, snapshots SnapshotWriter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		snapshots: snapshots,
	}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]Summary, error) {
	rows, err := s.repo.ListReservations(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, summaryFromModel(row))
	}
	return out, nil
}

func (s *service) Detail(ctx context.Context, id string) (*Detail, error) {
	row, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateStatus writes the requested status directly. The status must be in
// the known set, but no transition order is enforced: the last write wins,
// matching how staff actually run the counter.
func (s *service) UpdateStatus(ctx context.Context, input StatusUpdateInput) (*Detail, error) {
	if input.ReservationID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown reservation status").
			WithDetails(map[string]any{"status": input.Status.String()})
	}

	exists, err := s.repo.ReservationExists(ctx, input.ReservationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}

	updates := map[string]any{"status": input.Status.String()}
	if input.PickupDate != nil {
		updates["pickup_date"] = *input.PickupDate
	}
	if err := s.repo.UpdateReservation(ctx, input.ReservationID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reservation status")
	}

	return s.reloadAndSnapshot(ctx, input.ReservationID)
}

// CheckIn records the physical hand-off at the counter. The status is forced
// to received regardless of what it was, the declared quantity string is
// overwritten with the verified count, and re-check-in simply overwrites the
// previous one.
func (s *service) CheckIn(ctx context.Context, input CheckInInput) (*Detail, error) {
	if input.ReservationID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}
	if input.ActualQuantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actual quantity must be a positive integer").
			WithDetails(map[string]any{"actual_quantity": input.ActualQuantity})
	}

	exists, err := s.repo.ReservationExists(ctx, input.ReservationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}

	checkInTime := input.CheckInTime
	if checkInTime.IsZero() {
		checkInTime = time.Now().UTC()
	}

	updates := map[string]any{
		"status":          "received",
		"actual_quantity": input.ActualQuantity,
		"knife_quantity":  strconv.Itoa(input.ActualQuantity),
		"photos":          pq.StringArray(input.Photos),
		"check_in_time":   checkInTime,
	}
	if err := s.repo.UpdateReservation(ctx, input.ReservationID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reservation")
	}

	return s.reloadAndSnapshot(ctx, input.ReservationID)
}

// SaveKnives replaces the knife list without touching status or quantities.
// Used when staff itemize an order at the counter. The delete and reinsert
// run in one transaction so a failure cannot drop the whole set.
func (s *service) SaveKnives(ctx context.Context, reservationID string, knives []KnifeInput) (*Detail, error) {
	if reservationID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.ReservationExists(ctx, reservationID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}

		if err := repo.ReplaceKnives(ctx, reservationID, knifeModels(reservationID, knives)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace knives")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reloadAndSnapshot(ctx, reservationID)
}

func (s *service) loadDetail(ctx context.Context, id string) (*Detail, error) {
	row, err := s.repo.FindReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	return DetailFromModel(row), nil
}

func (s *service) reloadAndSnapshot(ctx context.Context, id string) (*Detail, error) {
	detail, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.snapshots != nil {
		s.snapshots.WriteReservation(ctx, detail)
	}
	return detail, nil
}

func knifeModels(reservationID string, inputs []KnifeInput) []models.KnifeLineItem {
	out := make([]models.KnifeLineItem, 0, len(inputs))
	for i, in := range inputs {
		out = append(out, models.KnifeLineItem{
			ReservationID: reservationID,
			Position:      i + 1,
			KnifeType:     in.KnifeType,
			Brand:         in.Brand,
			Price:         in.Price,
			Services:      append([]string(nil), in.Services...),
			Notes:         in.Notes,
		})
	}
	return out
}
