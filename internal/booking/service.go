package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/chefknifeworks/crm-backend/internal/reservations"
	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
)

// Attempts to find an unused confirmation code before giving up. Collisions
// are rare at this shop's volume, so a small cap is plenty.
const maxIDAttempts = 5

// PendingQuantity is the placeholder a customer can book with before they
// know how many knives they are bringing.
const PendingQuantity = "Pending"

// Input is the public booking form payload.
type Input struct {
	ReservationID string
	Name          string
	Phone         string
	Email         string
	KnifeQuantity string
	DropOffDate   string
	DropOffTime   string
	PickupDate    *string
	Notes         *string
}

// Result is what the booking form shows the customer after confirming.
type Result struct {
	ReservationID string                  `json:"reservation_id"`
	Status        enums.ReservationStatus `json:"status"`
	DropOffDate   string                  `json:"drop_off_date"`
	DropOffTime   string                  `json:"drop_off_time"`
}

// Service creates reservations from the public booking form.
type Service interface {
	Book(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	repo      reservations.Repository
	snapshots reservations.SnapshotWriter
	detailer  detailLoader
}

type detailLoader interface {
	Detail(ctx context.Context, id string) (*reservations.Detail, error)
}

// NewService builds the booking service. The snapshot writer and detail
// loader are optional; without them new bookings are not mirrored to cache.
func NewService(repo reservations.Repository, detailer detailLoader, snapshots reservations.SnapshotWriter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	return &service{
		repo:      repo,
		snapshots: snapshots,
		detailer:  detailer,
	}, nil
}

// Book reuses or creates the customer keyed by email, then creates the
// reservation under a confirmation code. The two writes are sequential and
// not atomic: a failure after the customer insert leaves the customer row
// behind, which is acceptable here.
func (s *service) Book(ctx context.Context, input Input) (*Result, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	customer, err := s.findOrCreateCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	id, err := s.resolveReservationID(ctx, input.ReservationID)
	if err != nil {
		return nil, err
	}

	quantity := strings.TrimSpace(input.KnifeQuantity)
	if quantity == "" {
		quantity = PendingQuantity
	}

	reservation := &models.Reservation{
		ID:            id,
		CustomerID:    customer.ID,
		Status:        enums.ReservationStatusBooked,
		KnifeQuantity: quantity,
		DropOffDate:   input.DropOffDate,
		DropOffTime:   input.DropOffTime,
		PickupDate:    input.PickupDate,
		Notes:         input.Notes,
	}
	created, err := s.repo.CreateReservation(ctx, reservation)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
	}

	if s.snapshots != nil && s.detailer != nil {
		if detail, derr := s.detailer.Detail(ctx, created.ID); derr == nil {
			s.snapshots.WriteReservation(ctx, detail)
		}
	}

	return &Result{
		ReservationID: created.ID,
		Status:        created.Status,
		DropOffDate:   created.DropOffDate,
		DropOffTime:   created.DropOffTime,
	}, nil
}

// findOrCreateCustomer looks the customer up by email and reuses the stored
// row as-is. A repeat customer booking with a new phone number keeps the old
// one on file; only a first booking writes name and phone.
func (s *service) findOrCreateCustomer(ctx context.Context, input Input) (*models.Customer, error) {
	existing, err := s.repo.FindCustomerByEmail(ctx, input.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer")
	}

	customer := &models.Customer{
		Name:  strings.TrimSpace(input.Name),
		Phone: strings.TrimSpace(input.Phone),
		Email: strings.TrimSpace(input.Email),
	}
	created, cerr := s.repo.CreateCustomer(ctx, customer)
	if cerr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, cerr, "create customer")
	}
	return created, nil
}

// resolveReservationID honors a client-supplied confirmation code when it is
// well formed and unclaimed, and generates one otherwise.
func (s *service) resolveReservationID(ctx context.Context, supplied string) (string, error) {
	supplied = strings.ToUpper(strings.TrimSpace(supplied))
	if supplied != "" {
		if !IsValidReservationID(supplied) {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "malformed reservation id").
				WithDetails(map[string]any{"reservation_id": supplied})
		}
		exists, err := s.repo.ReservationExists(ctx, supplied)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check reservation id")
		}
		if exists {
			return "", pkgerrors.New(pkgerrors.CodeConflict, "reservation id already in use").
				WithDetails(map[string]any{"reservation_id": supplied})
		}
		return supplied, nil
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := GenerateReservationID()
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reservation id")
		}
		exists, err := s.repo.ReservationExists(ctx, id)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check reservation id")
		}
		if !exists {
			return id, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not allocate reservation id")
}

func validateInput(input Input) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(input.Phone) == "" {
		details["phone"] = "is required"
	}
	if strings.TrimSpace(input.Email) == "" {
		details["email"] = "is required"
	}
	if !validQuantity(input.KnifeQuantity) {
		details["knife_quantity"] = "must be a positive integer or Pending"
	}
	if strings.TrimSpace(input.DropOffDate) == "" {
		details["drop_off_date"] = "is required"
	}
	if strings.TrimSpace(input.DropOffTime) == "" {
		details["drop_off_time"] = "is required"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func validQuantity(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, PendingQuantity) {
		return true
	}
	n, err := strconv.Atoi(raw)
	return err == nil && n >= 1
}
