package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
)

type stubRepo struct {
	reservation *models.Reservation
	knives      []models.KnifeLineItem
	lastUpdates map[string]any
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	return customer, nil
}

func (s *stubRepo) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) CreateReservation(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	s.reservation = reservation
	return reservation, nil
}

func (s *stubRepo) FindReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	if s.reservation == nil || s.reservation.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	row := *s.reservation
	row.Knives = s.knives
	return &row, nil
}

func (s *stubRepo) ReservationExists(ctx context.Context, id string) (bool, error) {
	return s.reservation != nil && s.reservation.ID == id, nil
}

func (s *stubRepo) ListReservations(ctx context.Context, filters ListFilters) ([]models.Reservation, error) {
	if s.reservation == nil {
		return nil, nil
	}
	return []models.Reservation{*s.reservation}, nil
}

func (s *stubRepo) UpdateReservation(ctx context.Context, id string, updates map[string]any) error {
	s.lastUpdates = updates
	if status, ok := updates["status"].(string); ok {
		s.reservation.Status = enums.ReservationStatus(status)
	}
	if qty, ok := updates["knife_quantity"].(string); ok {
		s.reservation.KnifeQuantity = qty
	}
	if actual, ok := updates["actual_quantity"].(int); ok {
		s.reservation.ActualQuantity = &actual
	}
	if photos, ok := updates["photos"].(pq.StringArray); ok {
		s.reservation.Photos = photos
	}
	if at, ok := updates["check_in_time"].(time.Time); ok {
		s.reservation.CheckInTime = &at
	}
	if pickup, ok := updates["pickup_date"].(string); ok {
		s.reservation.PickupDate = &pickup
	}
	return nil
}

func (s *stubRepo) ReplaceKnives(ctx context.Context, reservationID string, knives []models.KnifeLineItem) error {
	s.knives = knives
	return nil
}

func (s *stubRepo) FindKnivesByReservation(ctx context.Context, reservationID string) ([]models.KnifeLineItem, error) {
	return s.knives, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingSnapshots struct {
	writes []*Detail
}

func (r *recordingSnapshots) WriteReservation(ctx context.Context, detail *Detail) {
	r.writes = append(r.writes, detail)
}

func newTestService(t *testing.T, repo *stubRepo) (Service, *recordingSnapshots) {
	t.Helper()
	snaps := &recordingSnapshots{}
	svc, err := NewService(repo, stubTx{}, snaps)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, snaps
}

func bookedReservation(id string) *models.Reservation {
	return &models.Reservation{
		ID:            id,
		Status:        enums.ReservationStatusBooked,
		KnifeQuantity: "3",
		DropOffDate:   "2026-09-01",
		DropOffTime:   "10:00",
		Customer: &models.Customer{
			Name:  "Dana",
			Phone: "555-0101",
			Email: "dana@example.com",
		},
	}
}

func TestCheckInForcesReceivedAndOverwritesQuantity(t *testing.T) {
	repo := &stubRepo{reservation: bookedReservation("AB12CD")}
	svc, snaps := newTestService(t, repo)

	// Booked for 3, but 5 knives actually showed up.
	at := time.Date(2026, 9, 1, 10, 12, 0, 0, time.UTC)
	detail, err := svc.CheckIn(context.Background(), CheckInInput{
		ReservationID:  "AB12CD",
		ActualQuantity: 5,
		Photos:         []string{"photos/ab12cd-1.jpg", "photos/ab12cd-2.jpg"},
		CheckInTime:    at,
	})
	if err != nil {
		t.Fatalf("check in: %v", err)
	}

	if detail.Status != enums.ReservationStatusReceived {
		t.Fatalf("status = %s, want received", detail.Status)
	}
	if detail.KnifeQuantity != "5" {
		t.Fatalf("knife quantity = %q, want \"5\"", detail.KnifeQuantity)
	}
	if detail.ActualQuantity == nil || *detail.ActualQuantity != 5 {
		t.Fatalf("actual quantity = %v, want 5", detail.ActualQuantity)
	}
	if len(detail.Photos) != 2 {
		t.Fatalf("photo count = %d, want 2", len(detail.Photos))
	}
	if detail.CheckInTime == nil || !detail.CheckInTime.Equal(at) {
		t.Fatalf("check-in time = %v, want %v", detail.CheckInTime, at)
	}
	if len(snaps.writes) != 1 {
		t.Fatalf("expected 1 snapshot write, got %d", len(snaps.writes))
	}
}

func TestCheckInTwiceLastWriteWins(t *testing.T) {
	repo := &stubRepo{reservation: bookedReservation("AB12CD")}
	svc, _ := newTestService(t, repo)

	if _, err := svc.CheckIn(context.Background(), CheckInInput{
		ReservationID:  "AB12CD",
		ActualQuantity: 4,
	}); err != nil {
		t.Fatalf("first check in: %v", err)
	}

	detail, err := svc.CheckIn(context.Background(), CheckInInput{
		ReservationID:  "AB12CD",
		ActualQuantity: 6,
	})
	if err != nil {
		t.Fatalf("second check in: %v", err)
	}
	if detail.ActualQuantity == nil || *detail.ActualQuantity != 6 {
		t.Fatalf("actual quantity = %v, want 6", detail.ActualQuantity)
	}
	if detail.KnifeQuantity != "6" {
		t.Fatalf("knife quantity = %q, want \"6\"", detail.KnifeQuantity)
	}
}

func TestCheckInRequiresPositiveQuantity(t *testing.T) {
	repo := &stubRepo{reservation: bookedReservation("AB12CD")}
	svc, _ := newTestService(t, repo)

	_, err := svc.CheckIn(context.Background(), CheckInInput{ReservationID: "AB12CD"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckInUnknownReservation(t *testing.T) {
	repo := &stubRepo{}
	svc, _ := newTestService(t, repo)

	_, err := svc.CheckIn(context.Background(), CheckInInput{
		ReservationID:  "ZZZZZZ",
		ActualQuantity: 2,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateStatusAcceptsAnyKnownStatus(t *testing.T) {
	repo := &stubRepo{reservation: bookedReservation("AB12CD")}
	svc, snaps := newTestService(t, repo)

	// Jump straight from booked to ready. No step ordering is enforced here.
	pickup := "2026-09-05"
	detail, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		ReservationID: "AB12CD",
		Status:        enums.ReservationStatusReady,
		PickupDate:    &pickup,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}

	if detail.Status != enums.ReservationStatusReady {
		t.Fatalf("status = %s, want ready", detail.Status)
	}
	if detail.PickupDate == nil || *detail.PickupDate != pickup {
		t.Fatalf("pickup date = %v, want %s", detail.PickupDate, pickup)
	}
	if len(snaps.writes) != 1 {
		t.Fatalf("expected 1 snapshot write, got %d", len(snaps.writes))
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := &stubRepo{reservation: bookedReservation("AB12CD")}
	svc, _ := newTestService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		ReservationID: "AB12CD",
		Status:        enums.ReservationStatus("teleported"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSaveKnivesLeavesStatusAndQuantityAlone(t *testing.T) {
	res := bookedReservation("AB12CD")
	res.Status = enums.ReservationStatusSharpening
	repo := &stubRepo{reservation: res}
	svc, _ := newTestService(t, repo)

	detail, err := svc.SaveKnives(context.Background(), "AB12CD", []KnifeInput{
		{KnifeType: "japanese"},
	})
	if err != nil {
		t.Fatalf("save knives: %v", err)
	}

	if detail.Status != enums.ReservationStatusSharpening {
		t.Fatalf("status = %s, want sharpening", detail.Status)
	}
	if detail.KnifeQuantity != "3" {
		t.Fatalf("knife quantity = %q, want \"3\" (unchanged)", detail.KnifeQuantity)
	}
	if len(detail.Knives) != 1 {
		t.Fatalf("knife count = %d, want 1", len(detail.Knives))
	}
	if detail.Knives[0].Position != 1 {
		t.Fatalf("knife position = %d, want 1", detail.Knives[0].Position)
	}
}
