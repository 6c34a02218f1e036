package reservations

import (
	"context"
	"fmt"
	"testing"

	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReservationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One shared-cache memory DB per test, so pooled connections see the
	// same tables without tests seeing each other's rows.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	reservations := `
CREATE TABLE IF NOT EXISTS reservations (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'booked',
  knife_quantity TEXT NOT NULL DEFAULT 'Pending',
  actual_quantity INTEGER,
  drop_off_date TEXT NOT NULL,
  drop_off_time TEXT NOT NULL,
  pickup_date TEXT,
  notes TEXT,
  photos TEXT,
  check_in_time DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	knives := `
CREATE TABLE IF NOT EXISTS knives (
  id TEXT PRIMARY KEY,
  reservation_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  knife_type TEXT NOT NULL,
  brand TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  services TEXT,
  notes TEXT,
  created_at DATETIME
);`
	invoices := `
CREATE TABLE IF NOT EXISTS invoices (
  id TEXT PRIMARY KEY,
  reservation_id TEXT NOT NULL UNIQUE,
  subtotal NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL,
  payment_method TEXT,
  payment_link TEXT,
  details TEXT,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	communications := `
CREATE TABLE IF NOT EXISTS communications (
  id TEXT PRIMARY KEY,
  reservation_id TEXT NOT NULL,
  channel TEXT NOT NULL,
  direction TEXT NOT NULL DEFAULT 'outbound',
  summary TEXT NOT NULL,
  content TEXT,
  sent_by TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(reservations).Error)
	require.NoError(t, db.Exec(knives).Error)
	require.NoError(t, db.Exec(invoices).Error)
	require.NoError(t, db.Exec(communications).Error)
	return db
}

func createTestCustomer(t *testing.T, repo Repository, email string) *models.Customer {
	t.Helper()
	customer, err := repo.CreateCustomer(context.Background(), &models.Customer{
		ID:    uuid.New(),
		Name:  "Dana",
		Phone: "555-0101",
		Email: email,
	})
	require.NoError(t, err)
	return customer
}

func createTestReservation(t *testing.T, repo Repository, id string, customer *models.Customer) *models.Reservation {
	t.Helper()
	reservation, err := repo.CreateReservation(context.Background(), &models.Reservation{
		ID:            id,
		CustomerID:    customer.ID,
		Status:        enums.ReservationStatusBooked,
		KnifeQuantity: "2",
		DropOffDate:   "2026-09-01",
		DropOffTime:   "10:00",
	})
	require.NoError(t, err)
	return reservation
}

func TestRepositoryFindCustomerByEmailFoldsCase(t *testing.T) {
	db := setupReservationsTestDB(t)
	repo := NewRepository(db)
	createTestCustomer(t, repo, "dana@example.com")

	found, err := repo.FindCustomerByEmail(context.Background(), "  DANA@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", found.Email)

	_, err = repo.FindCustomerByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryReservationExists(t *testing.T) {
	db := setupReservationsTestDB(t)
	repo := NewRepository(db)
	customer := createTestCustomer(t, repo, "dana@example.com")
	createTestReservation(t, repo, "AB12CD", customer)

	exists, err := repo.ReservationExists(context.Background(), "AB12CD")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ReservationExists(context.Background(), "ZZZZZZ")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryReplaceKnivesSwapsFullSet(t *testing.T) {
	db := setupReservationsTestDB(t)
	repo := NewRepository(db)
	customer := createTestCustomer(t, repo, "dana@example.com")
	createTestReservation(t, repo, "AB12CD", customer)

	first := []models.KnifeLineItem{
		{ID: uuid.New(), ReservationID: "AB12CD", Position: 1, KnifeType: "everyday"},
		{ID: uuid.New(), ReservationID: "AB12CD", Position: 2, KnifeType: "japanese", Services: []string{"tip-repair", "polishing"}},
	}
	require.NoError(t, repo.ReplaceKnives(context.Background(), "AB12CD", first))

	second := []models.KnifeLineItem{
		{ID: uuid.New(), ReservationID: "AB12CD", Position: 1, KnifeType: "scissors", Price: decimal.NewFromInt(10)},
	}
	require.NoError(t, repo.ReplaceKnives(context.Background(), "AB12CD", second))

	stored, err := repo.FindKnivesByReservation(context.Background(), "AB12CD")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "scissors", stored[0].KnifeType)
	assert.True(t, stored[0].Price.Equal(decimal.NewFromInt(10)))
}

func TestRepositoryFindReservationPreloadsAssociations(t *testing.T) {
	db := setupReservationsTestDB(t)
	repo := NewRepository(db)
	customer := createTestCustomer(t, repo, "dana@example.com")
	createTestReservation(t, repo, "AB12CD", customer)

	knives := []models.KnifeLineItem{
		{ID: uuid.New(), ReservationID: "AB12CD", Position: 2, KnifeType: "japanese"},
		{ID: uuid.New(), ReservationID: "AB12CD", Position: 1, KnifeType: "everyday"},
	}
	require.NoError(t, repo.ReplaceKnives(context.Background(), "AB12CD", knives))

	found, err := repo.FindReservationByID(context.Background(), "AB12CD")
	require.NoError(t, err)
	require.NotNil(t, found.Customer)
	assert.Equal(t, "dana@example.com", found.Customer.Email)
	require.Len(t, found.Knives, 2)
	assert.Equal(t, 1, found.Knives[0].Position)
	assert.Equal(t, "everyday", found.Knives[0].KnifeType)
}

func TestRepositoryListReservationsFilters(t *testing.T) {
	db := setupReservationsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	dana := createTestCustomer(t, repo, "dana@example.com")
	createTestReservation(t, repo, "AB12CD", dana)

	sam, err := repo.CreateCustomer(ctx, &models.Customer{
		ID:    uuid.New(),
		Name:  "Sam",
		Phone: "555-0202",
		Email: "sam@example.com",
	})
	require.NoError(t, err)
	_, err = repo.CreateReservation(ctx, &models.Reservation{
		ID:            "XY98ZW",
		CustomerID:    sam.ID,
		Status:        enums.ReservationStatusReady,
		KnifeQuantity: "1",
		DropOffDate:   "2026-09-02",
		DropOffTime:   "14:00",
	})
	require.NoError(t, err)

	all, err := repo.ListReservations(ctx, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ready := enums.ReservationStatusReady
	byStatus, err := repo.ListReservations(ctx, ListFilters{Status: &ready})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "XY98ZW", byStatus[0].ID)

	byDate, err := repo.ListReservations(ctx, ListFilters{DropOffDate: "2026-09-01"})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "AB12CD", byDate[0].ID)

	bySearch, err := repo.ListReservations(ctx, ListFilters{Search: "sam"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "XY98ZW", bySearch[0].ID)
}
