package pricing

import (
	"context"
	"strings"
	"testing"

	"github.com/chefknifeworks/crm-backend/internal/comms"
	"github.com/chefknifeworks/crm-backend/internal/reservations"
	"github.com/chefknifeworks/crm-backend/pkg/config"
	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubInvoiceRepo struct {
	invoice *models.Invoice
}

func (s *stubInvoiceRepo) UpsertInvoice(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	s.invoice = invoice
	return invoice, nil
}

type stubReservationRepo struct {
	reservations.Repository
	exists bool
	knives []models.KnifeLineItem
}

func (s *stubReservationRepo) ReservationExists(ctx context.Context, id string) (bool, error) {
	return s.exists, nil
}

func (s *stubReservationRepo) FindKnivesByReservation(ctx context.Context, reservationID string) ([]models.KnifeLineItem, error) {
	return s.knives, nil
}

type stubSettings struct {
	handle    string
	discounts types.DiscountList
}

func (s stubSettings) Pricing(ctx context.Context) (string, types.DiscountList, error) {
	return s.handle, s.discounts, nil
}

type stubNotes struct {
	logged []comms.LogInput
	err    error
}

func (s *stubNotes) Log(ctx context.Context, input comms.LogInput) (*comms.Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.logged = append(s.logged, input)
	return &comms.Entry{Channel: input.Channel, Summary: input.Summary}, nil
}

func buildPricingService(t *testing.T, invoices *stubInvoiceRepo, resRepo *stubReservationRepo, settings stubSettings, notes NoteLogger) Service {
	t.Helper()
	svc, err := NewService(invoices, resRepo, settings, notes, config.PaymentConfig{
		DefaultHandle: "chefknifeworks",
		LinkBase:      "https://paypal.me",
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func itemizedKnives() []models.KnifeLineItem {
	return []models.KnifeLineItem{
		{KnifeType: "everyday"},
		{KnifeType: "everyday"},
		{KnifeType: "everyday"},
		{KnifeType: "everyday"},
		{KnifeType: "everyday"},
	}
}

func TestPreviewDoesNotPersist(t *testing.T) {
	invoices := &stubInvoiceRepo{}
	resRepo := &stubReservationRepo{exists: true, knives: itemizedKnives()}
	svc := buildPricingService(t, invoices, resRepo, stubSettings{}, nil)

	result, err := svc.Preview(context.Background(), "AB12CD")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	if result.Subtotal != "60.00" {
		t.Fatalf("subtotal = %s, want 60.00", result.Subtotal)
	}
	if result.Total != "54.00" {
		t.Fatalf("total = %s, want 54.00", result.Total)
	}
	if result.PaymentLink != "https://paypal.me/chefknifeworks/54.00" {
		t.Fatalf("payment link = %s", result.PaymentLink)
	}
	if invoices.invoice != nil {
		t.Fatalf("preview must not write an invoice")
	}
}

func TestCreateInvoiceFreezesDetails(t *testing.T) {
	invoices := &stubInvoiceRepo{}
	resRepo := &stubReservationRepo{exists: true, knives: itemizedKnives()}
	settings := stubSettings{
		handle: "knifeshop",
		discounts: types.DiscountList{
			{Label: "loyalty", Type: types.DiscountTypePercent, Value: decimal.NewFromInt(10)},
		},
	}
	svc := buildPricingService(t, invoices, resRepo, settings, nil)

	result, err := svc.CreateInvoice(context.Background(), "AB12CD")
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	// 60 minus 10% volume leaves 54, minus the 10% loyalty leaves 48.60.
	if result.Total != "48.60" {
		t.Fatalf("total = %s, want 48.60", result.Total)
	}
	if result.PaymentLink != "https://paypal.me/knifeshop/48.60" {
		t.Fatalf("payment link = %s", result.PaymentLink)
	}
	if result.Status != enums.InvoiceStatusPending.String() {
		t.Fatalf("status = %s, want pending", result.Status)
	}
	if invoices.invoice == nil {
		t.Fatalf("invoice not persisted")
	}
	if invoices.invoice.Details.VolumeDiscount.Percent != 10 {
		t.Fatalf("frozen volume percent = %d, want 10", invoices.invoice.Details.VolumeDiscount.Percent)
	}
	if len(invoices.invoice.Details.ActiveDiscounts) != 1 {
		t.Fatalf("frozen discounts = %+v", invoices.invoice.Details.ActiveDiscounts)
	}
}

func TestCreateInvoiceRequiresItemizedKnives(t *testing.T) {
	invoices := &stubInvoiceRepo{}
	resRepo := &stubReservationRepo{exists: true}
	svc := buildPricingService(t, invoices, resRepo, stubSettings{}, nil)

	_, err := svc.CreateInvoice(context.Background(), "AB12CD")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCreateInvoiceUnknownReservation(t *testing.T) {
	invoices := &stubInvoiceRepo{}
	resRepo := &stubReservationRepo{}
	svc := buildPricingService(t, invoices, resRepo, stubSettings{}, nil)

	_, err := svc.CreateInvoice(context.Background(), "ZZZZZZ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecordOfflinePaymentWithoutPriorInvoice(t *testing.T) {
	invoices := &stubInvoiceRepo{}
	resRepo := &stubReservationRepo{exists: true, knives: itemizedKnives()}
	svc := buildPricingService(t, invoices, resRepo, stubSettings{}, nil)

	result, err := svc.RecordOfflinePayment(context.Background(), "AB12CD", enums.PaymentMethodCash, "")
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if result.Total != "54.00" {
		t.Fatalf("total = %s, want 54.00", result.Total)
	}
	if result.Status != enums.InvoiceStatusPaid.String() {
		t.Fatalf("status = %s, want paid", result.Status)
	}
	if result.PaymentMethod == nil || *result.PaymentMethod != "cash" {
		t.Fatalf("payment method = %v, want cash", result.PaymentMethod)
	}
	if result.PaidAt == nil {
		t.Fatalf("paid_at not set")
	}
	if invoices.invoice == nil || invoices.invoice.Status != enums.InvoiceStatusPaid {
		t.Fatalf("persisted invoice = %+v, want a paid upsert", invoices.invoice)
	}
}

func TestRecordOfflinePaymentOverwritesStaleInvoice(t *testing.T) {
	invoices := &stubInvoiceRepo{
		invoice: &models.Invoice{
			ReservationID: "AB12CD",
			Subtotal:      decimal.NewFromInt(99),
			Total:         decimal.NewFromInt(99),
			Status:        enums.InvoiceStatusPending,
		},
	}
	resRepo := &stubReservationRepo{exists: true, knives: itemizedKnives()}
	svc := buildPricingService(t, invoices, resRepo, stubSettings{}, nil)

	result, err := svc.RecordOfflinePayment(context.Background(), "AB12CD", enums.PaymentMethodCheck, "")
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	// The payment reprices the knives; the stale pending amounts are gone.
	if result.Total != "54.00" {
		t.Fatalf("total = %s, want 54.00", result.Total)
	}
	if !invoices.invoice.Total.Equal(decimal.RequireFromString("54.00")) {
		t.Fatalf("persisted total = %s, want 54.00", invoices.invoice.Total)
	}
	if invoices.invoice.Status != enums.InvoiceStatusPaid {
		t.Fatalf("persisted status = %s, want paid", invoices.invoice.Status)
	}
}

func TestRecordOfflinePaymentLogsNote(t *testing.T) {
	invoices := &stubInvoiceRepo{}
	resRepo := &stubReservationRepo{exists: true, knives: itemizedKnives()}
	notes := &stubNotes{}
	svc := buildPricingService(t, invoices, resRepo, stubSettings{}, notes)

	if _, err := svc.RecordOfflinePayment(context.Background(), "AB12CD", enums.PaymentMethodCash, "paid at pickup"); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if len(notes.logged) != 1 {
		t.Fatalf("expected one note, got %d", len(notes.logged))
	}
	note := notes.logged[0]
	if note.Channel != enums.CommChannelNote {
		t.Fatalf("note channel = %s, want note", note.Channel)
	}
	for _, want := range []string{"54.00", "cash"} {
		if !strings.Contains(note.Summary, want) {
			t.Fatalf("note %q missing %q", note.Summary, want)
		}
	}
	if note.Content == nil || *note.Content != "Note: paid at pickup" {
		t.Fatalf("note content = %v, want the staff note echoed", note.Content)
	}
}

func TestRecordOfflinePaymentSkipsEmptyNoteContent(t *testing.T) {
	invoices := &stubInvoiceRepo{}
	resRepo := &stubReservationRepo{exists: true, knives: itemizedKnives()}
	notes := &stubNotes{}
	svc := buildPricingService(t, invoices, resRepo, stubSettings{}, notes)

	if _, err := svc.RecordOfflinePayment(context.Background(), "AB12CD", enums.PaymentMethodCash, "   "); err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if len(notes.logged) != 1 || notes.logged[0].Content != nil {
		t.Fatalf("blank note must not produce content, got %+v", notes.logged)
	}
}

func TestRecordOfflinePaymentSurvivesNoteFailure(t *testing.T) {
	invoices := &stubInvoiceRepo{}
	resRepo := &stubReservationRepo{exists: true, knives: itemizedKnives()}
	notes := &stubNotes{err: gorm.ErrInvalidDB}
	svc := buildPricingService(t, invoices, resRepo, stubSettings{}, notes)

	result, err := svc.RecordOfflinePayment(context.Background(), "AB12CD", enums.PaymentMethodCard, "")
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if result.Status != enums.InvoiceStatusPaid.String() {
		t.Fatalf("status = %s, want paid", result.Status)
	}
}

func TestRecordOfflinePaymentUnknownReservation(t *testing.T) {
	invoices := &stubInvoiceRepo{}
	resRepo := &stubReservationRepo{}
	svc := buildPricingService(t, invoices, resRepo, stubSettings{}, nil)

	_, err := svc.RecordOfflinePayment(context.Background(), "ZZZZZZ", enums.PaymentMethodCard, "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
