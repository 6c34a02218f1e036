package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chefknifeworks/crm-backend/internal/comms"
	"github.com/chefknifeworks/crm-backend/internal/reservations"
	"github.com/chefknifeworks/crm-backend/pkg/config"
	"github.com/chefknifeworks/crm-backend/pkg/db/models"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	pkgerrors "github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/types"
)

// SettingsSource supplies the payment handle and the active custom
// discounts at invoice time.
type SettingsSource interface {
	Pricing(ctx context.Context) (handle string, discounts types.DiscountList, err error)
}

// NoteLogger appends the payment note to the communications log.
type NoteLogger interface {
	Log(ctx context.Context, input comms.LogInput) (*comms.Entry, error)
}

// InvoiceResult is the API payload returned after invoicing or payment.
type InvoiceResult struct {
	ReservationID string               `json:"reservation_id"`
	Subtotal      string               `json:"subtotal"`
	Total         string               `json:"total"`
	Status        string               `json:"status"`
	PaymentMethod *string              `json:"payment_method,omitempty"`
	PaymentLink   string               `json:"payment_link"`
	Details       types.InvoiceDetails `json:"details"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
}

// Service prices reservations and freezes invoices.
type Service interface {
	Preview(ctx context.Context, reservationID string) (*InvoiceResult, error)
	CreateInvoice(ctx context.Context, reservationID string) (*InvoiceResult, error)
	RecordOfflinePayment(ctx context.Context, reservationID string, method enums.PaymentMethod, note string) (*InvoiceResult, error)
}

type service struct {
	repo     Repository
	resRepo  reservations.Repository
	settings SettingsSource
	notes    NoteLogger
	payment  config.PaymentConfig
	now      func() time.Time
}

// NewService builds the pricing service. The note logger is optional;
// without it counter payments are not echoed into the communications log.
func NewService(repo Repository, resRepo reservations.Repository, settings SettingsSource, notes NoteLogger, payment config.PaymentConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if resRepo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings source required")
	}
	return &service{
		repo:     repo,
		resRepo:  resRepo,
		settings: settings,
		notes:    notes,
		payment:  payment,
		now:      time.Now,
	}, nil
}

// Preview prices the reservation's current knives without writing anything.
func (s *service) Preview(ctx context.Context, reservationID string) (*InvoiceResult, error) {
	breakdown, handle, err := s.quoteReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{
		ReservationID: reservationID,
		Subtotal:      breakdown.Subtotal.StringFixed(2),
		Total:         breakdown.Total.StringFixed(2),
		Status:        enums.InvoiceStatusPending.String(),
		PaymentLink:   s.paymentLink(handle, breakdown),
		Details:       breakdown.Details(),
	}, nil
}

// CreateInvoice prices the reservation and freezes the result. Invoicing
// again replaces the stored invoice with a fresh computation.
func (s *service) CreateInvoice(ctx context.Context, reservationID string) (*InvoiceResult, error) {
	breakdown, handle, err := s.quoteReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		ReservationID: reservationID,
		Subtotal:      breakdown.Subtotal.Round(2),
		Total:         breakdown.Total,
		Status:        enums.InvoiceStatusPending,
		PaymentLink:   s.paymentLink(handle, breakdown),
		Details:       breakdown.Details(),
	}
	if _, err := s.repo.UpsertInvoice(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save invoice")
	}

	return resultFromModel(invoice), nil
}

// RecordOfflinePayment runs the same pricing computation as CreateInvoice
// and upserts the result already marked paid. A counter payment needs no
// prior invoice; an existing one is overwritten with the fresh amounts.
func (s *service) RecordOfflinePayment(ctx context.Context, reservationID string, method enums.PaymentMethod, note string) (*InvoiceResult, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"method": method.String()})
	}

	breakdown, handle, err := s.quoteReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	paidAt := s.now().UTC()
	invoice := &models.Invoice{
		ReservationID: reservationID,
		Subtotal:      breakdown.Subtotal.Round(2),
		Total:         breakdown.Total,
		Status:        enums.InvoiceStatusPaid,
		PaymentMethod: &method,
		PaymentLink:   s.paymentLink(handle, breakdown),
		Details:       breakdown.Details(),
		PaidAt:        &paidAt,
	}
	if _, err := s.repo.UpsertInvoice(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save invoice")
	}

	// The payment record is the source of truth; a failed note is lost,
	// not retried.
	if s.notes != nil {
		var content *string
		if trimmed := strings.TrimSpace(note); trimmed != "" {
			c := "Note: " + trimmed
			content = &c
		}
		_, _ = s.notes.Log(ctx, comms.LogInput{
			ReservationID: reservationID,
			Channel:       enums.CommChannelNote,
			Direction:     enums.CommDirectionOutbound,
			Summary:       fmt.Sprintf("Payment of $%s received (%s)", invoice.Total.StringFixed(2), method.String()),
			Content:       content,
		})
	}

	return resultFromModel(invoice), nil
}

func (s *service) quoteReservation(ctx context.Context, reservationID string) (Breakdown, string, error) {
	if reservationID == "" {
		return Breakdown{}, "", pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}

	exists, err := s.resRepo.ReservationExists(ctx, reservationID)
	if err != nil {
		return Breakdown{}, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	if !exists {
		return Breakdown{}, "", pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}

	knives, err := s.resRepo.FindKnivesByReservation(ctx, reservationID)
	if err != nil {
		return Breakdown{}, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load knives")
	}
	if len(knives) == 0 {
		return Breakdown{}, "", pkgerrors.New(pkgerrors.CodeStateConflict, "reservation has no itemized knives")
	}

	handle, discounts, err := s.settings.Pricing(ctx)
	if err != nil {
		return Breakdown{}, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}

	items := make([]LineItem, 0, len(knives))
	for _, k := range knives {
		items = append(items, LineItem{
			KnifeType: k.KnifeType,
			Services:  append([]string(nil), k.Services...),
		})
	}

	return Quote(items, discounts), handle, nil
}

func (s *service) paymentLink(handle string, breakdown Breakdown) string {
	if handle == "" {
		handle = s.payment.DefaultHandle
	}
	base := s.payment.LinkBase
	if base == "" {
		base = "https://paypal.me"
	}
	return fmt.Sprintf("%s/%s/%s", base, handle, breakdown.Total.StringFixed(2))
}

func resultFromModel(invoice *models.Invoice) *InvoiceResult {
	var method *string
	if invoice.PaymentMethod != nil {
		m := invoice.PaymentMethod.String()
		method = &m
	}
	return &InvoiceResult{
		ReservationID: invoice.ReservationID,
		Subtotal:      invoice.Subtotal.StringFixed(2),
		Total:         invoice.Total.StringFixed(2),
		Status:        invoice.Status.String(),
		PaymentMethod: method,
		PaymentLink:   invoice.PaymentLink,
		Details:       invoice.Details,
		PaidAt:        invoice.PaidAt,
	}
}
