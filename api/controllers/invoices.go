package controllers

import (
	"net/http"

	"github.com/chefknifeworks/crm-backend/api/responses"
	"github.com/chefknifeworks/crm-backend/api/validators"
	"github.com/chefknifeworks/crm-backend/internal/pricing"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	"github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/logger"
)

type offlinePaymentRequest struct {
	ReservationID string `json:"reservation_id" validate:"required"`
	Method        string `json:"method" validate:"required"`
	Note          string `json:"note,omitempty"`
}

// PreviewInvoice prices the reservation without freezing anything.
func PreviewInvoice(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "pricing service unavailable"))
			return
		}

		result, err := svc.Preview(r.Context(), reservationIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CreateInvoice freezes the current pricing for a reservation.
func CreateInvoice(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "pricing service unavailable"))
			return
		}

		id := reservationIDParam(r)
		result, err := svc.CreateInvoice(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithReservationID(r.Context(), id)
		logg.Info(logg.WithField(ctx, "total", result.Total), "invoice.created")

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// RecordOfflinePayment prices the reservation and records a counter payment.
func RecordOfflinePayment(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "pricing service unavailable"))
			return
		}

		var body offlinePaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(body.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeValidation, "unknown payment method").WithDetails(map[string]any{"method": body.Method}))
			return
		}

		result, err := svc.RecordOfflinePayment(r.Context(), body.ReservationID, method, body.Note)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithReservationID(r.Context(), body.ReservationID)
		logg.Info(logg.WithField(ctx, "method", method.String()), "invoice.paid_offline")

		responses.WriteSuccess(w, result)
	}
}
