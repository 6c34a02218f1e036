package controllers

import (
	"net/http"

	"github.com/chefknifeworks/crm-backend/api/responses"
	"github.com/chefknifeworks/crm-backend/api/validators"
	"github.com/chefknifeworks/crm-backend/internal/booking"
	"github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/logger"
)

type bookingRequest struct {
	ReservationID string  `json:"reservation_id,omitempty"`
	Name          string  `json:"name" validate:"required"`
	Phone         string  `json:"phone" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	KnifeQuantity string  `json:"knife_quantity,omitempty"`
	DropOffDate   string  `json:"drop_off_date" validate:"required"`
	DropOffTime   string  `json:"drop_off_time" validate:"required"`
	PickupDate    *string `json:"pickup_date,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// BookReservation handles the public booking form submission.
func BookReservation(svc booking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "booking service unavailable"))
			return
		}

		var body bookingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Book(r.Context(), booking.Input{
			ReservationID: body.ReservationID,
			Name:          body.Name,
			Phone:         body.Phone,
			Email:         body.Email,
			KnifeQuantity: body.KnifeQuantity,
			DropOffDate:   body.DropOffDate,
			DropOffTime:   body.DropOffTime,
			PickupDate:    body.PickupDate,
			Notes:         body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithReservationID(r.Context(), result.ReservationID)
		logg.Info(ctx, "reservation.booked")

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
