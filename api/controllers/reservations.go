package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/chefknifeworks/crm-backend/api/responses"
	"github.com/chefknifeworks/crm-backend/api/validators"
	"github.com/chefknifeworks/crm-backend/internal/reservations"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	"github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/logger"
)

type statusUpdateRequest struct {
	Status     string  `json:"status" validate:"required"`
	PickupDate *string `json:"pickup_date,omitempty"`
}

type knifePayload struct {
	KnifeType string          `json:"knife_type" validate:"required"`
	Brand     *string         `json:"brand,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Services  []string        `json:"services,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
}

type checkInRequest struct {
	ActualQuantity int        `json:"actual_quantity" validate:"required,min=1"`
	Photos         []string   `json:"photos,omitempty"`
	CheckInTime    *time.Time `json:"check_in_time,omitempty"`
}

type saveKnivesRequest struct {
	Knives []knifePayload `json:"knives" validate:"required,dive"`
}

func reservationIDParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "reservationID")))
}

// ListReservations returns the dashboard list, optionally filtered.
func ListReservations(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "reservations service unavailable"))
			return
		}

		filters := reservations.ListFilters{
			DropOffDate: validators.ParseQueryString(r, "date", ""),
			Search:      validators.ParseQueryString(r, "q", ""),
		}
		if raw := validators.ParseQueryString(r, "status", ""); raw != "" {
			status, err := enums.ParseReservationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeValidation, "unknown status filter").WithDetails(map[string]any{"status": raw}))
				return
			}
			filters.Status = &status
		}

		result, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetReservation returns the full reservation detail.
func GetReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "reservations service unavailable"))
			return
		}

		detail, err := svc.Detail(r.Context(), reservationIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// UpdateReservationStatus writes the requested status directly.
func UpdateReservationStatus(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "reservations service unavailable"))
			return
		}

		var body statusUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseReservationStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeValidation, "unknown reservation status").WithDetails(map[string]any{"status": body.Status}))
			return
		}

		id := reservationIDParam(r)
		detail, err := svc.UpdateStatus(r.Context(), reservations.StatusUpdateInput{
			ReservationID: id,
			Status:        status,
			PickupDate:    body.PickupDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithReservationID(r.Context(), id)
		logg.Info(logg.WithField(ctx, "status", status.String()), "reservation.status_updated")

		responses.WriteSuccess(w, detail)
	}
}

// CheckInReservation verifies the physical hand-off and forces received status.
func CheckInReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "reservations service unavailable"))
			return
		}

		var body checkInRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := reservations.CheckInInput{
			ReservationID:  reservationIDParam(r),
			ActualQuantity: body.ActualQuantity,
			Photos:         body.Photos,
		}
		if body.CheckInTime != nil {
			input.CheckInTime = *body.CheckInTime
		}

		detail, err := svc.CheckIn(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithReservationID(r.Context(), input.ReservationID)
		logg.Info(logg.WithField(ctx, "actual_quantity", body.ActualQuantity), "reservation.checked_in")

		responses.WriteSuccess(w, detail)
	}
}

// SaveReservationKnives replaces the knife list without changing status.
func SaveReservationKnives(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "reservations service unavailable"))
			return
		}

		var body saveKnivesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.SaveKnives(r.Context(), reservationIDParam(r), knifeInputs(body.Knives))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func knifeInputs(payloads []knifePayload) []reservations.KnifeInput {
	out := make([]reservations.KnifeInput, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, reservations.KnifeInput{
			KnifeType: p.KnifeType,
			Brand:     p.Brand,
			Price:     p.Price,
			Services:  p.Services,
			Notes:     p.Notes,
		})
	}
	return out
}
