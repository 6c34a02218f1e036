package controllers

import (
	"net/http"

	"github.com/chefknifeworks/crm-backend/api/middleware"
	"github.com/chefknifeworks/crm-backend/api/responses"
	"github.com/chefknifeworks/crm-backend/api/validators"
	"github.com/chefknifeworks/crm-backend/internal/comms"
	"github.com/chefknifeworks/crm-backend/internal/notify"
	"github.com/chefknifeworks/crm-backend/pkg/enums"
	"github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/logger"
)

type logCommunicationRequest struct {
	Channel   string  `json:"channel" validate:"required"`
	Direction string  `json:"direction,omitempty"`
	Summary   string  `json:"summary" validate:"required"`
	Content   *string `json:"content,omitempty"`
}

type notifyRequest struct {
	Kind string `json:"kind" validate:"required,oneof=dropoff pickup"`
}

// LogCommunication appends one entry to the reservation's log.
func LogCommunication(svc comms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "communications service unavailable"))
			return
		}

		var body logCommunicationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		channel, err := enums.ParseCommChannel(body.Channel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeValidation, "unknown communication channel").WithDetails(map[string]any{"channel": body.Channel}))
			return
		}

		direction := enums.CommDirectionOutbound
		if body.Direction != "" {
			direction, err = enums.ParseCommDirection(body.Direction)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeValidation, "unknown communication direction").WithDetails(map[string]any{"direction": body.Direction}))
				return
			}
		}

		var sentBy *string
		if username, ok := middleware.UsernameFromContext(r.Context()); ok {
			sentBy = &username
		}

		entry, err := svc.Log(r.Context(), comms.LogInput{
			ReservationID: reservationIDParam(r),
			Channel:       channel,
			Direction:     direction,
			Summary:       body.Summary,
			Content:       body.Content,
			SentBy:        sentBy,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// ListCommunications returns the reservation's log, newest first.
func ListCommunications(svc comms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "communications service unavailable"))
			return
		}

		entries, err := svc.History(r.Context(), reservationIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// SendNotification logs the canned drop-off or pickup reminder.
func SendNotification(svc notify.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "notify service unavailable"))
			return
		}

		var body notifyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Send(r.Context(), reservationIDParam(r), notify.Kind(body.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}
