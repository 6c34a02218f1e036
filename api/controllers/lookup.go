package controllers

import (
	"net/http"

	"github.com/chefknifeworks/crm-backend/api/responses"
	"github.com/chefknifeworks/crm-backend/api/validators"
	"github.com/chefknifeworks/crm-backend/internal/lookup"
	"github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/logger"
)

// LookupReservation is the public "where are my knives" search. It takes
// any of id, phone, or email and matches on whichever is provided.
func LookupReservation(svc lookup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "lookup service unavailable"))
			return
		}

		query := lookup.Query{
			ReservationID: validators.ParseQueryString(r, "id", ""),
			Phone:         validators.ParseQueryString(r, "phone", ""),
			Email:         validators.ParseQueryString(r, "email", ""),
		}

		result, err := svc.Find(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
