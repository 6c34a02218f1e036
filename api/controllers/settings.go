package controllers

import (
	"net/http"

	"github.com/chefknifeworks/crm-backend/api/responses"
	"github.com/chefknifeworks/crm-backend/api/validators"
	"github.com/chefknifeworks/crm-backend/internal/pricing"
	"github.com/chefknifeworks/crm-backend/internal/settings"
	"github.com/chefknifeworks/crm-backend/pkg/errors"
	"github.com/chefknifeworks/crm-backend/pkg/logger"
	"github.com/chefknifeworks/crm-backend/pkg/types"
)

type updateSettingsRequest struct {
	Username     *string             `json:"username,omitempty"`
	Password     *string             `json:"password,omitempty"`
	PayPalHandle *string             `json:"paypal_handle,omitempty"`
	Discounts    *types.DiscountList `json:"discounts,omitempty"`
}

// GetSettings returns the staff settings plus the published price lists.
func GetSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "settings service unavailable"))
			return
		}

		view, err := svc.View(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		knives, services := pricing.Catalog()
		responses.WriteSuccess(w, map[string]any{
			"settings":       view,
			"knife_prices":   knives,
			"service_prices": services,
		})
	}
}

// UpdateSettings applies partial edits to the staff settings row.
func UpdateSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, errors.New(errors.CodeInternal, "settings service unavailable"))
			return
		}

		var body updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), settings.UpdateInput{
			Username:     body.Username,
			Password:     body.Password,
			PayPalHandle: body.PayPalHandle,
			Discounts:    body.Discounts,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(r.Context(), "settings.updated")
		responses.WriteSuccess(w, view)
	}
}
