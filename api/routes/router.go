package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chefknifeworks/crm-backend/api/controllers"
	"github.com/chefknifeworks/crm-backend/api/middleware"
	authsvc "github.com/chefknifeworks/crm-backend/internal/auth"
	"github.com/chefknifeworks/crm-backend/internal/booking"
	"github.com/chefknifeworks/crm-backend/internal/comms"
	"github.com/chefknifeworks/crm-backend/internal/lookup"
	"github.com/chefknifeworks/crm-backend/internal/notify"
	"github.com/chefknifeworks/crm-backend/internal/pricing"
	"github.com/chefknifeworks/crm-backend/internal/reservations"
	"github.com/chefknifeworks/crm-backend/internal/settings"
	"github.com/chefknifeworks/crm-backend/pkg/auth/session"
	"github.com/chefknifeworks/crm-backend/pkg/config"
	"github.com/chefknifeworks/crm-backend/pkg/db"
	"github.com/chefknifeworks/crm-backend/pkg/logger"
	"github.com/chefknifeworks/crm-backend/pkg/metrics"
	"github.com/chefknifeworks/crm-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Sessions     session.Checker
	HTTPMetrics  *metrics.HTTPMetrics
	Registry     *prometheus.Registry
	Auth         authsvc.Service
	Booking      booking.Service
	Reservations reservations.Service
	Pricing      pricing.Service
	Comms        comms.Service
	Notify       notify.Service
	Lookup       lookup.Service
	Settings     settings.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
	})

	// Public surface: the booking form and the "where are my knives" search.
	r.Post("/api/v1/reservations/book", controllers.BookReservation(deps.Booking, logg))
	r.Get("/api/v1/lookup", controllers.LookupReservation(deps.Lookup, logg))

	// Staff surface, behind the session-checked bearer token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/api/v1/reservations", func(r chi.Router) {
			r.Get("/", controllers.ListReservations(deps.Reservations, logg))
			r.Route("/{reservationID}", func(r chi.Router) {
				r.Get("/", controllers.GetReservation(deps.Reservations, logg))
				r.Put("/status", controllers.UpdateReservationStatus(deps.Reservations, logg))
				r.Put("/check-in", controllers.CheckInReservation(deps.Reservations, logg))
				r.Post("/knives", controllers.SaveReservationKnives(deps.Reservations, logg))
				r.Get("/invoice", controllers.PreviewInvoice(deps.Pricing, logg))
				r.Post("/invoice", controllers.CreateInvoice(deps.Pricing, logg))
				r.Get("/communications", controllers.ListCommunications(deps.Comms, logg))
				r.Post("/communications", controllers.LogCommunication(deps.Comms, logg))
				r.Post("/notify", controllers.SendNotification(deps.Notify, logg))
			})
		})

		r.Post("/api/v1/payments/offline", controllers.RecordOfflinePayment(deps.Pricing, logg))

		r.Route("/api/v1/settings", func(r chi.Router) {
			r.Get("/", controllers.GetSettings(deps.Settings, logg))
			r.Put("/", controllers.UpdateSettings(deps.Settings, logg))
		})
	})

	return r
}
