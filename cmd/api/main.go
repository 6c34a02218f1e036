package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/chefknifeworks/crm-backend/api/routes"
	"github.com/chefknifeworks/crm-backend/internal/auth"
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
	"github.com/chefknifeworks/crm-backend/pkg/migrate"
	"github.com/chefknifeworks/crm-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	resRepo := reservations.NewRepository(dbClient.DB())

	cacheStore, err := lookup.NewCacheStore(redisClient, logg, cfg.Cache.SnapshotTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot store", err)
		os.Exit(1)
	}

	resService, err := reservations.NewService(resRepo, dbClient, cacheStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create reservations service", err)
		os.Exit(1)
	}

	bookingService, err := booking.NewService(resRepo, resService, cacheStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(
		settings.NewRepository(dbClient.DB()),
		redisClient,
		logg,
		cfg.Password,
		cfg.Payment,
		cfg.Staff,
		cfg.Cache.SnapshotTTL,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(settingsService, sessionManager, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	commsService, err := comms.NewService(comms.NewRepository(dbClient.DB()), resRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create communications service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(pricing.NewRepository(dbClient.DB()), resRepo, settingsService, commsService, cfg.Payment)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	notifyService, err := notify.NewService(commsService, resRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notify service", err)
		os.Exit(1)
	}

	remoteStore, err := lookup.NewRemoteStore(dbClient.DB(), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create remote lookup store", err)
		os.Exit(1)
	}

	lookupService, err := lookup.NewService(remoteStore, cacheStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create lookup service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Sessions:     sessionManager,
			HTTPMetrics:  httpMetrics,
			Registry:     registry,
			Auth:         authService,
			Booking:      bookingService,
			Reservations: resService,
			Pricing:      pricingService,
			Comms:        commsService,
			Notify:       notifyService,
			Lookup:       lookupService,
			Settings:     settingsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
