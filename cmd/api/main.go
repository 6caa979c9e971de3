package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/diwinters/tradewind-backend/api/routes"
	"github.com/diwinters/tradewind-backend/internal/listings"
	"github.com/diwinters/tradewind-backend/internal/notifications"
	"github.com/diwinters/tradewind-backend/internal/orders"
	"github.com/diwinters/tradewind-backend/internal/tracking"
	"github.com/diwinters/tradewind-backend/internal/wallet"
	"github.com/diwinters/tradewind-backend/pkg/config"
	"github.com/diwinters/tradewind-backend/pkg/db"
	"github.com/diwinters/tradewind-backend/pkg/logger"
	"github.com/diwinters/tradewind-backend/pkg/metrics"
	"github.com/diwinters/tradewind-backend/pkg/migrate"
	"github.com/diwinters/tradewind-backend/pkg/outbox"
	"github.com/diwinters/tradewind-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	registry := prometheus.NewRegistry()
	domainMetrics := metrics.NewDomainMetrics(registry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	walletService, err := wallet.NewService(wallet.NewRepository(dbClient.DB()), dbClient, logg, domainMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(
		ordersRepo,
		listings.NewRepository(dbClient.DB()),
		walletService,
		dbClient,
		outboxService,
		domainMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	trackingService, err := tracking.NewService(ordersRepo, redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tracking service", err)
		os.Exit(1)
	}

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
			Config:   cfg,
			Logger:   logg,
			Redis:    redisClient,
			Registry: registry,
			ReadyProbes: map[string]func() error{
				"database": func() error { return dbClient.Ping(context.Background()) },
				"redis":    func() error { return redisClient.Ping(context.Background()) },
			},
			Wallet:        walletService,
			Orders:        ordersService,
			Notifications: notificationsService,
			Tracking:      trackingService,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "error draining api server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
