package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mesalivre/pos-backend/api/controllers"
	"github.com/mesalivre/pos-backend/api/routes"
	"github.com/mesalivre/pos-backend/internal/catalog"
	"github.com/mesalivre/pos-backend/internal/customers"
	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/internal/orders"
	"github.com/mesalivre/pos-backend/internal/printing"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/internal/staff"
	floorsync "github.com/mesalivre/pos-backend/internal/sync"
	"github.com/mesalivre/pos-backend/pkg/config"
	"github.com/mesalivre/pos-backend/pkg/db"
	"github.com/mesalivre/pos-backend/pkg/logger"
	"github.com/mesalivre/pos-backend/pkg/metrics"
	"github.com/mesalivre/pos-backend/pkg/migrate"
	"github.com/mesalivre/pos-backend/pkg/pubsub"
	"github.com/mesalivre/pos-backend/pkg/redis"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var psClient *pubsub.Client
	if cfg.GCP.ProjectID != "" {
		psClient, err = pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
	} else {
		logg.Warn(ctx, "gcp project not configured, print jobs disabled")
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	posMetrics := metrics.NewPOSMetrics(promRegistry)

	floorRepo := floor.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	customersRepo := customers.NewRepository(dbClient.DB())
	staffRepo := staff.NewRepository(dbClient.DB())

	notifier := floorsync.NewNotifier(redisClient, cfg.Sync.ChangeChannel)

	var printer orders.TicketPublisher
	if psClient != nil {
		printer = printing.NewPublisher(psClient.PrintPublisher(), logg)
	}

	ordersSvc := orders.NewService(ordersRepo, floorRepo, dbClient, notifier, printer, posMetrics, logg)
	staffSvc := staff.NewService(staffRepo, cfg.PIN, logg)
	customersSvc := customers.NewService(customersRepo)

	startSync := func(syncCtx context.Context, restaurantID uuid.UUID, registry *floor.Registry) {
		source := floorsync.NewDBSource(restaurantID, floorRepo, ordersRepo)
		refresher := floorsync.NewRefresher(registry, source)

		var strategy floorsync.Strategy
		if floorsync.Mode(cfg.Sync.Mode) == floorsync.ModePoll {
			strategy = floorsync.NewPollStrategy(refresher, cfg.Sync.PollInterval, posMetrics, logg)
		} else {
			strategy = floorsync.NewPushStrategy(refresher, redisClient, cfg.Sync.ChangeChannel, restaurantID, posMetrics, logg)
		}
		go func() {
			if err := strategy.Run(syncCtx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(logg.WithRestaurantID(syncCtx, restaurantID.String()), "floor sync stopped", err)
			}
		}()

		ready := floorsync.NewReadyPoller(refresher, cfg.Sync.ReadyInterval, logg)
		go func() {
			if err := ready.Run(syncCtx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(logg.WithRestaurantID(syncCtx, restaurantID.String()), "ready poller stopped", err)
			}
		}()
	}

	manager := session.NewManager(startSync, logg)
	defer manager.Close()

	go sweepSessions(ctx, manager, cfg.Sync, logg)

	pingers := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
		"pubsub":   nil,
	}
	if psClient != nil {
		pingers["pubsub"] = psClient
	}

	handler := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		Registry:     promRegistry,
		Sessions:     manager,
		StaffService: staffSvc,
		OrderService: ordersSvc,
		Customers:    customersSvc,
		Catalog:      catalogRepo,
		Pingers:      pingers,
	})

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"sync": cfg.Sync.Mode,
	})
	logg.Info(startCtx, "starting api server")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(startCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "api server stopped")
}

// sweepSessions drops idle terminal sessions on a fixed cadence.
func sweepSessions(ctx context.Context, manager *session.Manager, cfg config.SyncConfig, logg *logger.Logger) {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := manager.Sweep(cfg.SessionMaxIdle); dropped > 0 {
				logg.Info(logg.WithField(ctx, "dropped", dropped), "idle sessions swept")
			}
		}
	}
}
