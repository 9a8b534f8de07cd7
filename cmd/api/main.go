package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/hsalves/clinistock-backend/api/routes"
	"github.com/hsalves/clinistock-backend/internal/auth"
	"github.com/hsalves/clinistock-backend/internal/clinics"
	"github.com/hsalves/clinistock-backend/internal/materials"
	"github.com/hsalves/clinistock-backend/internal/movements"
	"github.com/hsalves/clinistock-backend/internal/reports"
	"github.com/hsalves/clinistock-backend/internal/seed"
	"github.com/hsalves/clinistock-backend/internal/stock"
	"github.com/hsalves/clinistock-backend/internal/users"
	"github.com/hsalves/clinistock-backend/pkg/auth/session"
	"github.com/hsalves/clinistock-backend/pkg/config"
	"github.com/hsalves/clinistock-backend/pkg/db"
	"github.com/hsalves/clinistock-backend/pkg/logger"
	"github.com/hsalves/clinistock-backend/pkg/metrics"
	"github.com/hsalves/clinistock-backend/pkg/migrate"
	"github.com/hsalves/clinistock-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	if err := seed.Run(context.Background(), dbClient, cfg, logg); err != nil {
		logg.Error(context.Background(), "failed to seed database", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	stockMetrics := metrics.NewStockMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	clinicsRepo := clinics.NewRepository(dbClient.DB())
	materialsRepo := materials.NewRepository(dbClient.DB())
	stockRepo := stock.NewRepository(dbClient.DB())
	movementsRepo := movements.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	exitOnWireError(logg, "auth service", err)

	usersService, err := users.NewService(usersRepo, cfg.Password)
	exitOnWireError(logg, "users service", err)

	clinicsService, err := clinics.NewService(clinicsRepo)
	exitOnWireError(logg, "clinics service", err)

	materialsService, err := materials.NewService(materialsRepo)
	exitOnWireError(logg, "materials service", err)

	stockService, err := stock.NewService(stock.ServiceParams{
		Repo:      stockRepo,
		Materials: materialsRepo,
		Clinics:   clinicsRepo,
		Movements: movementsRepo,
		Tx:        dbClient,
		Metrics:   stockMetrics,
	})
	exitOnWireError(logg, "stock service", err)

	movementsService, err := movements.NewService(movementsRepo, clinicsRepo)
	exitOnWireError(logg, "movements service", err)

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()), materialsService)
	exitOnWireError(logg, "reports service", err)

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
		Handler: routes.NewRouter(routes.Dependencies{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Sessions:  sessionManager,
			Registry:  registry,
			Auth:      authService,
			Users:     usersService,
			Clinics:   clinicsService,
			Materials: materialsService,
			Stock:     stockService,
			Movements: movementsService,
			Reports:   reportsService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stopCh:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		closeErr := multierr.Combine(
			server.Shutdown(shutdownCtx),
			redisClient.Close(),
			dbClient.Close(),
		)
		if closeErr != nil {
			logg.Error(ctx, "shutdown finished with errors", closeErr)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}

func exitOnWireError(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
