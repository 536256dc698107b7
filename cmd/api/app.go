package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/jwalitptl/medoffice-api/internal/config"
	appointmentHandler "github.com/jwalitptl/medoffice-api/internal/handler/appointment"
	doctorHandler "github.com/jwalitptl/medoffice-api/internal/handler/doctor"
	"github.com/jwalitptl/medoffice-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/medoffice-api/internal/handler/patient"
	prescriptionHandler "github.com/jwalitptl/medoffice-api/internal/handler/prescription"
	"github.com/jwalitptl/medoffice-api/internal/handler/prometheus"
	"github.com/jwalitptl/medoffice-api/internal/middleware"
	"github.com/jwalitptl/medoffice-api/internal/repository"
	"github.com/jwalitptl/medoffice-api/internal/repository/memory"
	"github.com/jwalitptl/medoffice-api/internal/repository/mongodb"
	"github.com/jwalitptl/medoffice-api/internal/repository/postgres"
	"github.com/jwalitptl/medoffice-api/internal/router"
	appointmentService "github.com/jwalitptl/medoffice-api/internal/service/appointment"
	doctorService "github.com/jwalitptl/medoffice-api/internal/service/doctor"
	"github.com/jwalitptl/medoffice-api/internal/service/event"
	patientService "github.com/jwalitptl/medoffice-api/internal/service/patient"
	prescriptionService "github.com/jwalitptl/medoffice-api/internal/service/prescription"
	"github.com/jwalitptl/medoffice-api/internal/service/reference"
	"github.com/jwalitptl/medoffice-api/pkg/logger"
	"github.com/jwalitptl/medoffice-api/pkg/messaging"
	"github.com/jwalitptl/medoffice-api/pkg/messaging/redis"
	"github.com/jwalitptl/medoffice-api/pkg/metrics"
	"github.com/jwalitptl/medoffice-api/pkg/worker"
)

func setup(configPath string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Console:    cfg.Log.Format == "console",
	})
	log.SetGlobal()
	return cfg, log, nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, m *metrics.Metrics) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return mongodb.NewStore(ctx, mongodb.Config{
			URI:      cfg.MongoURI,
			Database: cfg.Name,
			Timeout:  cfg.Timeout,
		}, m)
	case config.DriverPostgres:
		return postgres.NewStore(postgres.Config{
			URL:             cfg.PostgresURL,
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		}, m)
	case config.DriverMemory:
		return memory.NewStore(m), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// openBroker falls back to a no-op broker when Redis is not configured or
// not reachable; change events are best effort.
func openBroker(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) messaging.Broker {
	if cfg.URL == "" {
		return messaging.NopBroker{}
	}

	broker, err := redis.NewRedisBroker(ctx, redis.Config{
		URL:          cfg.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, log.Zerolog())
	if err != nil {
		log.Error(err, "change events disabled")
		return messaging.NopBroker{}
	}
	return broker
}

func runServer(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	// Initialize database
	store, err := openStore(ctx, cfg.Database, m)
	if err != nil {
		log.Error(err, "failed to open database")
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error(err, "failed to close database")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.Timeout)
	if err := store.Ping(pingCtx); err != nil {
		log.Error(err, "database not reachable, serving anyway", "driver", cfg.Database.Driver)
	} else {
		log.Info("connected to database", "driver", cfg.Database.Driver)
	}
	cancel()

	broker := openBroker(ctx, cfg.Redis, log)
	defer broker.Close()
	events := event.NewPublisher(broker, cfg.Redis.Channel, log, m)

	// Initialize services
	repos := store.Repositories()
	refs := reference.NewResolver(repos)
	patientSvc := patientService.NewService(repos.Patients, events)
	doctorSvc := doctorService.NewService(repos.Doctors, events)
	appointmentSvc := appointmentService.NewService(repos.Appointments, refs, events)
	prescriptionSvc := prescriptionService.NewService(repos.Prescriptions, refs, events)

	handlers := []router.Handler{
		health.NewHandler(store),
		patientHandler.NewHandler(patientSvc),
		doctorHandler.NewHandler(doctorSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		prescriptionHandler.NewHandler(prescriptionSvc),
	}
	if m != nil {
		handlers = append(handlers, prometheus.New(m))
	}

	routerCfg := router.RouterConfig{
		Mode:           cfg.Server.Mode,
		CORSConfig:     middleware.DefaultCORSConfig(),
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodySize:    cfg.Server.MaxBodyBytes,
	}
	routerCfg.CORSConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerCfg.RateBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(routerCfg, m, handlers...)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(fmt.Sprintf("Server running on port %d", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		log.Error(err, "failed to start server")
		return err
	case <-quit:
	case <-ctx.Done():
	}
	log.Info("shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "server forced to shutdown")
		return err
	}

	log.Info("server exited properly")
	return nil
}

func runMigrate(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg.Database, nil)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := store.Migrate(migrateCtx); err != nil {
		log.Error(err, "migration failed", "driver", cfg.Database.Driver)
		return err
	}

	log.Info("migration complete", "driver", cfg.Database.Driver)
	return nil
}

func runListener(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	if cfg.Redis.URL == "" {
		return errors.New("redis url is not configured")
	}

	broker, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Redis.URL}, log.Zerolog())
	if err != nil {
		return err
	}
	defer broker.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return worker.NewEventListener(broker, cfg.Redis.Channel, worker.LogEvents(log), log).Start(ctx)
}
