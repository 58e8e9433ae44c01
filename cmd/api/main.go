package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-engine/internal/db"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/events"
	"github.com/BruksfildServices01/booking-engine/internal/handlers"
	"github.com/BruksfildServices01/booking-engine/internal/idempotency"
	"github.com/BruksfildServices01/booking-engine/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/booking-engine/internal/infra/repository"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/routes"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg)
	metrics.Register()

	// ======================================================
	// STORE
	// ======================================================
	var (
		store domain.Store
		db    *gorm.DB
	)
	checks := map[string]handlers.Pinger{}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		mem := memory.New()
		if cfg.SeedPath != "" {
			seed, err := memory.LoadSeedFile(cfg.SeedPath)
			if err != nil {
				logger.Fatal().Err(err).Msg("failed to load seed")
			}
			if err := seed.Apply(context.Background(), mem); err != nil {
				logger.Fatal().Err(err).Msg("failed to apply seed")
			}
		}
		store = mem
		logger.Warn().Msg("using in-memory store, data is not persisted")
	default:
		db, err = dbpkg.NewDB(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open database")
		}
		store = infraRepo.NewBookingGormRepository(db)
	}
	checks["store"] = store

	// ======================================================
	// AUDIT + EVENTS
	// ======================================================
	var sinks []audit.Sink
	if db != nil {
		sinks = append(sinks, audit.New(db))
	}

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.Dial(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		sinks = append(sinks, publisher)
	}

	auditDispatcher := audit.NewDispatcher(logger, sinks...)

	// ======================================================
	// IDEMPOTENCY
	// ======================================================
	deps := routes.Dependencies{
		Config: cfg,
		Store:  store,
		Audit:  auditDispatcher,
		Clock:  timezone.UTC(),
		Logger: logger,
		DB:     db,
		Checks: checks,
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		idem := idempotency.New(rdb, cfg.IdempotencyTTL)
		deps.Idempotency = idem
		checks["redis"] = idem
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.LogFormat != "console" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.CORSMiddleware(),
	)

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Str("store", cfg.StoreDriver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if err := auditDispatcher.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("audit drain")
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("rabbitmq close")
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogFormat == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
