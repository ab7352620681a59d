package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/pharmstock/backend/internal/application/audit"
	notificationapp "github.com/pharmstock/backend/internal/application/notification"
	stockapp "github.com/pharmstock/backend/internal/application/stock"
	"github.com/pharmstock/backend/internal/infrastructure/cache"
	"github.com/pharmstock/backend/internal/infrastructure/config"
	"github.com/pharmstock/backend/internal/infrastructure/event"
	"github.com/pharmstock/backend/internal/infrastructure/logger"
	"github.com/pharmstock/backend/internal/infrastructure/persistence"
	"github.com/pharmstock/backend/internal/infrastructure/scheduler"
	"github.com/pharmstock/backend/internal/interfaces/http/handler"
	"github.com/pharmstock/backend/internal/interfaces/http/middleware"
	"github.com/pharmstock/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting pharmacy stock backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Repositories
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	locationRepo := persistence.NewGormBatchLocationRepository(db.DB)
	poItemRepo := persistence.NewGormPurchaseOrderItemRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	auditRepo := persistence.NewGormAuditLogRepository(db.DB)

	// Event bus and audit trail
	ctx := context.Background()
	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	recorder := auditapp.NewRecorderWithQueueSize(auditRepo, log, cfg.Audit.QueueSize)
	if err := recorder.Start(ctx); err != nil {
		log.Fatal("Failed to start audit recorder", zap.Error(err))
	}
	bus.Subscribe(recorder)

	// Application services
	alertService := stockapp.NewAlertService(batchRepo, notificationRepo, log)
	scope := persistence.NewGormTransactionScope(db.DB)
	ledgerService := stockapp.NewLedgerService(scope, ledgerRepo, alertService, bus, log)
	batchService := stockapp.NewBatchService(batchRepo, ledgerRepo, locationRepo, poItemRepo, alertService, bus, log)
	notificationService := notificationapp.NewService(notificationRepo, log)

	// Expiry scan, serialized through Redis when more than one instance
	// shares the database
	var scanLock cache.ScanLock
	var redisLock *cache.RedisScanLock
	if cfg.Redis.Enabled {
		redisLock, err = cache.NewRedisScanLock(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		scanLock = redisLock
		log.Info("Using Redis scan lock")
	} else {
		scanLock = cache.NewLocalScanLock()
	}

	scanScheduler := scheduler.NewExpiryScanScheduler(alertService, scanLock, log, scheduler.ExpiryScanSchedulerConfig{
		Enabled:      cfg.ExpiryScan.Enabled,
		Interval:     cfg.ExpiryScan.Interval,
		RunAtStartup: cfg.ExpiryScan.RunAtStartup,
		LockTTL:      cfg.ExpiryScan.LockTTL,
	})
	if err := scanScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start expiry scan scheduler", zap.Error(err))
	}

	// HTTP server
	middleware.SetupValidator()
	r := router.NewRouter(log)
	r.Register(handler.NewStockHandler(batchService, ledgerService))
	r.Register(handler.NewNotificationHandler(notificationService))
	r.Setup()

	engine := r.Engine()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := scanScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Expiry scan scheduler shutdown failed", zap.Error(err))
	}
	if err := recorder.Stop(shutdownCtx); err != nil {
		log.Error("Audit recorder shutdown failed", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus shutdown failed", zap.Error(err))
	}
	if redisLock != nil {
		if err := redisLock.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}

	log.Info("Server stopped")
}
