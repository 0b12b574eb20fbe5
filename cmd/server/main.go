package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/metung95-cpu/ajet-stock/internal/cache"
	"github.com/metung95-cpu/ajet-stock/internal/config"
	"github.com/metung95-cpu/ajet-stock/internal/metrics"
	"github.com/metung95-cpu/ajet-stock/internal/repository/mongodb"
	"github.com/metung95-cpu/ajet-stock/internal/repository/sheets"
	"github.com/metung95-cpu/ajet-stock/internal/scheduler"
	"github.com/metung95-cpu/ajet-stock/internal/server/handlers"
	"github.com/metung95-cpu/ajet-stock/internal/server/router"
	authsvc "github.com/metung95-cpu/ajet-stock/internal/service/auth"
	inventorysvc "github.com/metung95-cpu/ajet-stock/internal/service/inventory"
	reportingsvc "github.com/metung95-cpu/ajet-stock/internal/service/reporting"
	shipmentsvc "github.com/metung95-cpu/ajet-stock/internal/service/shipment"
	whatsappsvc "github.com/metung95-cpu/ajet-stock/internal/service/whatsapp"
	whatsappclient "github.com/metung95-cpu/ajet-stock/pkg/clients/whatsapp"
	"github.com/metung95-cpu/ajet-stock/pkg/logger"
)

const sheetsTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx := context.Background()
	appMetrics := metrics.New("ajet_stock")
	loc := cfg.Ledger.Location()

	inventorySheet, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets.CredentialsPath, cfg.Sheets.InventorySpreadsheetID, baseLogger.Named("repo.sheets.inventory"))
	if err != nil {
		baseLogger.Fatal("failed to init inventory sheets repository", zap.Error(err))
	}
	ledgerSheet, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets.CredentialsPath, cfg.Sheets.LedgerSpreadsheetID, baseLogger.Named("repo.sheets.ledger"))
	if err != nil {
		baseLogger.Fatal("failed to init ledger sheets repository", zap.Error(err))
	}
	inventoryRepo := sheets.NewBreakerRepository("sheets.inventory", inventorySheet, sheetsTimeout, baseLogger.Named("repo.breaker"))
	ledgerRepo := sheets.NewBreakerRepository("sheets.ledger", ledgerSheet, sheetsTimeout, baseLogger.Named("repo.breaker"))

	var store cache.Store = cache.NewMemoryStore()
	if cfg.Inventory.CacheBackend == "redis" {
		redisStore, err := cache.NewRedisStore(ctx, cfg.Inventory.RedisURL, "ajet-stock:")
		if err != nil {
			baseLogger.Fatal("failed to init redis cache", zap.Error(err))
		}
		defer func() { _ = redisStore.Close() }()
		store = redisStore
		baseLogger.Info("redis inventory cache enabled")
	}

	inventory := inventorysvc.NewService(inventoryRepo, store, inventorysvc.Options{
		SheetRange:    cfg.Sheets.InventoryRange,
		TTL:           cfg.Inventory.CacheTTL,
		MainWarehouse: cfg.Inventory.MainWarehouse,
		Metrics:       appMetrics,
	}, baseLogger.Named("svc.inventory"))

	shipmentOpts := []shipmentsvc.Option{shipmentsvc.WithMetrics(appMetrics)}

	var auditReader handlers.AuditReader
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		auditReader = mongoRepo
		shipmentOpts = append(shipmentOpts, shipmentsvc.WithAuditor(mongoRepo))
		baseLogger.Info("shipment audit log enabled")
	} else {
		baseLogger.Warn("mongodb uri missing, shipment audit log disabled")
	}

	var notifier *whatsappsvc.NotificationService
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(whatsappclient.Options{
			BaseURL:       cfg.WhatsApp.BaseURL,
			APIVersion:    cfg.WhatsApp.APIVersion,
			AccessToken:   cfg.WhatsApp.AccessToken,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			Timeout:       10 * time.Second,
		})
		notifier = whatsappsvc.NewNotificationService(whatsClient, cfg.WhatsApp.GroupID, baseLogger.Named("svc.whatsapp"))
		shipmentOpts = append(shipmentOpts, shipmentsvc.WithNotifier(notifier))
		baseLogger.Info("whatsapp notifications enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, notifications disabled")
	}

	shipments := shipmentsvc.NewService(inventory, ledgerRepo, cfg.Sheets.LedgerSheet, shipmentsvc.Defaults{
		Manager:   cfg.Ledger.DefaultManager,
		Warehouse: cfg.Ledger.DefaultWarehouse,
		Location:  loc,
	}, baseLogger.Named("svc.shipment"), shipmentOpts...)

	auth, err := authsvc.NewService(cfg.Auth, authsvc.NewSessionStore(), baseLogger.Named("svc.auth"))
	if err != nil {
		baseLogger.Fatal("failed to init auth service", zap.Error(err))
	}

	reporting := reportingsvc.NewService(ledgerRepo, cfg.Sheets.LedgerSheet, baseLogger.Named("svc.reporting"))

	jobs := scheduler.Jobs{
		Warmer:       inventory,
		WarmSchedule: cfg.Inventory.WarmSchedule,
		Sweeper:      auth,
	}
	if notifier != nil {
		jobs.Reporter = reporting
		jobs.Sender = notifier
		jobs.SummarySchedule = cfg.Reporting.CronSchedule
	}
	sched := scheduler.NewScheduler(jobs, loc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(auth, cfg.Auth.CookieSecure, baseLogger.Named("handlers.auth")),
		Inventory: handlers.NewInventoryHandler(inventory, baseLogger.Named("handlers.inventory")),
		Shipments: handlers.NewShipmentHandler(shipments, auditReader, reporting, loc, baseLogger.Named("handlers.shipments")),
	}, auth, router.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        appMetrics,
	}, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-sigCtx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
