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

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/config"
	"github.com/mamadbah2/warehouse/internal/repository"
	"github.com/mamadbah2/warehouse/internal/repository/filestore"
	"github.com/mamadbah2/warehouse/internal/repository/mongodb"
	"github.com/mamadbah2/warehouse/internal/repository/postgres"
	"github.com/mamadbah2/warehouse/internal/repository/sheets"
	"github.com/mamadbah2/warehouse/internal/scheduler"
	"github.com/mamadbah2/warehouse/internal/server/handlers"
	"github.com/mamadbah2/warehouse/internal/server/router"
	"github.com/mamadbah2/warehouse/internal/service/inventory"
	"github.com/mamadbah2/warehouse/internal/service/mirror"
	"github.com/mamadbah2/warehouse/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init ledger store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close ledger store", zap.Error(err))
		}
	}()

	inventorySvc := inventory.NewService(store, baseLogger.Named("svc.inventory"))
	if err := inventorySvc.Load(context.Background()); err != nil {
		baseLogger.Fatal("failed to load ledger", zap.Error(err))
	}

	var mirrorSvc scheduler.Syncer
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		mirrorSvc = mirror.NewService(inventorySvc, sheetsRepo, cfg.Sheets.Tab, baseLogger.Named("svc.mirror"))
		baseLogger.Info("sheets mirror enabled", zap.String("tab", cfg.Sheets.Tab))
	} else {
		baseLogger.Warn("sheets credentials missing, ledger mirror disabled")
	}

	sched := scheduler.NewScheduler(cfg.Scheduler, inventorySvc, mirrorSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	ledgerHandler := handlers.NewLedgerHandler(inventorySvc, baseLogger.Named("handlers.ledger"))
	engine := router.New(ledgerHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	sched.Stop()

	if saved, err := inventorySvc.Flush(shutdownCtx); err != nil {
		baseLogger.Error("final save failed", zap.Error(err))
	} else if saved {
		baseLogger.Info("ledger saved on shutdown")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverFile:
		store := filestore.New(cfg.File.Path, log.Named("repo.file"))
		log.Info("using ledger file", zap.String("path", store.Path()))
		return store, nil
	case config.DriverMongoDB:
		return mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.Store.Name, log.Named("repo.mongodb"))
	case config.DriverPostgres:
		return postgres.Open(cfg.Postgres.DSN, cfg.Store.Name, log.Named("repo.postgres"))
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
