package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/MrJamesThe3rd/kakeibo/internal/config"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense/store"
	"github.com/MrJamesThe3rd/kakeibo/internal/export"
	kakeiboHttp "github.com/MrJamesThe3rd/kakeibo/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/analytics"
	expenseHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/expense"
	settingsHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/settings"
	syncHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/sheetsync"
	transferHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/transfer"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
	"github.com/MrJamesThe3rd/kakeibo/internal/logging"
	"github.com/MrJamesThe3rd/kakeibo/internal/sheetsync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx := context.Background()

	backend, closeBackend, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeBackend()

	expenseService := expense.NewService(backend,
		expense.WithLogger(logging.WithComponent(logger, logging.ComponentStorage)))

	if err := expenseService.Init(ctx); err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	var (
		importService = importer.NewService()
		exportService = export.NewService(expenseService)
		syncService   = sheetsync.NewService(
			sheetsync.NewClient(cfg.Sync.Endpoint, cfg.Sync.Timeout),
			expenseService,
			cfg.Sync.SpreadsheetID,
			logging.WithComponent(logger, logging.ComponentSync),
		)
	)

	var (
		expenseH   = expenseHandler.NewHandler(expenseService)
		analyticsH = analyticsHandler.NewHandler(expenseService)
		settingsH  = settingsHandler.NewHandler(expenseService)
		transferH  = transferHandler.NewHandler(exportService, importService, expenseService)
		syncH      = syncHandler.NewHandler(syncService, expenseService)
	)

	router := kakeiboHttp.New(kakeiboHttp.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		AuthSecret:  cfg.Server.AuthSecret,
	}, expenseH, analyticsH, settingsH, transferH, syncH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", server.Addr, "storage", cfg.Storage.Driver)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
