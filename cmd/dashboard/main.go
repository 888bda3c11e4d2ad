// The dashboard serves analytics views over the collector's dataset
// file. It loads a snapshot at startup and refreshes it only through
// the explicit reload endpoint.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pitwall/config"
	"pitwall/dashboard"
	"pitwall/storage"
)

const filterCacheSize = 64

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.LoadDashboard()

	reader := storage.NewCSVFile(cfg.DatasetPath, logger)
	store := dashboard.NewStore(reader, logger)
	store.Reload()

	cache, err := dashboard.NewFilterCache(filterCacheSize)
	if err != nil {
		logger.Error("unable to build filter cache", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: dashboard.NewServer(store, cache, logger).Router(),
	}

	go func() {
		logger.Info("dashboard started", slog.String("port", cfg.Port), slog.String("dataset", cfg.DatasetPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down dashboard")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", slog.Any("error", err))
	}
	logger.Info("dashboard stopped")
}
