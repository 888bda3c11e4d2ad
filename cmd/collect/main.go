// The collector runs one collection pipeline: it pulls the playlist's
// video metadata from the YouTube Data API, derives engagement metrics,
// and overwrites the CSV dataset the dashboard serves.
package main

import (
	"context"
	"log/slog"
	"os"

	"pitwall/config"
	"pitwall/fetch"
	"pitwall/pipeline"
	"pitwall/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	guard := fetch.NewGuard(cfg.RateCalls, cfg.RatePeriod, fetch.DefaultRetryConfig, logger)
	api, err := fetch.NewYoutubeAPI(ctx, cfg.APIKey, guard, logger)
	if err != nil {
		logger.Error("unable to initialize youtube service", slog.Any("error", err))
		os.Exit(1)
	}

	client := fetch.NewClient(api, guard, logger)
	sink := storage.NewCSVFile(cfg.DatasetPath, logger)

	summary, err := pipeline.New(client, sink, logger).Run(ctx, cfg.PlaylistID)
	if err != nil {
		logger.Error("collection failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("collection finished",
		slog.String("run_id", summary.RunID.String()),
		slog.Int("records", summary.Records),
		slog.String("dataset", cfg.DatasetPath))
}
