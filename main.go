package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pakwheels-scraper/config"
	"pakwheels-scraper/scraper/pakwheels"
	"pakwheels-scraper/storage"
	"pakwheels-scraper/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	utils.Section("PakWheels scraper")
	utils.Info("Starting | pages=%d retries=%d save-interval=%d",
		cfg.MaxPages, cfg.MaxRetries, cfg.SaveInterval)

	// Ctrl+C / SIGTERM cancels the context; the driver routes that into
	// its finalization step instead of dying mid-run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := pakwheels.NewFetcher(cfg)
	store := storage.NewCSVWriter(cfg.OutputDir)
	driver := pakwheels.NewDriver(cfg, fetcher, store)

	driver.Run(ctx)

	if driver.State() == pakwheels.StateInterrupted {
		utils.Warn("Scraping interrupted by user!")
	}

	if cfg.EnablePostgres && len(driver.Records()) > 0 {
		flushToPostgres(cfg, driver)
	}
}

func flushToPostgres(cfg *config.Config, driver *pakwheels.Driver) {
	pgWriter, err := storage.NewPostgresWriter(cfg)
	if err != nil {
		utils.Error("Failed to connect PostgreSQL: %v", err)
		return
	}
	defer pgWriter.Close()

	if err := pgWriter.EnsureSchema(); err != nil {
		utils.Error("Failed to ensure PostgreSQL schema: %v", err)
		return
	}

	if err := pgWriter.WriteBatch(driver.Records()); err != nil {
		utils.Error("Failed to save listings to PostgreSQL: %v", err)
		return
	}
	utils.Success("Saved %d listings to PostgreSQL", len(driver.Records()))
}
