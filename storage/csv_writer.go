package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"pakwheels-scraper/models"
	"pakwheels-scraper/utils"
)

const (
	// FinalFilename receives the whole collection when the run ends.
	FinalFilename = "pakwheels_cars_final.csv"
	// BackupFilenamePattern names the periodic checkpoints by the page
	// the run had reached.
	BackupFilenamePattern = "pakwheels_cars_backup_page%d.csv"
)

var csvHeader = []string{
	"title", "price", "city", "year", "mileage", "color",
	"registered_in", "fuel_type", "engine_capacity", "transmission", "link",
}

// CSVWriter checkpoints the accumulated collection as CSV files under one
// output directory. Every write is a full rewrite of the given file —
// crude, but it makes any checkpoint usable on its own after a crash.
type CSVWriter struct {
	dir string
}

func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// Write saves all records to filename inside the output directory,
// overwriting it if present. Empty collections are never written.
func (w *CSVWriter) Write(records []models.ListingRecord, filename string) error {
	if len(records) == 0 {
		utils.Warn("No records to write")
		return nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	path := filepath.Join(w.dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	// csv.NewWriter handles quoting, commas inside fields, line endings
	writer := csv.NewWriter(file)
	defer writer.Flush() // IMPORTANT — must flush or data stays in buffer

	writer.Write(csvHeader)

	for _, r := range records {
		writer.Write([]string{
			r.Title,
			r.Price,
			r.City,
			r.Year,
			r.Mileage,
			r.Color,
			r.RegisteredIn,
			r.FuelType,
			r.EngineCapacity,
			r.Transmission,
			r.Link,
		})
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	utils.Success("Saved %d records → %s", len(records), path)
	return nil
}
