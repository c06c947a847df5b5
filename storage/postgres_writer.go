package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pakwheels-scraper/config"
	"pakwheels-scraper/models"
)

// PostgresWriter is the optional database sink for the final collection.
// Inserts are plain appends — the collection itself keeps duplicates, so
// the table does too.
type PostgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(cfg *config.Config) (*PostgresWriter, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{pool: pool}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

func (w *PostgresWriter) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS car_listings (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		price TEXT,
		city TEXT,
		year TEXT,
		mileage TEXT,
		color TEXT,
		registered_in TEXT,
		fuel_type TEXT,
		engine_capacity TEXT,
		transmission TEXT,
		link TEXT,
		scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_car_listings_city ON car_listings(city);
	CREATE INDEX IF NOT EXISTS idx_car_listings_year ON car_listings(year);
	`

	if _, err := w.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (w *PostgresWriter) WriteBatch(records []models.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	insertSQL := `
	INSERT INTO car_listings (title, price, city, year, mileage, color,
		registered_in, fuel_type, engine_capacity, transmission, link)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	enqueued := 0
	for _, r := range records {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}

		batch.Queue(
			insertSQL,
			title,
			r.Price,
			r.City,
			r.Year,
			r.Mileage,
			r.Color,
			r.RegisteredIn,
			r.FuelType,
			r.EngineCapacity,
			r.Transmission,
			strings.TrimSpace(r.Link),
		)
		enqueued++
	}

	if enqueued == 0 {
		return nil
	}

	results := w.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < enqueued; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}

	return nil
}
