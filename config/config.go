package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every knob of a scrape run. Defaults reproduce the stock
// run against pakwheels.com; each field can be overridden through the
// matching environment variable.
type Config struct {
	// SearchURL is the used-cars search endpoint; pages are requested by
	// appending ?page=<n>.
	SearchURL string `envconfig:"SEARCH_URL" default:"https://www.pakwheels.com/used-cars/search/-/"`

	// MaxPages is the page ceiling; the run walks pages 1..MaxPages.
	MaxPages int `envconfig:"MAX_PAGES" default:"2000"`

	// MaxRetries is the attempt ceiling of the outer per-page retry loop.
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// BaseTimeout and TimeoutIncrement shape the per-attempt request
	// timeout: BaseTimeout + attempt*TimeoutIncrement.
	BaseTimeout      time.Duration `envconfig:"BASE_TIMEOUT" default:"20s"`
	TimeoutIncrement time.Duration `envconfig:"TIMEOUT_INCREMENT" default:"10s"`

	// BaseDelay seeds the exponential backoff between failed attempts
	// (BaseDelay, 2x, 4x, ...).
	BaseDelay time.Duration `envconfig:"BASE_DELAY" default:"2s"`

	// StatusRetries and StatusRetryWait configure the lower HTTP-client
	// retry layer for 429/5xx responses (fixed wait between tries).
	StatusRetries   int           `envconfig:"STATUS_RETRIES" default:"3"`
	StatusRetryWait time.Duration `envconfig:"STATUS_RETRY_WAIT" default:"1s"`

	// PageDelay is the pause after a page that yielded records;
	// EmptyPageDelay after a page that yielded none.
	PageDelay      time.Duration `envconfig:"PAGE_DELAY" default:"1500ms"`
	EmptyPageDelay time.Duration `envconfig:"EMPTY_PAGE_DELAY" default:"2s"`

	// SaveInterval is the checkpoint cadence in pages.
	SaveInterval int `envconfig:"SAVE_INTERVAL" default:"20"`

	// OutputDir receives the backup and final CSV files.
	OutputDir string `envconfig:"OUTPUT_DIR" default:"output"`

	AcceptLanguage string `envconfig:"ACCEPT_LANGUAGE" default:"en-US,en;q=0.9"`

	// EnablePostgres turns on the optional database sink for the final
	// collection. CSV output is unconditional.
	EnablePostgres bool   `envconfig:"ENABLE_POSTGRES" default:"false"`
	DBHost         string `envconfig:"DB_HOST" default:"localhost"`
	DBPort         int    `envconfig:"DB_PORT" default:"5432"`
	DBUser         string `envconfig:"DB_USER" default:"postgres"`
	DBPassword     string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName         string `envconfig:"DB_NAME" default:"pakwheels_scraper"`
	DBSSLMode      string `envconfig:"DB_SSLMODE" default:"disable"`
}

// Load reads an optional .env file, then fills the Config from the
// environment, falling back to the defaults above.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Missing .env just means vars come from the real environment.
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Printf("Warning: .env file found but could not be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
