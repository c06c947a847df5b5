package pakwheels

import (
	"context"
	"fmt"
	"time"

	"pakwheels-scraper/config"
	"pakwheels-scraper/models"
	"pakwheels-scraper/services"
	"pakwheels-scraper/storage"
	"pakwheels-scraper/utils"
)

// State is the driver's run state. It starts RUNNING and ends in exactly
// one of the three terminal states.
type State int

const (
	StateRunning State = iota
	StateInterrupted
	StateErrored
	StateDone
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateInterrupted:
		return "interrupted"
	case StateErrored:
		return "errored"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// PageSource yields the listings for one search-results page.
type PageSource interface {
	FetchPage(ctx context.Context, page int) ([]models.ListingRecord, bool)
}

// Driver walks pages 1..MaxPages sequentially, accumulating records and
// checkpointing the whole collection every SaveInterval pages. It owns all
// run state: the collection, the page counter and the consecutive-empty
// counter.
type Driver struct {
	cfg    *config.Config
	source PageSource
	store  *storage.CSVWriter

	records          []models.ListingRecord
	page             int
	consecutiveEmpty int
	state            State
	started          time.Time
}

func NewDriver(cfg *config.Config, source PageSource, store *storage.CSVWriter) *Driver {
	return &Driver{
		cfg:    cfg,
		source: source,
		store:  store,
		page:   1,
		state:  StateRunning,
	}
}

// Run executes the scrape loop until the page ceiling, an interrupt, or a
// panic escaping the loop body. All three paths flow through one
// finalization step that prints run statistics and writes the final CSV.
func (d *Driver) Run(ctx context.Context) {
	d.started = time.Now()

	defer d.finalize()
	defer func() {
		if r := recover(); r != nil {
			d.state = StateErrored
			utils.Error("Unexpected error: %v", r)
		}
	}()

	for d.page <= d.cfg.MaxPages {
		if ctx.Err() != nil {
			d.state = StateInterrupted
			return
		}

		records, _ := d.source.FetchPage(ctx, d.page)

		if len(records) == 0 {
			if ctx.Err() != nil {
				d.state = StateInterrupted
				return
			}
			utils.Warn("No cars found on page %d", d.page)
			// Tracked for a future early-stop policy; nothing reads it yet.
			d.consecutiveEmpty++
			d.page++
			if !utils.SleepCtx(ctx, d.cfg.EmptyPageDelay) {
				d.state = StateInterrupted
				return
			}
			continue
		}

		d.consecutiveEmpty = 0
		d.records = append(d.records, records...)
		utils.Info("Total collected so far: %d", len(d.records))

		if d.page%d.cfg.SaveInterval == 0 {
			name := fmt.Sprintf(storage.BackupFilenamePattern, d.page)
			if err := d.store.Write(d.records, name); err != nil {
				utils.Error("Checkpoint at page %d failed: %v", d.page, err)
			} else {
				utils.Success("Checkpoint saved at page %d", d.page)
			}
		}

		d.page++
		if !utils.SleepCtx(ctx, d.cfg.PageDelay) {
			d.state = StateInterrupted
			return
		}
	}

	d.state = StateDone
}

// finalize prints the run report and writes the final CSV. It runs on
// every terminal path, including interrupts and recovered panics, so a
// long run never loses what it collected.
func (d *Driver) finalize() {
	report := services.BuildRunReport(d.records, d.page-1, time.Since(d.started), d.state.String())
	services.PrintRunReport(report)

	if len(d.records) == 0 {
		utils.Warn("No data collected")
		return
	}
	if err := d.store.Write(d.records, storage.FinalFilename); err != nil {
		utils.Error("Final save failed: %v", err)
		return
	}
	utils.Success("Scraping complete")
}

// Records returns the collection accumulated so far, in insertion order.
func (d *Driver) Records() []models.ListingRecord {
	return d.records
}

// State reports the driver's current (or terminal) state.
func (d *Driver) State() State {
	return d.state
}

// ConsecutiveEmpty reports how many pages in a row yielded no listings.
func (d *Driver) ConsecutiveEmpty() int {
	return d.consecutiveEmpty
}
