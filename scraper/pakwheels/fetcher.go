package pakwheels

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"pakwheels-scraper/config"
	"pakwheels-scraper/models"
	"pakwheels-scraper/utils"
)

// retryableStatus holds the response codes the HTTP client retries on its
// own before the outer loop ever sees a failure.
var retryableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Fetcher downloads search-result pages. Two retry layers compose here:
// the resty client re-requests on 429/5xx with a fixed wait, and FetchPage
// wraps that in an attempt loop with growing timeouts and exponential
// backoff for timeouts and transport errors.
type Fetcher struct {
	cfg    *config.Config
	client *resty.Client
	policy utils.BackoffPolicy
}

func NewFetcher(cfg *config.Config) *Fetcher {
	client := resty.New().
		SetHeader("User-Agent", utils.RandomUserAgent()).
		SetHeader("Accept-Language", cfg.AcceptLanguage).
		SetRetryCount(cfg.StatusRetries).
		SetRetryWaitTime(cfg.StatusRetryWait).
		SetRetryMaxWaitTime(cfg.StatusRetryWait). // pin the wait — linear, not ramping
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && retryableStatus[r.StatusCode()]
		})

	return &Fetcher{
		cfg:    cfg,
		client: client,
		policy: utils.BackoffPolicy{
			BaseTimeout:      cfg.BaseTimeout,
			TimeoutIncrement: cfg.TimeoutIncrement,
			BaseDelay:        cfg.BaseDelay,
		},
	}
}

// FetchPage returns the listings on one search-results page.
//
// Timeouts and transport/server errors are retried up to cfg.MaxRetries
// times with the policy's growing timeout and doubling delay; exhaustion
// yields (nil, false) and the run moves on. A page that downloads but
// cannot be parsed as a document is not retried — the markup won't get
// better on a second request. Cancellation stops retrying immediately.
func (f *Fetcher) FetchPage(ctx context.Context, page int) ([]models.ListingRecord, bool) {
	for attempt := 0; attempt < f.cfg.MaxRetries; attempt++ {
		utils.Info("Scraping page %d... (attempt %d/%d)", page, attempt+1, f.cfg.MaxRetries)

		body, err := f.get(ctx, page, f.policy.Timeout(attempt))
		if err == nil {
			records, perr := Extract(body)
			if perr != nil {
				utils.Error("Unexpected error on page %d: %v", page, perr)
				return nil, false
			}
			utils.Info("  -> found %d cars on this page", len(records))
			return records, true
		}

		if errors.Is(err, context.Canceled) {
			return nil, false
		}

		if attempt < f.cfg.MaxRetries-1 {
			wait := f.policy.Delay(attempt)
			utils.Warn("Request failed on page %d (attempt %d/%d): %v", page, attempt+1, f.cfg.MaxRetries, err)
			utils.Warn("Waiting %v before retry...", wait)
			if !utils.SleepCtx(ctx, wait) {
				return nil, false
			}
		} else {
			utils.Error("Failed to scrape page %d after %d attempts", page, f.cfg.MaxRetries)
		}
	}
	return nil, false
}

// get performs one attempt with its own deadline layered on the run
// context.
func (f *Fetcher) get(ctx context.Context, page int, timeout time.Duration) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := f.client.R().
		SetContext(reqCtx).
		SetQueryParam("page", strconv.Itoa(page)).
		Get(f.cfg.SearchURL)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("server returned %s", res.Status())
	}
	return res.String(), nil
}
