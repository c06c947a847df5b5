package pakwheels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pakwheels-scraper/config"
)

func fetcherTestConfig(url string) *config.Config {
	return &config.Config{
		SearchURL:        url,
		MaxRetries:       5,
		BaseTimeout:      40 * time.Millisecond,
		TimeoutIncrement: 10 * time.Millisecond,
		BaseDelay:        time.Millisecond,
		StatusRetries:    0,
		StatusRetryWait:  time.Millisecond,
		AcceptLanguage:   "en-US,en;q=0.9",
	}
}

func TestFetchPageRecoversAfterTimeouts(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First four attempts stall past every configured timeout;
		// the fifth responds normally.
		if atomic.AddInt64(&hits, 1) <= 4 {
			time.Sleep(200 * time.Millisecond)
			return
		}
		w.Write([]byte(searchResultsFixture))
	}))
	defer srv.Close()

	f := NewFetcher(fetcherTestConfig(srv.URL))
	records, ok := f.FetchPage(context.Background(), 1)

	require.True(t, ok)
	assert.Len(t, records, 2)
	assert.EqualValues(t, 5, atomic.LoadInt64(&hits))
}

func TestFetchPageGivesUpAfterMaxRetries(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewFetcher(fetcherTestConfig(srv.URL))
	records, ok := f.FetchPage(context.Background(), 7)

	assert.False(t, ok)
	assert.Nil(t, records)
	assert.EqualValues(t, 5, atomic.LoadInt64(&hits))
}

func TestFetchPageRetriesServerErrorsInClient(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(searchResultsFixture))
	}))
	defer srv.Close()

	cfg := fetcherTestConfig(srv.URL)
	cfg.StatusRetries = 3

	f := NewFetcher(cfg)
	records, ok := f.FetchPage(context.Background(), 1)

	// The client-level retry layer absorbs the 503s; the outer loop never
	// sees a failure.
	require.True(t, ok)
	assert.Len(t, records, 2)
	assert.EqualValues(t, 3, atomic.LoadInt64(&hits))
}

func TestFetchPageSendsPageParamAndHeaders(t *testing.T) {
	var gotPage, gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte(searchResultsFixture))
	}))
	defer srv.Close()

	f := NewFetcher(fetcherTestConfig(srv.URL))
	_, ok := f.FetchPage(context.Background(), 42)

	require.True(t, ok)
	assert.Equal(t, "42", gotPage)
	assert.Contains(t, gotUA, "Mozilla/5.0")
	assert.Equal(t, "en-US,en;q=0.9", gotLang)
}

func TestFetchPageStopsOnCancellation(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(fetcherTestConfig(srv.URL))
	records, ok := f.FetchPage(ctx, 1)

	assert.False(t, ok)
	assert.Nil(t, records)
}
