package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pakwheels-scraper/models"
)

// RunReport summarizes a finished scrape run.
type RunReport struct {
	TotalRecords   int
	PagesProcessed int
	Elapsed        time.Duration
	Outcome        string
	RecordsByCity  map[string]int
}

// BuildRunReport computes the final statistics over the accumulated
// collection.
func BuildRunReport(records []models.ListingRecord, pages int, elapsed time.Duration, outcome string) RunReport {
	report := RunReport{
		TotalRecords:   len(records),
		PagesProcessed: pages,
		Elapsed:        elapsed,
		Outcome:        outcome,
		RecordsByCity:  make(map[string]int),
	}

	for _, r := range records {
		report.RecordsByCity[normalizeCity(r.City)]++
	}

	return report
}

// PrintRunReport renders the run statistics and the per-city breakdown.
func PrintRunReport(report RunReport) {
	fmt.Println()
	fmt.Println("┌──────────────────────────────────────────────────────────────┐")
	fmt.Println("│                      Final Statistics                        │")
	fmt.Println("├───────────────────────────────┬──────────────────────────────┤")
	fmt.Printf("│ %-29s │ %-28d │\n", "Total cars collected", report.TotalRecords)
	fmt.Printf("│ %-29s │ %-28d │\n", "Pages scraped", report.PagesProcessed)
	fmt.Printf("│ %-29s │ %-28s │\n", "Total time", formatElapsed(report.Elapsed))
	fmt.Printf("│ %-29s │ %-28s │\n", "Outcome", report.Outcome)
	fmt.Println("└───────────────────────────────┴──────────────────────────────┘")

	if len(report.RecordsByCity) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("┌──────────────────────────────────────────────┬───────────────┐")
	fmt.Println("│ Listings per City                            │ Count         │")
	fmt.Println("├──────────────────────────────────────────────┼───────────────┤")
	for _, city := range sortedCities(report.RecordsByCity) {
		fmt.Printf("│ %-44s │ %-13d │\n", city, report.RecordsByCity[city])
	}
	fmt.Println("└──────────────────────────────────────────────┴───────────────┘")
	fmt.Println()
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.2fs (%.2f min)", d.Seconds(), d.Minutes())
}

func normalizeCity(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return "Unknown"
	}
	return city
}

func sortedCities(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
