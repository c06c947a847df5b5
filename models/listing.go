package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ListingRecord is one scraped used-car ad. Every field is kept as the
// display string the site shows; nothing is normalized beyond trimming.
// Records are append-only — the same ad seen on two pages yields two records.
type ListingRecord struct {
	Title          string
	Price          string
	City           string
	Year           string
	Mileage        string
	Color          string
	RegisteredIn   string
	FuelType       string
	EngineCapacity string
	Transmission   string
	Link           string
}

// Scalar holds a JSON-LD value the site emits either as a number or as
// free-form text (price, modelDate). Anything else (null, nested objects)
// decodes to the empty text value rather than failing the listing.
type Scalar struct {
	Number   float64
	Text     string
	IsNumber bool
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	*s = Scalar{}
	// Unmarshalling null into a *float64 is a no-op that reports success,
	// so it has to be caught before the numeric branch claims it.
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		s.Number = n
		s.IsNumber = true
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Text = str
	}
	return nil
}

// String renders a numeric scalar in its shortest decimal form
// (2018, not 2018.0) and passes text through unchanged.
func (s Scalar) String() string {
	if s.IsNumber {
		return strconv.FormatFloat(s.Number, 'f', -1, 64)
	}
	return s.Text
}
