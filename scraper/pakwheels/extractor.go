package pakwheels

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pakwheels-scraper/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// listingData mirrors the JSON-LD block embedded in each listing container.
// Price and modelDate arrive as either numbers or strings depending on the
// ad, hence the Scalar type.
type listingData struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ModelDate   models.Scalar `json:"modelDate"`
	Offers      struct {
		Price         models.Scalar `json:"price"`
		PriceCurrency string        `json:"priceCurrency"`
		URL           string        `json:"url"`
	} `json:"offers"`
}

// cities the description is scanned for, in priority order — first match
// wins. The site never labels the city directly on search results, so it
// has to be inferred from the ad text.
var cities = []string{
	"Karachi", "Lahore", "Islamabad", "Rawalpindi",
	"Faisalabad", "Multan", "Peshawar", "Quetta",
	"Sialkot", "Gujranwala", "Hyderabad", "Bahawalpur",
}

var pricePrinter = message.NewPrinter(language.English)

// Extract parses one search-results page into listing records.
//
// A listing without a JSON-LD block, or with one that fails to unmarshal,
// is skipped silently — the markup is outside our control and a single
// broken ad must not cost the rest of the page. Fields that cannot be
// located stay empty strings.
func Extract(body string) ([]models.ListingRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var records []models.ListingRecord
	doc.Find("ul.search-results li.classified-listing").Each(func(_ int, li *goquery.Selection) {
		raw := li.Find(`script[type="application/ld+json"]`).First().Text()
		if strings.TrimSpace(raw) == "" {
			return
		}
		var data listingData
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return
		}

		rec := models.ListingRecord{
			Title: strings.TrimSpace(data.Name),
			Price: formatPrice(data.Offers.Price, data.Offers.PriceCurrency),
			City:  cityFromDescription(data.Description),
			Year:  data.ModelDate.String(),
			Link:  data.Offers.URL,
		}

		// Sidebar specs carry no labels; the icon class on each item
		// encodes what the text means.
		li.Find("ul.ad-specs li").Each(func(_ int, spec *goquery.Selection) {
			class := spec.Find("i").First().AttrOr("class", "")
			text := strings.TrimSpace(spec.Text())
			switch {
			case strings.Contains(class, "pw-mileage"):
				rec.Mileage = text
			case strings.Contains(class, "pw-color"):
				rec.Color = text
			case strings.Contains(class, "pw-registration"):
				rec.RegisteredIn = text
			case strings.Contains(class, "pw-engine"):
				rec.FuelType, rec.EngineCapacity, rec.Transmission = parseEngineSpecs(text)
			}
		})

		records = append(records, rec)
	})

	return records, nil
}

// formatPrice renders numeric prices as "<currency> <grouped value>"
// (PKR 1,250,000) and passes free-form price text through unchanged.
func formatPrice(price models.Scalar, currency string) string {
	if currency == "" {
		currency = "PKR"
	}
	if price.IsNumber {
		return currency + " " + pricePrinter.Sprint(number.Decimal(price.Number))
	}
	return price.Text
}

// cityFromDescription returns the first known city mentioned anywhere in
// the ad text, title-cased, or "" when none appears.
func cityFromDescription(desc string) string {
	descLower := strings.ToLower(desc)
	for _, city := range cities {
		if strings.Contains(descLower, strings.ToLower(city)) {
			return city
		}
	}
	return ""
}

// parseEngineSpecs splits the engine spec item ("Petrol . 1300 cc .
// Automatic") into its positional parts. Missing trailing parts stay
// empty; text without the delimiter lands entirely in fuel type.
func parseEngineSpecs(text string) (fuelType, engineCapacity, transmission string) {
	parts := strings.Split(text, " . ")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) >= 1 {
		fuelType = parts[0]
	}
	if len(parts) >= 2 {
		engineCapacity = parts[1]
	}
	if len(parts) >= 3 {
		transmission = parts[2]
	}
	return fuelType, engineCapacity, transmission
}
