package domain

import "time"

// Offer is a uniform provider-shaped search result for flights and hotels.
// Offers are read-only: adding one to an itinerary goes through the normal
// AddItem operation with caller-chosen fields.
type Offer struct {
	ID          string   `json:"id"`
	Type        ItemType `json:"type"`
	Provider    string   `json:"provider"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Location    string   `json:"location"`
	Cost        float64  `json:"cost"`
	Currency    string   `json:"currency"`
}

// ForecastEntry is one 3-hour step of a weather forecast.
type ForecastEntry struct {
	Time        time.Time `json:"time"`
	TempC       float64   `json:"temp_c"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
}

// Forecast is a short-range weather time series for a city.
type Forecast struct {
	City    string          `json:"city"`
	Entries []ForecastEntry `json:"entries"`
}
