package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pmichel/itinera/internal/cache"
	"github.com/pmichel/itinera/internal/domain"
)

// SearchService serves flight and hotel offers. Flights come from an
// aviationstack-shaped provider; hotels are generated locally (the provider
// has no hotel inventory). Both paths are side-effect-free reads, isolated
// from trip flows: a provider failure degrades to domain.ErrUpstream and
// never touches trip logic.
type SearchService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	cache   *cache.Cache
}

// NewSearchService constructs a SearchService.
// client may be nil, in which case a client with a sane timeout is used.
// cache may be nil to disable caching.
func NewSearchService(client *http.Client, baseURL, apiKey string, c *cache.Cache) *SearchService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SearchService{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		cache:   c,
	}
}

// flightsResponse mirrors the provider's wire format for flight lookups.
type flightsResponse struct {
	Data []struct {
		Airline struct {
			Name string `json:"name"`
		} `json:"airline"`
		Flight struct {
			IATA string `json:"iata"`
		} `json:"flight"`
		Departure struct {
			Airport   string `json:"airport"`
			IATA      string `json:"iata"`
			Scheduled string `json:"scheduled"`
		} `json:"departure"`
		Arrival struct {
			Airport   string `json:"airport"`
			IATA      string `json:"iata"`
			Scheduled string `json:"scheduled"`
		} `json:"arrival"`
	} `json:"data"`
}

// Flights searches the provider for flights between two IATA codes and maps
// the records to uniform offers. When the provider returns no matches a
// single demo offer is appended so the result is never empty (free provider
// tiers frequently return nothing for valid routes).
// Returns domain.ErrValidation when from or to is blank and
// domain.ErrUpstream when the provider fails.
func (s *SearchService) Flights(ctx context.Context, from, to string) ([]domain.Offer, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: from and to are required", domain.ErrValidation)
	}

	cacheKey := "search:flights:" + from + ":" + to
	var cached []domain.Offer
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	q := url.Values{}
	q.Set("access_key", s.apiKey)
	q.Set("limit", "10")
	q.Set("dep_iata", from)
	q.Set("arr_iata", to)

	var resp flightsResponse
	if err := s.getJSON(ctx, s.baseURL+"/v1/flights?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("service.SearchService.Flights: %w", err)
	}

	offers := make([]domain.Offer, 0, len(resp.Data)+1)
	for i, f := range resp.Data {
		provider := f.Airline.Name
		if provider == "" {
			provider = "Unknown Airline"
		}
		number := f.Flight.IATA
		if number == "" {
			number = "N/A"
		}
		depAirport := orDefault(f.Departure.Airport, from)
		arrAirport := orDefault(f.Arrival.Airport, to)

		offers = append(offers, domain.Offer{
			ID:          fmt.Sprintf("flight_%d", i),
			Type:        domain.ItemFlight,
			Provider:    provider,
			Title:       "Flight " + number,
			Description: fmt.Sprintf("Departs: %s -> Arrives: %s", depAirport, arrAirport),
			StartTime:   scheduledTime(f.Departure.Scheduled),
			EndTime:     scheduledTime(f.Arrival.Scheduled),
			Location:    orDefault(f.Departure.IATA, from) + " -> " + orDefault(f.Arrival.IATA, to),
			Cost:        flightFare(from, to, i),
			Currency:    "USD",
		})
	}

	if len(offers) == 0 {
		offers = append(offers, domain.Offer{
			ID:          "demo_fallback",
			Type:        domain.ItemFlight,
			Provider:    "Demo Airways",
			Title:       "Demo Flight",
			Description: "No live flights found for this route",
			StartTime:   "10:00",
			EndTime:     "12:00",
			Location:    from + " -> " + to,
			Cost:        99,
			Currency:    "USD",
		})
	}

	_ = s.cache.Set(ctx, cacheKey, offers)
	return offers, nil
}

// hotelNames is the fixed provider roster for generated hotel offers.
var hotelNames = []string{"Grand Plaza", "SleepTight Inn", "The Continental", "Budget Bunk"}

// Hotels returns provider-shaped hotel offers for a location. The inventory
// is generated deterministically: the base price is keyed on the location
// and each successive hotel costs a step more.
// Returns domain.ErrValidation when location is blank.
func (s *SearchService) Hotels(_ context.Context, location string) ([]domain.Offer, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", domain.ErrValidation)
	}

	basePrice := float64(len(location) * 15)
	offers := make([]domain.Offer, 0, len(hotelNames))
	for i, name := range hotelNames {
		offers = append(offers, domain.Offer{
			ID:          fmt.Sprintf("htl_%d_%s", i, location),
			Type:        domain.ItemHotel,
			Provider:    name,
			Title:       "Stay at " + name,
			Description: "Standard Room - Wifi Included",
			StartTime:   "14:00", // check-in
			EndTime:     "11:00", // check-out
			Location:    name + ", " + location,
			Cost:        basePrice + float64(i*80),
			Currency:    "USD",
		})
	}
	return offers, nil
}

// getJSON performs a GET against the provider and decodes the JSON body.
// Any transport error or non-2xx status maps to domain.ErrUpstream.
func (s *SearchService) getJSON(ctx context.Context, rawURL string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrUpstream, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: provider returned status %d", domain.ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstream, err)
	}
	return nil
}

// scheduledTime formats a provider RFC3339 timestamp as HH:MM local to the
// schedule, or "TBD" when absent or unparseable.
func scheduledTime(raw string) string {
	if raw == "" {
		return "TBD"
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "TBD"
	}
	return t.Format("15:04")
}

// flightFare derives a stable pseudo-fare for a route. The provider exposes
// no pricing, so the UI needs a deterministic stand-in.
func flightFare(from, to string, index int) float64 {
	seed := 0
	for _, r := range from + to {
		seed += int(r)
	}
	return float64(150 + (seed+index*37)%300)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
