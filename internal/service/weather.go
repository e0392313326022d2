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

// WeatherService proxies a 5-day/3-hour forecast provider (OpenWeatherMap
// wire shape). Like search, it is a side-effect-free read path isolated from
// trip flows.
type WeatherService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	cache   *cache.Cache
}

// NewWeatherService constructs a WeatherService.
// client may be nil, in which case a client with a sane timeout is used.
// cache may be nil to disable caching.
func NewWeatherService(client *http.Client, baseURL, apiKey string, c *cache.Cache) *WeatherService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WeatherService{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		cache:   c,
	}
}

// forecastResponse mirrors the provider's wire format.
type forecastResponse struct {
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	List []struct {
		DT   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// Forecast returns the short-range forecast for a city.
// Returns domain.ErrValidation for a blank city, domain.ErrNotFound when the
// provider does not know the city, and domain.ErrUpstream for provider
// failures.
func (s *WeatherService) Forecast(ctx context.Context, city string) (domain.Forecast, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return domain.Forecast{}, fmt.Errorf("%w: city is required", domain.ErrValidation)
	}

	cacheKey := "weather:" + strings.ToLower(city)
	var cached domain.Forecast
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/data/2.5/forecast?"+q.Encode(), nil)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("service.WeatherService.Forecast: %w: %v", domain.ErrUpstream, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("service.WeatherService.Forecast: %w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Forecast{}, fmt.Errorf("service.WeatherService.Forecast: city: %w", domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.Forecast{}, fmt.Errorf("service.WeatherService.Forecast: %w: provider returned status %d",
			domain.ErrUpstream, resp.StatusCode)
	}

	var raw forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.Forecast{}, fmt.Errorf("service.WeatherService.Forecast: %w: decode response: %v",
			domain.ErrUpstream, err)
	}

	forecast := domain.Forecast{
		City:    orDefault(raw.City.Name, city),
		Entries: make([]domain.ForecastEntry, 0, len(raw.List)),
	}
	for _, step := range raw.List {
		entry := domain.ForecastEntry{
			Time:  time.Unix(step.DT, 0).UTC(),
			TempC: step.Main.Temp,
		}
		if len(step.Weather) > 0 {
			entry.Description = step.Weather[0].Description
			entry.Icon = step.Weather[0].Icon
		}
		forecast.Entries = append(forecast.Entries, entry)
	}

	_ = s.cache.Set(ctx, cacheKey, forecast)
	return forecast, nil
}
