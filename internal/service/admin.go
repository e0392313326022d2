package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pmichel/itinera/internal/cache"
	"github.com/pmichel/itinera/internal/repo"

	"github.com/pmichel/itinera/internal/domain"
)

// trendWindow is how far back "recent" reaches for growth trends.
const trendWindow = 7 * 24 * time.Hour

// counter is the slice of a repo the trend calculation needs.
type counter interface {
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, t time.Time) (int64, error)
}

// AdminService assembles the read-only counter and trend report for the
// admin dashboard.
type AdminService struct {
	users counter
	trips counter
	cache *cache.Cache
}

// NewAdminService constructs an AdminService. cache is only consulted for
// the health report and may be nil.
func NewAdminService(users repo.UserRepo, trips repo.TripRepo, c *cache.Cache) *AdminService {
	return &AdminService{users: users, trips: trips, cache: c}
}

// Stats returns user and trip totals with their 7-day growth trends and a
// coarse health report. Reaching this handler at all means the API is up, so
// the API component is always reported operational.
func (s *AdminService) Stats(ctx context.Context) (domain.AdminStats, error) {
	users, err := trend(ctx, s.users)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("service.AdminService.Stats: users: %w", err)
	}
	trips, err := trend(ctx, s.trips)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("service.AdminService.Stats: trips: %w", err)
	}

	cacheStatus := "disabled"
	if s.cache != nil {
		cacheStatus = "degraded"
		if s.cache.Healthy(ctx) {
			cacheStatus = "connected"
		}
	}

	return domain.AdminStats{
		Users: users,
		Trips: trips,
		Health: domain.SystemHealth{
			API:   "operational",
			DB:    "connected", // counts above just succeeded
			Cache: cacheStatus,
		},
	}, nil
}

// trend computes total count plus the last week's growth as a percentage of
// everything older. When nothing existed before this week, any growth reads
// as 100%.
func trend(ctx context.Context, c counter) (domain.TrendStats, error) {
	total, err := c.Count(ctx)
	if err != nil {
		return domain.TrendStats{}, err
	}
	recent, err := c.CountCreatedSince(ctx, time.Now().Add(-trendWindow))
	if err != nil {
		return domain.TrendStats{}, err
	}

	previous := total - recent
	var pct float64
	switch {
	case previous == 0 && recent > 0:
		pct = 100
	case previous == 0:
		pct = 0
	default:
		pct = math.Round(float64(recent)/float64(previous)*1000) / 10
	}

	return domain.TrendStats{Total: total, Trend: pct}, nil
}
