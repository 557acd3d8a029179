package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
	"github.com/runwaylab/outcomes-lab-backend/pkg/metrics"
	pkgredis "github.com/runwaylab/outcomes-lab-backend/pkg/redis"
)

// DefaultCacheTTL applies when NewCachedService receives a non-positive TTL.
const DefaultCacheTTL = 60 * time.Second

// Cache is the subset of the redis client the report cache needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type CacheOption func(*cachedService)

// WithCacheMetrics counts hits, misses and cache errors per report.
func WithCacheMetrics(m *metrics.AnalyticsMetrics) CacheOption {
	return func(c *cachedService) {
		c.metrics = m
	}
}

type cachedService struct {
	next    Service
	cache   Cache
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.AnalyticsMetrics
}

// NewCachedService wraps next with a read-through cache. Revenue over time is always served
// from the database because its window moves with the clock.
func NewCachedService(next Service, cache Cache, ttl time.Duration, logg *logger.Logger, opts ...CacheOption) Service {
	if cache == nil {
		return next
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logg == nil {
		logg = logger.Nop()
	}
	c := &cachedService{next: next, cache: cache, ttl: ttl, logg: logg}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func readThrough[T any](ctx context.Context, c *cachedService, report, key string, load func(context.Context) (T, error)) (T, error) {
	ctx = c.logg.WithFields(ctx, map[string]any{"report": report, "cache_key": key})

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var cached T
		if decodeErr := json.Unmarshal([]byte(raw), &cached); decodeErr == nil {
			c.metrics.IncCache(report, "hit")
			return cached, nil
		}
		c.logg.Warn(ctx, "analytics.cache.decode_failed")
		c.metrics.IncCache(report, "error")
	case errors.Is(err, pkgredis.ErrNil):
		c.metrics.IncCache(report, "miss")
	default:
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "analytics.cache.read_failed")
		c.metrics.IncCache(report, "error")
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.logg.Warn(ctx, "analytics.cache.encode_failed")
		return value, nil
	}
	if err := c.cache.Set(ctx, key, payload, c.ttl); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "analytics.cache.write_failed")
	}
	return value, nil
}

func (c *cachedService) Summary(ctx context.Context) (*SummaryMetrics, error) {
	return readThrough(ctx, c, ReportSummary, pkgredis.AnalyticsKey(ReportSummary), c.next.Summary)
}

func (c *cachedService) ReturnsByCategory(ctx context.Context) ([]CategoryReturnRate, error) {
	return readThrough(ctx, c, ReportReturnsByCategory, pkgredis.AnalyticsKey(ReportReturnsByCategory), c.next.ReturnsByCategory)
}

func (c *cachedService) RevenueByDepartment(ctx context.Context) ([]RevenueByDepartment, error) {
	return readThrough(ctx, c, ReportRevenueByDepartment, pkgredis.AnalyticsKey(ReportRevenueByDepartment), c.next.RevenueByDepartment)
}

func (c *cachedService) RevenueByBrand(ctx context.Context, limit int) ([]RevenueByBrand, error) {
	key := pkgredis.AnalyticsKey(ReportRevenueByBrand, strconv.Itoa(limit))
	return readThrough(ctx, c, ReportRevenueByBrand, key, func(ctx context.Context) ([]RevenueByBrand, error) {
		return c.next.RevenueByBrand(ctx, limit)
	})
}

func (c *cachedService) RevenueOverTime(ctx context.Context, days int) ([]RevenueOverTime, error) {
	return c.next.RevenueOverTime(ctx, days)
}

func (c *cachedService) ReturnsByDepartment(ctx context.Context) ([]DepartmentReturnRate, error) {
	return readThrough(ctx, c, ReportReturnsByDepartment, pkgredis.AnalyticsKey(ReportReturnsByDepartment), c.next.ReturnsByDepartment)
}

func (c *cachedService) AgeDistribution(ctx context.Context) ([]AgeDistribution, error) {
	return readThrough(ctx, c, ReportAgeDistribution, pkgredis.AnalyticsKey(ReportAgeDistribution), c.next.AgeDistribution)
}

func (c *cachedService) RevenueByCountry(ctx context.Context, limit int) ([]CountryRevenue, error) {
	key := pkgredis.AnalyticsKey(ReportRevenueByCountry, strconv.Itoa(limit))
	return readThrough(ctx, c, ReportRevenueByCountry, key, func(ctx context.Context) ([]CountryRevenue, error) {
		return c.next.RevenueByCountry(ctx, limit)
	})
}
