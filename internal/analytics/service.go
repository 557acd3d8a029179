package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	pkgerrors "github.com/runwaylab/outcomes-lab-backend/pkg/errors"
	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
	"github.com/runwaylab/outcomes-lab-backend/pkg/metrics"
	"gorm.io/gorm"
)

// Service produces the read-only aggregate reports.
type Service interface {
	Summary(ctx context.Context) (*SummaryMetrics, error)
	ReturnsByCategory(ctx context.Context) ([]CategoryReturnRate, error)
	RevenueByDepartment(ctx context.Context) ([]RevenueByDepartment, error)
	RevenueByBrand(ctx context.Context, limit int) ([]RevenueByBrand, error)
	RevenueOverTime(ctx context.Context, days int) ([]RevenueOverTime, error)
	ReturnsByDepartment(ctx context.Context) ([]DepartmentReturnRate, error)
	AgeDistribution(ctx context.Context) ([]AgeDistribution, error)
	RevenueByCountry(ctx context.Context, limit int) ([]CountryRevenue, error)
}

// SessionRunner pins one pooled connection for the duration of fn.
type SessionRunner interface {
	Session(ctx context.Context, fn func(conn *gorm.DB) error) error
	Dialect() string
}

type Options struct {
	// StatusOnlyReturns restricts breakdowns and the top return-rate pick to status == "Returned".
	StatusOnlyReturns bool
	Metrics           *metrics.AnalyticsMetrics
	Now               func() time.Time
}

type service struct {
	store      SessionRunner
	dialect    string
	statusOnly bool
	metrics    *metrics.AnalyticsMetrics
	now        func() time.Time
	logg       *logger.Logger
}

// NewService builds the analytics service over the provided session runner.
func NewService(store SessionRunner, opts Options, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		store:      store,
		dialect:    strings.ToLower(store.Dialect()),
		statusOnly: opts.StatusOnlyReturns,
		metrics:    opts.Metrics,
		now:        now,
		logg:       logg,
	}, nil
}

func (s *service) run(ctx context.Context, report string, fn func(ctx context.Context, repo *repository) error) error {
	ctx = s.logg.WithReport(ctx, report)
	start := time.Now()
	err := s.store.Session(ctx, func(conn *gorm.DB) error {
		return fn(ctx, newRepository(conn, s.dialect, s.statusOnly))
	})
	elapsed := time.Since(start)
	s.metrics.ObserveQuery(report, elapsed, err)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, strings.ReplaceAll(report, "_", " ")+" query failed")
	}
	s.logg.Debug(s.logg.WithField(ctx, "duration_ms", elapsed.Milliseconds()), "analytics.query")
	return nil
}

func (s *service) Summary(ctx context.Context) (*SummaryMetrics, error) {
	var out SummaryMetrics
	err := s.run(ctx, ReportSummary, func(ctx context.Context, repo *repository) error {
		revenue, err := repo.totalRevenue(ctx)
		if err != nil {
			return err
		}
		counts, err := repo.overallItemCounts(ctx)
		if err != nil {
			return err
		}
		topRevenue, ok, err := repo.topCategoryByRevenue(ctx)
		if err != nil {
			return err
		}
		if !ok {
			topRevenue = NotAvailable
		}
		rates, err := repo.returnsBy(ctx, "category", true)
		if err != nil {
			return err
		}

		denominator := counts.TotalItems
		if denominator < 1 {
			denominator = 1
		}
		out = SummaryMetrics{
			TotalRevenue:            revenue,
			OverallReturnRate:       float64(counts.ReturnedItems) / float64(denominator),
			TopCategoryByRevenue:    topRevenue,
			TopCategoryByReturnRate: topByReturnRate(rates),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// topByReturnRate picks the highest positive rate; ties go to the smallest label.
func topByReturnRate(groups []groupReturns) string {
	best := -1
	for i, g := range groups {
		if g.TotalItems <= 0 || g.ReturnedItems <= 0 {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		cur := groups[best]
		// compare g.Returned/g.Total with cur.Returned/cur.Total without float division
		lhs := g.ReturnedItems * cur.TotalItems
		rhs := cur.ReturnedItems * g.TotalItems
		if lhs > rhs || (lhs == rhs && g.Label < cur.Label) {
			best = i
		}
	}
	if best < 0 {
		return NotAvailable
	}
	return groups[best].Label
}

func (s *service) ReturnsByCategory(ctx context.Context) ([]CategoryReturnRate, error) {
	out := []CategoryReturnRate{}
	err := s.run(ctx, ReportReturnsByCategory, func(ctx context.Context, repo *repository) error {
		rows, err := repo.returnsBy(ctx, "category", false)
		if err != nil {
			return err
		}
		for _, row := range rows {
			out = append(out, CategoryReturnRate{
				Category:      row.Label,
				TotalItems:    row.TotalItems,
				ReturnedItems: row.ReturnedItems,
				ReturnRate:    row.rate(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ReturnsByDepartment(ctx context.Context) ([]DepartmentReturnRate, error) {
	out := []DepartmentReturnRate{}
	err := s.run(ctx, ReportReturnsByDepartment, func(ctx context.Context, repo *repository) error {
		rows, err := repo.returnsBy(ctx, "department", false)
		if err != nil {
			return err
		}
		for _, row := range rows {
			out = append(out, DepartmentReturnRate{
				Department:    row.Label,
				TotalItems:    row.TotalItems,
				ReturnedItems: row.ReturnedItems,
				ReturnRate:    row.rate(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) RevenueByDepartment(ctx context.Context) ([]RevenueByDepartment, error) {
	var out []RevenueByDepartment
	err := s.run(ctx, ReportRevenueByDepartment, func(ctx context.Context, repo *repository) error {
		var err error
		out, err = repo.revenueByDepartment(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return emptyIfNil(out), nil
}

func (s *service) RevenueByBrand(ctx context.Context, limit int) ([]RevenueByBrand, error) {
	if err := validateRange("limit", limit, 1, MaxLimit); err != nil {
		return nil, err
	}
	var out []RevenueByBrand
	err := s.run(ctx, ReportRevenueByBrand, func(ctx context.Context, repo *repository) error {
		var err error
		out, err = repo.revenueByBrand(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return emptyIfNil(out), nil
}

func (s *service) RevenueOverTime(ctx context.Context, days int) ([]RevenueOverTime, error) {
	if err := validateRange("days", days, 1, MaxDays); err != nil {
		return nil, err
	}
	to := s.now().UTC()
	from := to.AddDate(0, 0, -days)

	var out []RevenueOverTime
	err := s.run(ctx, ReportRevenueOverTime, func(ctx context.Context, repo *repository) error {
		var err error
		out, err = repo.revenueOverTime(ctx, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	return emptyIfNil(out), nil
}

func (s *service) AgeDistribution(ctx context.Context) ([]AgeDistribution, error) {
	var out []AgeDistribution
	err := s.run(ctx, ReportAgeDistribution, func(ctx context.Context, repo *repository) error {
		var err error
		out, err = repo.ageDistribution(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out = emptyIfNil(out)
	sortByAgeBand(out)
	return out, nil
}

func sortByAgeBand(rows []AgeDistribution) {
	sort.SliceStable(rows, func(i, j int) bool {
		return ageBandIndex(rows[i].AgeRange) < ageBandIndex(rows[j].AgeRange)
	})
}

func (s *service) RevenueByCountry(ctx context.Context, limit int) ([]CountryRevenue, error) {
	if err := validateRange("limit", limit, 1, MaxLimit); err != nil {
		return nil, err
	}
	var out []CountryRevenue
	err := s.run(ctx, ReportRevenueByCountry, func(ctx context.Context, repo *repository) error {
		var err error
		out, err = repo.revenueByCountry(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return emptyIfNil(out), nil
}

func emptyIfNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

func validateRange(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be between %d and %d", field, lo, hi)).
			WithDetails(map[string]any{"field": field, "min": lo, "max": hi, "value": value})
	}
	return nil
}
