package analytics

import (
	"context"

	"github.com/runwaylab/outcomes-lab-backend/internal/analytics"
)

type testAnalyticsService struct {
	err      error
	limit    int
	days     int
	calls    int
	brands   []analytics.RevenueByBrand
	category []analytics.CategoryReturnRate
}

func (s *testAnalyticsService) Summary(context.Context) (*analytics.SummaryMetrics, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &analytics.SummaryMetrics{
		TotalRevenue:            340,
		OverallReturnRate:       0.2222,
		TopCategoryByRevenue:    "Tops",
		TopCategoryByReturnRate: "Jeans",
	}, nil
}

func (s *testAnalyticsService) ReturnsByCategory(context.Context) ([]analytics.CategoryReturnRate, error) {
	s.calls++
	return s.category, s.err
}

func (s *testAnalyticsService) RevenueByDepartment(context.Context) ([]analytics.RevenueByDepartment, error) {
	s.calls++
	return []analytics.RevenueByDepartment{{Department: "Women", Revenue: 150, OrderCount: 2}}, s.err
}

func (s *testAnalyticsService) RevenueByBrand(_ context.Context, limit int) ([]analytics.RevenueByBrand, error) {
	s.calls++
	s.limit = limit
	return s.brands, s.err
}

func (s *testAnalyticsService) RevenueOverTime(_ context.Context, days int) ([]analytics.RevenueOverTime, error) {
	s.calls++
	s.days = days
	return []analytics.RevenueOverTime{{Date: "2024-06-14", Revenue: 150, OrderCount: 2}}, s.err
}

func (s *testAnalyticsService) ReturnsByDepartment(context.Context) ([]analytics.DepartmentReturnRate, error) {
	s.calls++
	return nil, s.err
}

func (s *testAnalyticsService) AgeDistribution(context.Context) ([]analytics.AgeDistribution, error) {
	s.calls++
	return nil, s.err
}

func (s *testAnalyticsService) RevenueByCountry(_ context.Context, limit int) ([]analytics.CountryRevenue, error) {
	s.calls++
	s.limit = limit
	return nil, s.err
}
