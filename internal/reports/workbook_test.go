package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/runwaylab/outcomes-lab-backend/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubService struct {
	limit   int
	days    int
	failAge error
}

func (s *stubService) Summary(context.Context) (*analytics.SummaryMetrics, error) {
	return &analytics.SummaryMetrics{
		TotalRevenue:            340,
		OverallReturnRate:       0.25,
		TopCategoryByRevenue:    "Tops",
		TopCategoryByReturnRate: "Jeans",
	}, nil
}

func (s *stubService) ReturnsByCategory(context.Context) ([]analytics.CategoryReturnRate, error) {
	return []analytics.CategoryReturnRate{{Category: "Jeans", TotalItems: 4, ReturnedItems: 1, ReturnRate: 0.25}}, nil
}

func (s *stubService) RevenueByDepartment(context.Context) ([]analytics.RevenueByDepartment, error) {
	return []analytics.RevenueByDepartment{
		{Department: "Women", Revenue: 150, OrderCount: 2},
		{Department: "Men", Revenue: 100, OrderCount: 2},
	}, nil
}

func (s *stubService) RevenueByBrand(_ context.Context, limit int) ([]analytics.RevenueByBrand, error) {
	s.limit = limit
	return []analytics.RevenueByBrand{{Brand: "Acme", Revenue: 150, ProductCount: 2}}, nil
}

func (s *stubService) RevenueOverTime(_ context.Context, days int) ([]analytics.RevenueOverTime, error) {
	s.days = days
	return []analytics.RevenueOverTime{}, nil
}

func (s *stubService) ReturnsByDepartment(context.Context) ([]analytics.DepartmentReturnRate, error) {
	return []analytics.DepartmentReturnRate{}, nil
}

func (s *stubService) AgeDistribution(context.Context) ([]analytics.AgeDistribution, error) {
	if s.failAge != nil {
		return nil, s.failAge
	}
	return []analytics.AgeDistribution{{AgeRange: "18-24", CustomerCount: 3, AvgOrderValue: 35}}, nil
}

func (s *stubService) RevenueByCountry(context.Context, int) ([]analytics.CountryRevenue, error) {
	return []analytics.CountryRevenue{{Country: "Brasil", Revenue: 230, CustomerCount: 2}}, nil
}

func TestWorkbookWritesOneSheetPerReport(t *testing.T) {
	svc := &stubService{}
	f, err := Workbook(context.Background(), svc, Options{Limit: 5, Days: 7})
	require.NoError(t, err)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	read, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer read.Close()

	assert.Equal(t, []string{
		SheetSummary, SheetReturnsByCategory, SheetRevenueByDepartment, SheetTopBrands,
		SheetRevenueOverTime, SheetReturnsByDepartment, SheetAgeDistribution, SheetTopCountries,
	}, read.GetSheetList())
	assert.Equal(t, 5, svc.limit)
	assert.Equal(t, 7, svc.days)

	rows, err := read.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Metric", "Value"}, rows[0])
	assert.Equal(t, []string{"Total revenue", "340"}, rows[1])
	assert.Equal(t, []string{"Top category by return rate", "Jeans"}, rows[4])

	rows, err = read.GetRows(SheetRevenueByDepartment)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Department", "Revenue", "Orders"},
		{"Women", "150", "2"},
		{"Men", "100", "2"},
	}, rows)

	rows, err = read.GetRows(SheetRevenueOverTime)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Date", "Revenue", "Orders"}}, rows)
}

func TestWorkbookDefaultsOptions(t *testing.T) {
	svc := &stubService{}
	f, err := Workbook(context.Background(), svc, Options{})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, analytics.DefaultLimit, svc.limit)
	assert.Equal(t, analytics.DefaultDays, svc.days)
}

func TestWorkbookPropagatesReportErrors(t *testing.T) {
	boom := errors.New("boom")
	f, err := Workbook(context.Background(), &stubService{failAge: boom}, Options{})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, f)
}
