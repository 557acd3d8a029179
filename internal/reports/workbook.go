// Package reports renders the analytics reports into an XLSX workbook.
package reports

import (
	"context"
	"fmt"

	"github.com/runwaylab/outcomes-lab-backend/internal/analytics"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SheetSummary             = "Summary"
	SheetReturnsByCategory   = "Returns by Category"
	SheetRevenueByDepartment = "Revenue by Department"
	SheetTopBrands           = "Top Brands"
	SheetRevenueOverTime     = "Revenue over Time"
	SheetReturnsByDepartment = "Returns by Department"
	SheetAgeDistribution     = "Age Distribution"
	SheetTopCountries        = "Top Countries"
)

type Options struct {
	Limit int
	Days  int
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = analytics.DefaultLimit
	}
	if o.Days <= 0 {
		o.Days = analytics.DefaultDays
	}
	return o
}

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// Workbook queries every report and writes one sheet per report. Any report failure aborts
// the export with that error.
func Workbook(ctx context.Context, svc analytics.Service, opts Options) (*excelize.File, error) {
	opts = opts.withDefaults()
	sheets, err := collect(ctx, svc, opts)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("naming sheet %q: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("creating sheet %q: %w", s.name, err)
		}
		if err := writeSheet(f, s); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, s sheet) error {
	header := make([]any, len(s.headers))
	for i, h := range s.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("writing %q header: %w", s.name, err)
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("writing %q row %d: %w", s.name, i+2, err)
		}
	}
	return nil
}

func collect(ctx context.Context, svc analytics.Service, opts Options) ([]sheet, error) {
	summary, err := svc.Summary(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := svc.ReturnsByCategory(ctx)
	if err != nil {
		return nil, err
	}
	byDepartment, err := svc.RevenueByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	brands, err := svc.RevenueByBrand(ctx, opts.Limit)
	if err != nil {
		return nil, err
	}
	overTime, err := svc.RevenueOverTime(ctx, opts.Days)
	if err != nil {
		return nil, err
	}
	returnsByDepartment, err := svc.ReturnsByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	ages, err := svc.AgeDistribution(ctx)
	if err != nil {
		return nil, err
	}
	countries, err := svc.RevenueByCountry(ctx, opts.Limit)
	if err != nil {
		return nil, err
	}

	summarySheet := sheet{name: SheetSummary, headers: []string{"Metric", "Value"}}
	if summary != nil {
		summarySheet.rows = [][]any{
			{"Total revenue", summary.TotalRevenue},
			{"Overall return rate", summary.OverallReturnRate},
			{"Top category by revenue", summary.TopCategoryByRevenue},
			{"Top category by return rate", summary.TopCategoryByReturnRate},
		}
	}

	return []sheet{
		summarySheet,
		rowsOf(SheetReturnsByCategory, []string{"Category", "Total items", "Returned items", "Return rate"}, byCategory,
			func(r analytics.CategoryReturnRate) []any {
				return []any{r.Category, r.TotalItems, r.ReturnedItems, r.ReturnRate}
			}),
		rowsOf(SheetRevenueByDepartment, []string{"Department", "Revenue", "Orders"}, byDepartment,
			func(r analytics.RevenueByDepartment) []any {
				return []any{r.Department, r.Revenue, r.OrderCount}
			}),
		rowsOf(SheetTopBrands, []string{"Brand", "Revenue", "Products"}, brands,
			func(r analytics.RevenueByBrand) []any {
				return []any{r.Brand, r.Revenue, r.ProductCount}
			}),
		rowsOf(SheetRevenueOverTime, []string{"Date", "Revenue", "Orders"}, overTime,
			func(r analytics.RevenueOverTime) []any {
				return []any{r.Date, r.Revenue, r.OrderCount}
			}),
		rowsOf(SheetReturnsByDepartment, []string{"Department", "Total items", "Returned items", "Return rate"}, returnsByDepartment,
			func(r analytics.DepartmentReturnRate) []any {
				return []any{r.Department, r.TotalItems, r.ReturnedItems, r.ReturnRate}
			}),
		rowsOf(SheetAgeDistribution, []string{"Age range", "Customers", "Avg order value"}, ages,
			func(r analytics.AgeDistribution) []any {
				return []any{r.AgeRange, r.CustomerCount, r.AvgOrderValue}
			}),
		rowsOf(SheetTopCountries, []string{"Country", "Revenue", "Customers"}, countries,
			func(r analytics.CountryRevenue) []any {
				return []any{r.Country, r.Revenue, r.CustomerCount}
			}),
	}, nil
}

func rowsOf[T any](name string, headers []string, items []T, row func(T) []any) sheet {
	s := sheet{name: name, headers: headers, rows: make([][]any, 0, len(items))}
	for _, item := range items {
		s.rows = append(s.rows, row(item))
	}
	return s
}
