package analytics

// NotAvailable is reported for a summary pick when no category qualifies.
const NotAvailable = "N/A"

// UnknownLabel replaces null or dangling grouping values.
const UnknownLabel = "Unknown"

const (
	DefaultLimit = 10
	MaxLimit     = 1000
	DefaultDays  = 30
	MaxDays      = 3650
)

// Report names label metrics, cache keys and log fields.
const (
	ReportSummary             = "summary"
	ReportReturnsByCategory   = "returns_by_category"
	ReportRevenueByDepartment = "revenue_by_department"
	ReportRevenueByBrand      = "revenue_by_brand"
	ReportRevenueOverTime     = "revenue_over_time"
	ReportReturnsByDepartment = "returns_by_department"
	ReportAgeDistribution     = "age_distribution"
	ReportRevenueByCountry    = "revenue_by_country"
)

type SummaryMetrics struct {
	TotalRevenue            float64 `json:"total_revenue"`
	OverallReturnRate       float64 `json:"overall_return_rate"`
	TopCategoryByRevenue    string  `json:"top_category_by_revenue"`
	TopCategoryByReturnRate string  `json:"top_category_by_return_rate"`
}

type CategoryReturnRate struct {
	Category      string  `json:"category"`
	TotalItems    int64   `json:"total_items"`
	ReturnedItems int64   `json:"returned_items"`
	ReturnRate    float64 `json:"return_rate"`
}

type DepartmentReturnRate struct {
	Department    string  `json:"department"`
	TotalItems    int64   `json:"total_items"`
	ReturnedItems int64   `json:"returned_items"`
	ReturnRate    float64 `json:"return_rate"`
}

type RevenueByDepartment struct {
	Department string  `json:"department"`
	Revenue    float64 `json:"revenue"`
	OrderCount int64   `json:"order_count"`
}

type RevenueByBrand struct {
	Brand        string  `json:"brand"`
	Revenue      float64 `json:"revenue"`
	ProductCount int64   `json:"product_count"`
}

// RevenueOverTime is one calendar day (UTC) of completed revenue.
type RevenueOverTime struct {
	Date       string  `json:"date" gorm:"column:day"`
	Revenue    float64 `json:"revenue"`
	OrderCount int64   `json:"order_count"`
}

type AgeDistribution struct {
	AgeRange      string  `json:"age_range"`
	CustomerCount int64   `json:"customer_count"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

type CountryRevenue struct {
	Country       string  `json:"country"`
	Revenue       float64 `json:"revenue"`
	CustomerCount int64   `json:"customer_count"`
}
