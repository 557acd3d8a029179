package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/runwaylab/outcomes-lab-backend/pkg/enums"
)

const (
	statusComplete = string(enums.OrderStatusComplete)
	statusReturned = string(enums.OrderStatusReturned)
)

const (
	compoundReturned   = "(oi.status = ? OR oi.returned_at IS NOT NULL)"
	statusReturnedOnly = "oi.status = ?"
)

// repository runs the report queries on one pinned connection.
type repository struct {
	db                 *gorm.DB
	dialect            string
	statusOnlyBreakout bool
}

func newRepository(db *gorm.DB, dialect string, statusOnlyBreakout bool) *repository {
	return &repository{db: db, dialect: dialect, statusOnlyBreakout: statusOnlyBreakout}
}

// breakdownPredicate is the returned predicate for per-group breakdowns.
func (r *repository) breakdownPredicate() string {
	if r.statusOnlyBreakout {
		return statusReturnedOnly
	}
	return compoundReturned
}

// byteOrder makes a text sort key compare bytewise, matching Go string comparison. SQLite's
// default BINARY collation already does.
func (r *repository) byteOrder(expr string) string {
	if r.dialect == "sqlite" {
		return expr
	}
	return expr + ` COLLATE "C"`
}

func (r *repository) dayExpr() string {
	if r.dialect == "sqlite" {
		return "strftime('%Y-%m-%d', oi.created_at)"
	}
	return "TO_CHAR(oi.created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
}

type revenueTotal struct {
	TotalRevenue float64
}

func (r *repository) totalRevenue(ctx context.Context) (float64, error) {
	var row revenueTotal
	err := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(oi.sale_price), 0) AS total_revenue FROM order_items oi WHERE oi.status = ?", statusComplete).
		Scan(&row).Error
	return row.TotalRevenue, err
}

type itemCounts struct {
	TotalItems    int64
	ReturnedItems int64
}

func (r *repository) overallItemCounts(ctx context.Context) (itemCounts, error) {
	var row itemCounts
	query := "SELECT COUNT(oi.id) AS total_items, " +
		"COALESCE(SUM(CASE WHEN " + compoundReturned + " THEN 1 ELSE 0 END), 0) AS returned_items " +
		"FROM order_items oi"
	err := r.db.WithContext(ctx).Raw(query, statusReturned).Scan(&row).Error
	return row, err
}

type labelRevenue struct {
	Label   string
	Revenue float64
}

func (r *repository) topCategoryByRevenue(ctx context.Context) (string, bool, error) {
	var rows []labelRevenue
	query := "SELECT p.category AS label, COALESCE(SUM(oi.sale_price), 0) AS revenue " +
		"FROM order_items oi JOIN products p ON p.id = oi.product_id " +
		"WHERE oi.status = ? AND p.category IS NOT NULL " +
		"GROUP BY p.category " +
		"ORDER BY revenue DESC, " + r.byteOrder("p.category") + " ASC LIMIT 1"
	if err := r.db.WithContext(ctx).Raw(query, statusComplete).Scan(&rows).Error; err != nil {
		return "", false, err
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Label, true, nil
}

type groupReturns struct {
	Label         string
	TotalItems    int64
	ReturnedItems int64
}

func (g groupReturns) rate() float64 {
	if g.TotalItems <= 0 {
		return 0
	}
	return float64(g.ReturnedItems) / float64(g.TotalItems)
}

// returnsBy groups every order item by a product column. With knownOnly set, items whose
// product or column value is missing are excluded instead of labelled Unknown.
func (r *repository) returnsBy(ctx context.Context, column string, knownOnly bool) ([]groupReturns, error) {
	label := "COALESCE(p." + column + ", '" + UnknownLabel + "')"
	query := "SELECT " + label + " AS label, COUNT(oi.id) AS total_items, " +
		"COALESCE(SUM(CASE WHEN " + r.breakdownPredicate() + " THEN 1 ELSE 0 END), 0) AS returned_items " +
		"FROM order_items oi LEFT JOIN products p ON p.id = oi.product_id "
	if knownOnly {
		query += "WHERE p." + column + " IS NOT NULL "
	}
	query += "GROUP BY " + label + " HAVING COUNT(oi.id) > 0 ORDER BY " + r.byteOrder(label) + " ASC"

	rows := []groupReturns{}
	if err := r.db.WithContext(ctx).Raw(query, statusReturned).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) revenueByDepartment(ctx context.Context) ([]RevenueByDepartment, error) {
	label := "COALESCE(p.department, '" + UnknownLabel + "')"
	query := "SELECT " + label + " AS department, COALESCE(SUM(oi.sale_price), 0) AS revenue, COUNT(oi.id) AS order_count " +
		"FROM order_items oi LEFT JOIN products p ON p.id = oi.product_id " +
		"WHERE oi.status = ? " +
		"GROUP BY " + label + " " +
		"ORDER BY revenue DESC, " + r.byteOrder(label) + " ASC"

	rows := []RevenueByDepartment{}
	if err := r.db.WithContext(ctx).Raw(query, statusComplete).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) revenueByBrand(ctx context.Context, limit int) ([]RevenueByBrand, error) {
	label := "COALESCE(p.brand, '" + UnknownLabel + "')"
	query := "SELECT " + label + " AS brand, COALESCE(SUM(oi.sale_price), 0) AS revenue, COUNT(DISTINCT oi.product_id) AS product_count " +
		"FROM order_items oi LEFT JOIN products p ON p.id = oi.product_id " +
		"WHERE oi.status = ? " +
		"GROUP BY " + label + " " +
		"ORDER BY revenue DESC, " + r.byteOrder(label) + " ASC LIMIT ?"

	rows := []RevenueByBrand{}
	if err := r.db.WithContext(ctx).Raw(query, statusComplete, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// revenueOverTime buckets completed items created in [from, to] by UTC calendar day.
func (r *repository) revenueOverTime(ctx context.Context, from, to time.Time) ([]RevenueOverTime, error) {
	day := r.dayExpr()
	query := "SELECT " + day + " AS day, COALESCE(SUM(oi.sale_price), 0) AS revenue, COUNT(DISTINCT oi.order_id) AS order_count " +
		"FROM order_items oi " +
		"WHERE oi.status = ? AND oi.created_at >= ? AND oi.created_at <= ? " +
		"GROUP BY " + day + " " +
		"ORDER BY day ASC"

	rows := []RevenueOverTime{}
	if err := r.db.WithContext(ctx).Raw(query, statusComplete, from.UTC(), to.UTC()).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ageDistribution(ctx context.Context) ([]AgeDistribution, error) {
	band := ageBandCase("u.age")
	query := "SELECT " + band + " AS age_range, COUNT(DISTINCT u.id) AS customer_count, COALESCE(AVG(oi.sale_price), 0) AS avg_order_value " +
		"FROM order_items oi JOIN users u ON u.id = oi.user_id " +
		"WHERE oi.status = ? AND u.age IS NOT NULL " +
		"GROUP BY " + band

	rows := []AgeDistribution{}
	if err := r.db.WithContext(ctx).Raw(query, statusComplete).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) revenueByCountry(ctx context.Context, limit int) ([]CountryRevenue, error) {
	query := "SELECT u.country AS country, COALESCE(SUM(oi.sale_price), 0) AS revenue, COUNT(DISTINCT u.id) AS customer_count " +
		"FROM order_items oi JOIN users u ON u.id = oi.user_id " +
		"WHERE oi.status = ? AND u.country IS NOT NULL " +
		"GROUP BY u.country " +
		"ORDER BY revenue DESC, " + r.byteOrder("u.country") + " ASC LIMIT ?"

	rows := []CountryRevenue{}
	if err := r.db.WithContext(ctx).Raw(query, statusComplete, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
