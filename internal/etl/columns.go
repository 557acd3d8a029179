package etl

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/runwaylab/outcomes-lab-backend/pkg/enums"
)

type columnKind int

const (
	kindString columnKind = iota
	kindInt
	kindFloat
	kindTime
	// kindStatus is a string checked against the order lifecycle.
	kindStatus
)

type column struct {
	name string
	kind columnKind
}

type tableDef struct {
	table string
	file  string
	// aliases maps a source header to a column name, applied only when the column header is absent.
	aliases map[string]string
	columns []column
}

var tableDefs = []tableDef{
	{
		table: "users",
		file:  "users.csv",
		columns: []column{
			{"id", kindInt}, {"first_name", kindString}, {"last_name", kindString}, {"gender", kindString},
			{"age", kindInt}, {"country", kindString}, {"city", kindString}, {"state", kindString},
			{"email", kindString}, {"created_at", kindTime}, {"updated_at", kindTime},
		},
	},
	{
		table: "products",
		file:  "products.csv",
		columns: []column{
			{"id", kindInt}, {"brand", kindString}, {"department", kindString}, {"category", kindString},
			{"name", kindString}, {"retail_price", kindFloat}, {"cost", kindFloat}, {"created_at", kindTime},
		},
	},
	{
		table:   "orders",
		file:    "orders.csv",
		aliases: map[string]string{"order_id": "id"},
		columns: []column{
			{"id", kindInt}, {"user_id", kindInt}, {"status", kindStatus}, {"created_at", kindTime},
			{"shipped_at", kindTime}, {"delivered_at", kindTime}, {"returned_at", kindTime},
		},
	},
	{
		table: "order_items",
		file:  "order_items.csv",
		columns: []column{
			{"id", kindInt}, {"order_id", kindInt}, {"user_id", kindInt}, {"product_id", kindInt},
			{"sale_price", kindFloat}, {"discount", kindFloat}, {"status", kindStatus},
			{"created_at", kindTime}, {"returned_at", kindTime},
		},
	},
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseCell converts a raw cell. Empty cells are NULL; ok is false when a non-empty cell
// could not be parsed and was coerced to NULL.
func parseCell(kind columnKind, raw string) (value any, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	switch kind {
	case kindInt:
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v, true
		}
		// pandas writes integer columns holding NaN as floats
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int64(f), true
		}
		return nil, false
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case kindTime:
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
				return t.UTC(), true
			}
		}
		return nil, false
	default:
		return raw, true
	}
}

func knownStatus(raw string) bool {
	_, err := enums.ParseOrderStatus(raw)
	return err == nil
}
