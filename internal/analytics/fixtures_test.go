package analytics

import (
	"testing"
	"time"

	"github.com/runwaylab/outcomes-lab-backend/pkg/db"
	"github.com/runwaylab/outcomes-lab-backend/pkg/db/dbtest"
	"github.com/runwaylab/outcomes-lab-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixtureNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func floatPtr(v float64) *float64 { return &v }

func timePtr(v time.Time) *time.Time { return &v }

type itemRow struct {
	id, order     int64
	user, product *int64
	price         float64
	status        string
	age           time.Duration
	returned      bool
}

// seedFixture loads a small dataset covering null and dangling references.
func seedFixture(t *testing.T, conn *gorm.DB) {
	t.Helper()

	products := []models.Product{
		{ID: 1, Brand: strPtr("Acme"), Department: strPtr("Women"), Category: strPtr("Tops"), Name: strPtr("Tee"), RetailPrice: floatPtr(100)},
		{ID: 2, Brand: strPtr("Zen"), Department: strPtr("Men"), Category: strPtr("Jeans"), Name: strPtr("Slim"), RetailPrice: floatPtr(80)},
		{ID: 3, Name: strPtr("Mystery")},
		{ID: 4, Brand: strPtr("Acme"), Department: strPtr("Women"), Category: strPtr("Tops"), Name: strPtr("Tank"), RetailPrice: floatPtr(50)},
	}
	users := []models.User{
		{ID: 1, Age: intPtr(20), Country: strPtr("Brasil")},
		{ID: 2, Age: intPtr(40), Country: strPtr("China")},
		{ID: 3},
		{ID: 4, Age: intPtr(70), Country: strPtr("China")},
		{ID: 5, Age: intPtr(15), Country: strPtr("Brasil")},
	}
	items := []itemRow{
		{id: 1, order: 1, user: int64Ptr(1), product: int64Ptr(1), price: 100, status: "Complete", age: 23 * time.Hour},
		{id: 2, order: 1, user: int64Ptr(1), product: int64Ptr(4), price: 50, status: "Complete", age: 23 * time.Hour},
		{id: 3, order: 2, user: int64Ptr(2), product: int64Ptr(2), price: 80, status: "Complete", age: 48 * time.Hour},
		{id: 4, order: 3, user: int64Ptr(2), product: int64Ptr(2), price: 40, status: "Returned", age: 72 * time.Hour, returned: true},
		{id: 5, order: 4, user: int64Ptr(3), product: int64Ptr(3), price: 30, status: "Complete", age: 40 * 24 * time.Hour},
		{id: 6, order: 5, user: int64Ptr(4), product: int64Ptr(1), price: 20, status: "Shipped", age: 23 * time.Hour, returned: true},
		{id: 7, order: 6, user: int64Ptr(1), product: int64Ptr(99), price: 60, status: "Complete", age: 5 * 24 * time.Hour},
		{id: 8, order: 7, price: 10, status: "Cancelled", age: 23 * time.Hour},
		{id: 9, order: 8, user: int64Ptr(5), product: int64Ptr(2), price: 20, status: "Complete", age: 100 * 24 * time.Hour},
	}

	require.NoError(t, conn.Create(&products).Error)
	require.NoError(t, conn.Create(&users).Error)
	for _, fx := range items {
		created := fixtureNow.Add(-fx.age)
		item := models.OrderItem{
			ID:        fx.id,
			OrderID:   int64Ptr(fx.order),
			UserID:    fx.user,
			ProductID: fx.product,
			SalePrice: floatPtr(fx.price),
			Status:    strPtr(fx.status),
			CreatedAt: timePtr(created),
		}
		if fx.returned {
			item.ReturnedAt = timePtr(created.Add(time.Hour))
		}
		require.NoError(t, conn.Create(&item).Error)
	}
}

func newFixtureService(t *testing.T, opts Options) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	seedFixture(t, conn)
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixtureNow }
	}
	svc, err := NewService(db.FromGORM(conn), opts, nil)
	require.NoError(t, err)
	return svc, conn
}
