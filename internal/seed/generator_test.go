package seed

import (
	"context"
	"testing"
	"time"

	"github.com/runwaylab/outcomes-lab-backend/pkg/db"
	"github.com/runwaylab/outcomes-lab-backend/pkg/db/dbtest"
	"github.com/runwaylab/outcomes-lab-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestBuildIsDeterministic(t *testing.T) {
	opts := Options{Users: 20, Products: 10, Orders: 50, Seed: 42, Now: seedNow}
	first := Build(opts)
	second := Build(opts)
	assert.Equal(t, first, second)

	other := Build(Options{Users: 20, Products: 10, Orders: 50, Seed: 43, Now: seedNow})
	assert.NotEqual(t, first.Users, other.Users)
}

func TestBuildRespectsInvariants(t *testing.T) {
	ds := Build(Options{Users: 40, Products: 25, Orders: 300, Seed: 7, Now: seedNow})

	require.Len(t, ds.Users, 40)
	require.Len(t, ds.Products, 25)
	require.Len(t, ds.Orders, 300)
	assert.GreaterOrEqual(t, len(ds.OrderItems), 300)
	assert.LessOrEqual(t, len(ds.OrderItems), 1200)

	for _, u := range ds.Users {
		require.NotNil(t, u.Age)
		assert.GreaterOrEqual(t, *u.Age, 12)
		assert.LessOrEqual(t, *u.Age, 80)
		require.NotNil(t, u.Country)
		assert.False(t, u.CreatedAt.After(seedNow))
	}
	for _, p := range ds.Products {
		require.NotNil(t, p.RetailPrice)
		assert.GreaterOrEqual(t, *p.RetailPrice, 5.0)
		assert.LessOrEqual(t, *p.RetailPrice, 300.0)
		assert.GreaterOrEqual(t, *p.Cost, *p.RetailPrice*0.4-0.01)
		assert.LessOrEqual(t, *p.Cost, *p.RetailPrice*0.6+0.01)
	}

	orders := map[int64]models.Order{}
	statuses := map[string]int{}
	for _, o := range ds.Orders {
		orders[o.ID] = o
		statuses[*o.Status]++
		assert.False(t, o.CreatedAt.After(seedNow))
		if o.ShippedAt != nil {
			assert.False(t, o.ShippedAt.Before(*o.CreatedAt))
		}
		if o.DeliveredAt != nil {
			require.NotNil(t, o.ShippedAt)
			assert.False(t, o.DeliveredAt.Before(*o.ShippedAt))
		}
		assert.Equal(t, *o.Status == "Returned", o.ReturnedAt != nil)
	}
	assert.Len(t, statuses, len(orderStatuses), "every status appears in a 300 order sample")

	for _, item := range ds.OrderItems {
		order := orders[*item.OrderID]
		assert.Equal(t, *order.Status, *item.Status)
		assert.Equal(t, *order.UserID, *item.UserID)
		assert.Equal(t, order.ReturnedAt != nil, item.IsReturned())
		assert.LessOrEqual(t, *item.Discount, *item.SalePrice*0.5+0.01)
	}
}

func TestGenerateInsertsAndResets(t *testing.T) {
	conn := dbtest.OpenEmpty(t)
	store := db.FromGORM(conn)
	ctx := context.Background()
	opts := Options{Users: 15, Products: 8, Orders: 30, Seed: 1, Now: seedNow}

	summary, err := Generate(ctx, store, opts)
	require.NoError(t, err)
	assert.Equal(t, 15, summary.Users)
	assert.Equal(t, 30, summary.Orders)

	var items int64
	require.NoError(t, conn.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Equal(t, int64(summary.OrderItems), items)

	var returned int64
	require.NoError(t, conn.Model(&models.OrderItem{}).
		Where("status = ? OR returned_at IS NOT NULL", models.StatusReturned).
		Count(&returned).Error)
	assert.Equal(t, int64(summary.ReturnedItems), returned)

	_, err = Generate(ctx, store, opts)
	require.Error(t, err, "inserting the same ids twice without reset conflicts")

	opts.Reset = true
	_, err = Generate(ctx, store, opts)
	require.NoError(t, err)

	var users int64
	require.NoError(t, conn.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(15), users)
}
