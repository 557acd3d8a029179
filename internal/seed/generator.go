// Package seed generates a synthetic TheLook-shaped dataset for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/runwaylab/outcomes-lab-backend/pkg/db/models"
	"github.com/runwaylab/outcomes-lab-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultUsers     = 500
	DefaultProducts  = 200
	DefaultOrders    = 2000
	DefaultBatchSize = 500
)

var (
	orderStatuses = enums.OrderStatuses()
	departments   = []string{"Women", "Men"}
	categories    = []string{
		"Jeans", "Tops & Tees", "Intimates", "Sweaters", "Shorts", "Swim", "Accessories",
		"Fashion Hoodies & Sweatshirts", "Sleep & Lounge", "Outerwear & Coats", "Dresses",
		"Active", "Pants", "Socks", "Suits & Sport Coats",
	}
	brands = []string{
		"Allegra K", "Calvin Klein", "Carhartt", "Columbia", "Diesel", "Hanes", "Levi's",
		"Nautica", "Quiksilver", "Tommy Hilfiger", "Volcom", "Ralph Lauren", "Nike", "Adidas", "Puma",
	}
	countries = []weightedCountry{
		{"China", 34}, {"United States", 22}, {"Brasil", 15}, {"South Korea", 5}, {"France", 5},
		{"United Kingdom", 5}, {"Germany", 4}, {"Spain", 4}, {"Japan", 2}, {"Australia", 2},
		{"Belgium", 1}, {"Poland", 1},
	}
)

type weightedCountry struct {
	name   string
	weight float64
}

type Options struct {
	Users    int
	Products int
	Orders   int
	Seed     uint64
	// Now anchors every generated timestamp; zero means the current time.
	Now       time.Time
	BatchSize int
	// Reset deletes existing dataset rows before inserting.
	Reset bool
}

type Summary struct {
	Users         int `json:"users"`
	Products      int `json:"products"`
	Orders        int `json:"orders"`
	OrderItems    int `json:"order_items"`
	ReturnedItems int `json:"returned_items"`
}

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Dataset is the generated rows, before insertion.
type Dataset struct {
	Users      []models.User
	Products   []models.Product
	Orders     []models.Order
	OrderItems []models.OrderItem
}

func (o Options) withDefaults() Options {
	if o.Users <= 0 {
		o.Users = DefaultUsers
	}
	if o.Products <= 0 {
		o.Products = DefaultProducts
	}
	if o.Orders < 0 {
		o.Orders = 0
	} else if o.Orders == 0 {
		o.Orders = DefaultOrders
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	o.Now = o.Now.UTC().Truncate(time.Second)
	return o
}

// Build generates the dataset in memory. The same Seed and Now always give the same rows.
func Build(opts Options) Dataset {
	opts = opts.withDefaults()
	g := &generator{f: gofakeit.New(opts.Seed), now: opts.Now}

	ds := Dataset{
		Users:    make([]models.User, 0, opts.Users),
		Products: make([]models.Product, 0, opts.Products),
		Orders:   make([]models.Order, 0, opts.Orders),
	}
	for i := 1; i <= opts.Users; i++ {
		ds.Users = append(ds.Users, g.user(int64(i)))
	}
	for i := 1; i <= opts.Products; i++ {
		ds.Products = append(ds.Products, g.product(int64(i)))
	}

	itemID := int64(1)
	for i := 1; i <= opts.Orders; i++ {
		user := ds.Users[g.f.IntRange(0, len(ds.Users)-1)]
		order := g.order(int64(i), user)
		ds.Orders = append(ds.Orders, order)

		for n := g.f.IntRange(1, 4); n > 0; n-- {
			product := ds.Products[g.f.IntRange(0, len(ds.Products)-1)]
			ds.OrderItems = append(ds.OrderItems, g.item(itemID, order, product))
			itemID++
		}
	}
	return ds
}

// Generate builds a dataset and inserts it in one transaction.
func Generate(ctx context.Context, store TxRunner, opts Options) (Summary, error) {
	opts = opts.withDefaults()
	ds := Build(opts)

	err := store.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
		if opts.Reset {
			global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
			for _, model := range []any{&models.OrderItem{}, &models.Order{}, &models.Product{}, &models.User{}} {
				if err := global.Delete(model).Error; err != nil {
					return fmt.Errorf("clearing %T: %w", model, err)
				}
			}
		}
		if err := tx.CreateInBatches(ds.Users, opts.BatchSize).Error; err != nil {
			return fmt.Errorf("inserting users: %w", err)
		}
		if err := tx.CreateInBatches(ds.Products, opts.BatchSize).Error; err != nil {
			return fmt.Errorf("inserting products: %w", err)
		}
		if len(ds.Orders) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(ds.Orders, opts.BatchSize).Error; err != nil {
			return fmt.Errorf("inserting orders: %w", err)
		}
		if err := tx.CreateInBatches(ds.OrderItems, opts.BatchSize).Error; err != nil {
			return fmt.Errorf("inserting order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return ds.summary(), nil
}

func (ds Dataset) summary() Summary {
	s := Summary{
		Users:      len(ds.Users),
		Products:   len(ds.Products),
		Orders:     len(ds.Orders),
		OrderItems: len(ds.OrderItems),
	}
	for _, item := range ds.OrderItems {
		if item.IsReturned() {
			s.ReturnedItems++
		}
	}
	return s
}

type generator struct {
	f   *gofakeit.Faker
	now time.Time
}

func (g *generator) user(id int64) models.User {
	created := g.between(g.now.AddDate(-2, 0, 0), g.now)
	return models.User{
		ID:        id,
		FirstName: ptr(g.f.FirstName()),
		LastName:  ptr(g.f.LastName()),
		Gender:    ptr(g.f.RandomString([]string{"F", "M"})),
		Age:       ptr(g.f.IntRange(12, 80)),
		Country:   ptr(g.country()),
		City:      ptr(g.f.City()),
		State:     ptr(g.f.State()),
		Email:     ptr(g.f.Email()),
		CreatedAt: ptr(created),
	}
}

func (g *generator) product(id int64) models.Product {
	price := money(g.f.Float64Range(5, 300))
	cost := money(price * g.f.Float64Range(0.4, 0.6))
	return models.Product{
		ID:          id,
		Brand:       ptr(g.f.RandomString(brands)),
		Department:  ptr(g.f.RandomString(departments)),
		Category:    ptr(g.f.RandomString(categories)),
		Name:        ptr(g.f.ProductName()),
		RetailPrice: ptr(price),
		Cost:        ptr(cost),
		CreatedAt:   ptr(g.between(g.now.AddDate(-3, 0, 0), g.now.AddDate(-2, 0, 0))),
	}
}

func (g *generator) order(id int64, user models.User) models.Order {
	from := g.now.AddDate(-1, 0, 0)
	if user.CreatedAt != nil && user.CreatedAt.After(from) {
		from = *user.CreatedAt
	}
	status := orderStatuses[g.f.IntRange(0, len(orderStatuses)-1)]
	created := g.between(from, g.now)
	order := models.Order{
		ID:        id,
		UserID:    ptr(user.ID),
		Status:    ptr(status.String()),
		CreatedAt: ptr(created),
	}
	if !status.HasShipped() {
		return order
	}

	shipped := g.clamp(created.Add(time.Duration(g.f.IntRange(6, 72)) * time.Hour))
	order.ShippedAt = ptr(shipped)
	if !status.HasDelivered() {
		return order
	}
	delivered := g.clamp(shipped.Add(time.Duration(g.f.IntRange(24, 120)) * time.Hour))
	order.DeliveredAt = ptr(delivered)
	if status == enums.OrderStatusReturned {
		order.ReturnedAt = ptr(g.clamp(delivered.Add(time.Duration(g.f.IntRange(24, 240)) * time.Hour)))
	}
	return order
}

func (g *generator) item(id int64, order models.Order, product models.Product) models.OrderItem {
	price := 0.0
	if product.RetailPrice != nil {
		price = *product.RetailPrice
	}
	return models.OrderItem{
		ID:         id,
		OrderID:    ptr(order.ID),
		UserID:     order.UserID,
		ProductID:  ptr(product.ID),
		SalePrice:  ptr(price),
		Discount:   ptr(money(price * g.f.Float64Range(0, 0.5))),
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
		ReturnedAt: order.ReturnedAt,
	}
}

func (g *generator) country() string {
	total := 0.0
	for _, c := range countries {
		total += c.weight
	}
	pick := g.f.Float64Range(0, total)
	for _, c := range countries {
		if pick < c.weight {
			return c.name
		}
		pick -= c.weight
	}
	return countries[len(countries)-1].name
}

func (g *generator) between(from, to time.Time) time.Time {
	if !to.After(from) {
		return from
	}
	return g.f.DateRange(from, to).UTC().Truncate(time.Second)
}

func (g *generator) clamp(t time.Time) time.Time {
	if t.After(g.now) {
		return g.now
	}
	return t
}

func money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func ptr[T any](v T) *T {
	return &v
}
