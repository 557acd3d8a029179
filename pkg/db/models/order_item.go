package models

import (
	"time"

	"github.com/runwaylab/outcomes-lab-backend/pkg/enums"
)

const (
	StatusComplete = string(enums.OrderStatusComplete)
	StatusReturned = string(enums.OrderStatusReturned)
)

// OrderItem is the fact table every report aggregates over. Foreign keys are plain columns
// without constraints so partial exports still load.
type OrderItem struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement:false"`
	OrderID    *int64     `gorm:"column:order_id"`
	UserID     *int64     `gorm:"column:user_id;index:idx_order_items_user_id"`
	ProductID  *int64     `gorm:"column:product_id;index:idx_order_items_product_id"`
	SalePrice  *float64   `gorm:"column:sale_price;type:double precision"`
	Discount   *float64   `gorm:"column:discount;type:double precision"`
	Status     *string    `gorm:"column:status;type:text;index:idx_order_items_status"`
	CreatedAt  *time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP;autoCreateTime:false;index:idx_order_items_created_at"`
	ReturnedAt *time.Time `gorm:"column:returned_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// IsReturned applies the compound returned predicate.
func (o OrderItem) IsReturned() bool {
	return (o.Status != nil && *o.Status == StatusReturned) || o.ReturnedAt != nil
}
