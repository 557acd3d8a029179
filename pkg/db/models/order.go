package models

import "time"

// Order status is free-form text; the dataset uses Complete, Shipped, Processing, Cancelled
// and Returned.
type Order struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement:false"`
	UserID      *int64     `gorm:"column:user_id;index"`
	Status      *string    `gorm:"column:status;type:text"`
	CreatedAt   *time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
	ShippedAt   *time.Time `gorm:"column:shipped_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
	ReturnedAt  *time.Time `gorm:"column:returned_at"`
}

func (Order) TableName() string { return "orders" }
