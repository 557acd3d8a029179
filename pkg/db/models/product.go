package models

import "time"

type Product struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement:false"`
	Brand       *string    `gorm:"column:brand;type:text"`
	Department  *string    `gorm:"column:department;type:text"`
	Category    *string    `gorm:"column:category;type:text"`
	Name        *string    `gorm:"column:name;type:text"`
	RetailPrice *float64   `gorm:"column:retail_price;type:double precision"`
	Cost        *float64   `gorm:"column:cost;type:double precision"`
	CreatedAt   *time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
}

func (Product) TableName() string { return "products" }
