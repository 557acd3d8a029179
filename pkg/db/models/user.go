package models

import "time"

// User is a customer row from the TheLook users export.
type User struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement:false"`
	FirstName *string    `gorm:"column:first_name;type:text"`
	LastName  *string    `gorm:"column:last_name;type:text"`
	Gender    *string    `gorm:"column:gender;type:text"`
	Age       *int       `gorm:"column:age"`
	Country   *string    `gorm:"column:country;type:text"`
	City      *string    `gorm:"column:city;type:text"`
	State     *string    `gorm:"column:state;type:text"`
	Email     *string    `gorm:"column:email;type:text"`
	CreatedAt *time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (User) TableName() string { return "users" }
