package models

import (
	"time"
)

// Restaurant is the venue whose orders this dashboard manages
type Restaurant struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	IsPaymentOverdue bool      `gorm:"not null;default:false" json:"is_payment_overdue"` // blocks status mutations while true
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Restaurant model
func (Restaurant) TableName() string {
	return "restaurants"
}
