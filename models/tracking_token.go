package models

import (
	"time"
)

// Token types for order tracking links
const (
	TokenTypeRider    = "RIDER"
	TokenTypeCustomer = "CUSTOMER"
)

// TrackingToken is an opaque, time-limited credential granting read access to
// an order's status. Multiple tokens may exist per order and type; only the
// most recently created one of each type is considered current.
type TrackingToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	TokenType string    `gorm:"not null;index" json:"token_type"` // RIDER or CUSTOMER
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the TrackingToken model
func (TrackingToken) TableName() string {
	return "order_tracking_tokens"
}
