package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a customer purchase moving through the delivery lifecycle
type Order struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	PhoneNumber      string         `gorm:"not null;index" json:"phone_number"`
	DeliveryAddress  string         `gorm:"not null" json:"delivery_address"`
	DeliveryNotes    string         `json:"delivery_notes"`
	TotalAmount      float64        `gorm:"not null" json:"total_amount"`
	DeliveryFee      float64        `json:"delivery_fee"`
	PaymentMethod    string         `gorm:"not null;default:'COD'" json:"payment_method"` // COD or BANK_TRANSFER
	PaymentConfirmed bool           `gorm:"not null;default:false" json:"payment_confirmed"`
	Status           OrderStatus    `gorm:"not null;default:'PENDING';index" json:"status"`
	SelfPickup       bool           `gorm:"not null;default:false" json:"self_pickup"`
	AssignedRiderID  *uint          `gorm:"index" json:"assigned_rider_id"` // nullable, set when a rider is assigned
	AssignedRider    *Rider         `gorm:"foreignKey:AssignedRiderID" json:"assigned_rider,omitempty"`
	CustomerID       *uint          `gorm:"index" json:"customer_id"` // nullable, walk-in orders have no customer
	Customer         *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	RestaurantID     uint           `gorm:"not null;index" json:"restaurant_id"`
	Items            []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line item owned exclusively by its order
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Name      string    `gorm:"not null" json:"name"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	ItemType  string    `gorm:"not null;default:'REGULAR'" json:"item_type"` // REGULAR or BUNDLE
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
