package models

import (
	"time"
)

// Payment review statuses. Receipts never pass through SUBMITTED.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusSubmitted = "SUBMITTED"
	PaymentStatusApproved  = "APPROVED"
	PaymentStatusRejected  = "REJECTED"
)

// PaymentBadge maps a payment status to the badge tone used by the review
// views: PENDING/SUBMITTED are neutral, APPROVED positive, REJECTED negative.
func PaymentBadge(status string) string {
	switch status {
	case PaymentStatusApproved:
		return "positive"
	case PaymentStatusRejected:
		return "negative"
	default:
		return "neutral"
	}
}

// PaymentInvoice is created on a billing event and reviewed elsewhere.
// Invoices are never deleted.
type PaymentInvoice struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	Amount             float64           `gorm:"not null" json:"amount"`
	Currency           string            `gorm:"not null;default:'USD'" json:"currency"`
	Status             string            `gorm:"not null;default:'PENDING';index" json:"status"` // PENDING, SUBMITTED, APPROVED, REJECTED
	SubscriptionTierID uint              `gorm:"not null;index" json:"subscription_tier_id"`
	SubscriptionTier   *SubscriptionTier `gorm:"foreignKey:SubscriptionTierID" json:"subscription_tier,omitempty"`
	RestaurantID       uint              `gorm:"not null;index" json:"restaurant_id"`
	ProofS3Key         *string           `json:"proof_s3_key,omitempty"` // nullable, S3 key of the uploaded payment proof
	ProofURL           *string           `gorm:"-" json:"proof_url,omitempty"` // computed, presigned URL for the proof
	AdminNotes         *string           `json:"admin_notes,omitempty"`
	RejectionReason    *string           `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the PaymentInvoice model
func (PaymentInvoice) TableName() string {
	return "payment_invoices"
}

// PaymentReceipt records a settled billing event. Receipts are never deleted.
type PaymentReceipt struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	Amount             float64           `gorm:"not null" json:"amount"`
	Currency           string            `gorm:"not null;default:'USD'" json:"currency"`
	Status             string            `gorm:"not null;default:'PENDING';index" json:"status"` // PENDING, APPROVED, REJECTED
	SubscriptionTierID uint              `gorm:"not null;index" json:"subscription_tier_id"`
	SubscriptionTier   *SubscriptionTier `gorm:"foreignKey:SubscriptionTierID" json:"subscription_tier,omitempty"`
	RestaurantID       uint              `gorm:"not null;index" json:"restaurant_id"`
	ReceiptURL         *string           `json:"receipt_url,omitempty"` // nullable, external receipt image/link
	AdminNotes         *string           `json:"admin_notes,omitempty"`
	RejectionReason    *string           `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the PaymentReceipt model
func (PaymentReceipt) TableName() string {
	return "payment_receipts"
}

// SubscriptionTier is the billing plan an invoice or receipt is charged for
type SubscriptionTier struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	MonthlyPrice float64   `gorm:"not null" json:"monthly_price"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the SubscriptionTier model
func (SubscriptionTier) TableName() string {
	return "subscription_tiers"
}
