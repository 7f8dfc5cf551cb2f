package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/liamoar/CloudKitchen-sub001/models"
)

// TokenTTL is how long a freshly issued tracking token stays valid
const TokenTTL = 24 * time.Hour

// IssueToken mints a tracking token for the order and revokes any previously
// issued tokens of the same type in the same transaction, so only one link
// per order and type is live at a time.
func IssueToken(db *gorm.DB, orderID uint, tokenType string, now time.Time) (*models.TrackingToken, error) {
	if tokenType != models.TokenTypeRider && tokenType != models.TokenTypeCustomer {
		return nil, fmt.Errorf("unknown token type %q", tokenType)
	}

	token := &models.TrackingToken{
		OrderID:   orderID,
		Token:     newTokenString(orderID, tokenType, now),
		TokenType: tokenType,
		ExpiresAt: now.Add(TokenTTL),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ? AND token_type = ?", orderID, tokenType).
			Delete(&models.TrackingToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue %s token: %w", tokenType, err)
	}

	return token, nil
}

// NewestToken returns the most recently created token of the given type for
// the order. A missing token is expected absence, not an error: both returns
// are nil.
func NewestToken(db *gorm.DB, orderID uint, tokenType string) (*models.TrackingToken, error) {
	var token models.TrackingToken
	err := db.Where("order_id = ? AND token_type = ?", orderID, tokenType).
		Order("created_at DESC").
		First(&token).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// RiderLink builds the shareable rider URL for a token
func RiderLink(origin, token string) string {
	if token == "" {
		return ""
	}
	return fmt.Sprintf("%s/rider/%s", origin, token)
}

// TrackingLink builds the shareable customer tracking URL for a token
func TrackingLink(origin, token string) string {
	if token == "" {
		return ""
	}
	return fmt.Sprintf("%s/track/%s", origin, token)
}

// newTokenString generates an opaque token: <orderId>-rider-<timestamp>-<random>
// for rider tokens, with a "track" segment for customer ones.
func newTokenString(orderID uint, tokenType string, now time.Time) string {
	segment := "rider"
	if tokenType == models.TokenTypeCustomer {
		segment = "track"
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// issuance must not fail on an entropy error; timestamp-only token
		return fmt.Sprintf("%d-%s-%d", orderID, segment, now.UnixMilli())
	}
	return fmt.Sprintf("%d-%s-%d-%s", orderID, segment, now.UnixMilli(), hex.EncodeToString(suffix))
}
