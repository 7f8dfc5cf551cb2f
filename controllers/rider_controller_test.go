package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/liamoar/CloudKitchen-sub001/models"
)

func createTestRider(t *testing.T, db *gorm.DB, active bool) models.Rider {
	t.Helper()
	rider := models.Rider{Name: "Max", Phone: "+4915550100", Active: active}
	if err := db.Create(&rider).Error; err != nil {
		t.Fatalf("Failed to create test rider: %v", err)
	}
	return rider
}

func TestListRiders(t *testing.T) {
	db := setupControllerTest(t)
	createTestRider(t, db, true)
	inactive := createTestRider(t, db, false)

	router := setupTestRouter()
	router.GET("/riders", ListRiders)

	w := doJSON(router, http.MethodGet, "/riders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	assert.Len(t, response["data"].([]interface{}), 2)

	w = doJSON(router, http.MethodGet, "/riders?active=true", nil)
	response = parseResponse(t, w)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.NotEqual(t, float64(inactive.ID), first["id"])
}

func TestAssignRider(t *testing.T) {
	db := setupControllerTest(t)
	order := createTestOrder(t, db, models.StatusReadyForDelivery)
	rider := createTestRider(t, db, true)

	router := setupTestRouter()
	router.POST("/orders/:id/assign-rider", AssignRider)

	before := time.Now()
	w := doJSON(router, http.MethodPost,
		fmt.Sprintf("/orders/%d/assign-rider", order.ID),
		map[string]interface{}{"rider_id": rider.ID})

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	assert.True(t, response["success"].(bool))

	data := response["data"].(map[string]interface{})
	riderLink := data["rider_link"].(string)
	assert.True(t, strings.HasPrefix(riderLink, testOrigin+"/rider/"),
		"link should have the form <origin>/rider/<token>, got %s", riderLink)

	// the issued token is RIDER-typed with a 24h expiry
	var token models.TrackingToken
	assert.NoError(t, db.Where("order_id = ?", order.ID).First(&token).Error)
	assert.Equal(t, models.TokenTypeRider, token.TokenType)
	assert.WithinDuration(t, before.Add(24*time.Hour), token.ExpiresAt, 5*time.Second)

	// the rider reference is set; the status is untouched by assignment
	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.NotNil(t, reloaded.AssignedRiderID)
	assert.Equal(t, rider.ID, *reloaded.AssignedRiderID)
	assert.Equal(t, models.StatusReadyForDelivery, reloaded.Status)
}

func TestAssignRiderReassignmentRevokesOldToken(t *testing.T) {
	db := setupControllerTest(t)
	order := createTestOrder(t, db, models.StatusReadyForDelivery)
	first := createTestRider(t, db, true)
	second := createTestRider(t, db, true)

	router := setupTestRouter()
	router.POST("/orders/:id/assign-rider", AssignRider)

	w := doJSON(router, http.MethodPost,
		fmt.Sprintf("/orders/%d/assign-rider", order.ID),
		map[string]interface{}{"rider_id": first.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost,
		fmt.Sprintf("/orders/%d/assign-rider", order.ID),
		map[string]interface{}{"rider_id": second.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.TrackingToken{}).
		Where("order_id = ? AND token_type = ?", order.ID, models.TokenTypeRider).
		Count(&count)
	assert.Equal(t, int64(1), count, "reassignment leaves a single live rider token")
}

func TestAssignRiderGuards(t *testing.T) {
	tests := []struct {
		name           string
		orderStatus    models.OrderStatus
		selfPickup     bool
		riderActive    bool
		missingRider   bool
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Self-pickup order",
			orderStatus:    models.StatusPending,
			selfPickup:     true,
			riderActive:    true,
			expectedStatus: http.StatusConflict,
			expectedError:  "SELF_PICKUP",
		},
		{
			name:           "Closed order",
			orderStatus:    models.StatusDelivered,
			riderActive:    true,
			expectedStatus: http.StatusConflict,
			expectedError:  "ORDER_CLOSED",
		},
		{
			name:           "Inactive rider",
			orderStatus:    models.StatusPending,
			riderActive:    false,
			expectedStatus: http.StatusConflict,
			expectedError:  "RIDER_INACTIVE",
		},
		{
			name:           "Unknown rider",
			orderStatus:    models.StatusPending,
			missingRider:   true,
			expectedStatus: http.StatusNotFound,
			expectedError:  "RIDER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupControllerTest(t)

			order := createTestOrder(t, db, tt.orderStatus)
			if tt.selfPickup {
				assert.NoError(t, db.Model(&order).Update("self_pickup", true).Error)
			}

			riderID := uint(999)
			if !tt.missingRider {
				rider := createTestRider(t, db, tt.riderActive)
				riderID = rider.ID
			}

			router := setupTestRouter()
			router.POST("/orders/:id/assign-rider", AssignRider)

			w := doJSON(router, http.MethodPost,
				fmt.Sprintf("/orders/%d/assign-rider", order.ID),
				map[string]interface{}{"rider_id": riderID})

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedError, errorCode(parseResponse(t, w)))

			var reloaded models.Order
			db.First(&reloaded, order.ID)
			assert.Nil(t, reloaded.AssignedRiderID, "failed assignment must not set the rider reference")
		})
	}
}
