package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/liamoar/CloudKitchen-sub001/models"
)

const testOrigin = "https://dash.example.com"

func TestEnrichOrderWithoutCustomer(t *testing.T) {
	db := setupServiceTestDB(t)

	order := models.Order{
		PhoneNumber:     "+4915550001",
		DeliveryAddress: "1 Elm Street",
		RestaurantID:    1,
		Status:          models.StatusPending,
	}
	assert.NoError(t, db.Create(&order).Error)

	view, err := EnrichOrder(db, order, testOrigin)
	assert.NoError(t, err)
	assert.Equal(t, "Customer", view.CustomerName, "missing customer defaults to 'Customer'")
	assert.Equal(t, int64(0), view.CustomerOrderCount)
	assert.True(t, view.IsNewCustomer)
	assert.Empty(t, view.RiderLink)
	assert.Empty(t, view.TrackingLink)
}

func TestEnrichOrderNewCustomerFlag(t *testing.T) {
	db := setupServiceTestDB(t)

	email := "jane@example.com"
	customer := models.Customer{Name: "Jane Smith", Email: &email}
	assert.NoError(t, db.Create(&customer).Error)

	first := models.Order{
		PhoneNumber:     "+4915550002",
		DeliveryAddress: "2 Elm Street",
		RestaurantID:    1,
		CustomerID:      &customer.ID,
		Status:          models.StatusPending,
	}
	assert.NoError(t, db.Create(&first).Error)

	view, err := EnrichOrder(db, first, testOrigin)
	assert.NoError(t, err)
	assert.Equal(t, "Jane Smith", view.CustomerName)
	assert.Equal(t, "jane@example.com", view.CustomerEmail)
	assert.Equal(t, int64(1), view.CustomerOrderCount)
	assert.True(t, view.IsNewCustomer, "exactly one order at this venue means a new customer")

	// A second order at the same venue clears the flag for both
	second := models.Order{
		PhoneNumber:     "+4915550002",
		DeliveryAddress: "2 Elm Street",
		RestaurantID:    1,
		CustomerID:      &customer.ID,
		Status:          models.StatusPending,
	}
	assert.NoError(t, db.Create(&second).Error)

	view, err = EnrichOrder(db, second, testOrigin)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), view.CustomerOrderCount)
	assert.False(t, view.IsNewCustomer)
}

func TestEnrichOrderLoadsItemsAndLinks(t *testing.T) {
	db := setupServiceTestDB(t)

	rider := models.Rider{Name: "Max", Phone: "+4915550100", Active: true}
	assert.NoError(t, db.Create(&rider).Error)

	order := models.Order{
		PhoneNumber:     "+4915550003",
		DeliveryAddress: "3 Elm Street",
		RestaurantID:    1,
		Status:          models.StatusDispatched,
		AssignedRiderID: &rider.ID,
	}
	assert.NoError(t, db.Create(&order).Error)

	items := []models.OrderItem{
		{OrderID: order.ID, Name: "Margherita", Quantity: 2, UnitPrice: 9.5, ItemType: "REGULAR"},
		{OrderID: order.ID, Name: "Family Deal", Quantity: 1, UnitPrice: 24.0, ItemType: "BUNDLE"},
	}
	assert.NoError(t, db.Create(&items).Error)

	now := time.Now()
	riderToken, err := IssueToken(db, order.ID, models.TokenTypeRider, now)
	assert.NoError(t, err)
	customerToken, err := IssueToken(db, order.ID, models.TokenTypeCustomer, now)
	assert.NoError(t, err)

	view, err := EnrichOrder(db, order, testOrigin)
	assert.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, testOrigin+"/rider/"+riderToken.Token, view.RiderLink)
	assert.Equal(t, testOrigin+"/track/"+customerToken.Token, view.TrackingLink)
	assert.Equal(t, "Dispatched", view.StatusDisplay.Label)
	assert.Equal(t, []models.OrderStatus{models.StatusOutForDelivery, models.StatusDelivered}, view.AvailableStatuses)
}

func TestEnrichOrdersPreservesInputOrder(t *testing.T) {
	db := setupServiceTestDB(t)

	orders := make([]models.Order, 0, 5)
	for i := 0; i < 5; i++ {
		order := models.Order{
			PhoneNumber:     "+491555100",
			DeliveryAddress: "Somewhere",
			RestaurantID:    1,
			Status:          models.StatusPending,
		}
		assert.NoError(t, db.Create(&order).Error)
		orders = append(orders, order)
	}

	views, err := EnrichOrders(db, orders, testOrigin)
	assert.NoError(t, err)
	assert.Len(t, views, 5)
	for i := range orders {
		assert.Equal(t, orders[i].ID, views[i].ID)
	}
}

func TestLoadOrdersScopedAndNewestFirst(t *testing.T) {
	db := setupServiceTestDB(t)

	older := models.Order{
		PhoneNumber: "+491", DeliveryAddress: "a", RestaurantID: 1,
		Status: models.StatusPending, CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := models.Order{
		PhoneNumber: "+492", DeliveryAddress: "b", RestaurantID: 1,
		Status: models.StatusPending, CreatedAt: time.Now(),
	}
	otherVenue := models.Order{
		PhoneNumber: "+493", DeliveryAddress: "c", RestaurantID: 2,
		Status: models.StatusPending,
	}
	assert.NoError(t, db.Create(&older).Error)
	assert.NoError(t, db.Create(&newer).Error)
	assert.NoError(t, db.Create(&otherVenue).Error)

	orders, err := LoadOrders(db, 1)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID, "orders come back newest first")
}
