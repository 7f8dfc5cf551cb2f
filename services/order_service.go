package services

import (
	"sync"

	"gorm.io/gorm"

	"github.com/liamoar/CloudKitchen-sub001/models"
)

// DefaultCustomerName is shown for orders without a customer reference
const DefaultCustomerName = "Customer"

// OrderView is an order augmented with the related data the dashboard needs:
// line items, customer profile, order count and shareable tracking links.
type OrderView struct {
	models.Order
	CustomerName       string               `json:"customer_name"`
	CustomerEmail      string               `json:"customer_email,omitempty"`
	CustomerOrderCount int64                `json:"customer_order_count"`
	IsNewCustomer      bool                 `json:"is_new_customer"`
	RiderLink          string               `json:"rider_link,omitempty"`
	TrackingLink       string               `json:"tracking_link,omitempty"`
	StatusDisplay      models.StatusConfig  `json:"status_display"`
	AvailableStatuses  []models.OrderStatus `json:"available_statuses"`
	IsNew              bool                 `json:"is_new"`
}

// EnrichOrder fans out the sub-fetches for one order concurrently and merges
// the results. A failed sub-fetch fails the whole enrichment; missing related
// records (customer, tokens) are expected absence and apply defaults instead.
func EnrichOrder(db *gorm.DB, order models.Order, origin string) (OrderView, error) {
	view := OrderView{
		Order:              order,
		CustomerName:       DefaultCustomerName,
		CustomerOrderCount: 0,
		IsNewCustomer:      true,
		StatusDisplay:      models.StatusDisplay(order.Status),
		AvailableStatuses:  models.AvailableStatuses(order.Status),
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	// Line items
	wg.Add(1)
	go func() {
		defer wg.Done()
		var items []models.OrderItem
		if err := db.Where("order_id = ?", order.ID).Order("id").Find(&items).Error; err != nil {
			fail(err)
			return
		}
		mu.Lock()
		view.Items = items
		mu.Unlock()
	}()

	// Customer profile and order count at this venue
	if order.CustomerID != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var customer models.Customer
			err := db.First(&customer, *order.CustomerID).Error
			if err == gorm.ErrRecordNotFound {
				return // defaults already applied
			}
			if err != nil {
				fail(err)
				return
			}

			var count int64
			if err := db.Model(&models.Order{}).
				Where("customer_id = ? AND restaurant_id = ?", *order.CustomerID, order.RestaurantID).
				Count(&count).Error; err != nil {
				fail(err)
				return
			}

			mu.Lock()
			view.CustomerName = customer.Name
			if customer.Email != nil {
				view.CustomerEmail = *customer.Email
			}
			view.CustomerOrderCount = count
			view.IsNewCustomer = count == 1
			mu.Unlock()
		}()
	}

	// Newest rider tracking token, only when a rider is assigned
	if order.AssignedRiderID != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := NewestToken(db, order.ID, models.TokenTypeRider)
			if err != nil {
				fail(err)
				return
			}
			if token != nil {
				mu.Lock()
				view.RiderLink = RiderLink(origin, token.Token)
				mu.Unlock()
			}
		}()
	}

	// Newest customer tracking token
	wg.Add(1)
	go func() {
		defer wg.Done()
		token, err := NewestToken(db, order.ID, models.TokenTypeCustomer)
		if err != nil {
			fail(err)
			return
		}
		if token != nil {
			mu.Lock()
			view.TrackingLink = TrackingLink(origin, token.Token)
			mu.Unlock()
		}
	}()

	wg.Wait()

	if len(errs) > 0 {
		return OrderView{}, errs[0]
	}
	return view, nil
}

// EnrichOrders enriches a list of orders, preserving input order
func EnrichOrders(db *gorm.DB, orders []models.Order, origin string) ([]OrderView, error) {
	views := make([]OrderView, len(orders))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	// cap the fan-out so a large list does not flood the connection pool
	sem := make(chan struct{}, 8)

	for i, order := range orders {
		wg.Add(1)
		go func(i int, order models.Order) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			view, err := EnrichOrder(db, order, origin)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			views[i] = view
		}(i, order)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return views, nil
}

// LoadOrders fetches all orders for a restaurant, newest first
func LoadOrders(db *gorm.DB, restaurantID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
