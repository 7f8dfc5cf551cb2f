package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/liamoar/CloudKitchen-sub001/config"
	"github.com/liamoar/CloudKitchen-sub001/models"
	"github.com/liamoar/CloudKitchen-sub001/services"
)

// CreateOrderItemRequest is one line item of a new order
type CreateOrderItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
	ItemType  string  `json:"item_type" binding:"omitempty,oneof=REGULAR BUNDLE"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	PhoneNumber     string                   `json:"phone_number" binding:"required"`
	DeliveryAddress string                   `json:"delivery_address" binding:"required"`
	DeliveryNotes   string                   `json:"delivery_notes"`
	DeliveryFee     float64                  `json:"delivery_fee" binding:"gte=0"`
	PaymentMethod   string                   `json:"payment_method" binding:"omitempty,oneof=COD BANK_TRANSFER"`
	SelfPickup      bool                     `json:"self_pickup"`
	CustomerID      *uint                    `json:"customer_id"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders handles GET /api/v1/orders - enriched, filtered, paginated order list
func ListOrders(c *gin.Context) {
	cfg := config.GetConfig()
	db := config.GetDB()

	orders, err := services.LoadOrders(db, cfg.RestaurantID)
	if err != nil {
		log.Printf("Failed to load orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	views, err := services.EnrichOrders(db, orders, cfg.AppOrigin)
	if err != nil {
		log.Printf("Failed to enrich orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	// Flag orders that appeared since the watcher's previous snapshot
	if watcher := services.GetOrderWatcher(); watcher != nil {
		for i := range views {
			views[i].IsNew = watcher.IsNew(views[i].ID)
		}
	}

	statusFilter := c.DefaultQuery("status", services.FilterAll)
	search := c.Query("search")
	filtered := services.FilterOrders(views, statusFilter, search)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	totalPages := services.TotalPages(len(filtered), services.OrdersPageSize)
	lo, hi := services.Paginate(len(filtered), page, services.OrdersPageSize)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    filtered[lo:hi],
		"pagination": gin.H{
			"page":        page,
			"page_size":   services.OrdersPageSize,
			"total":       len(filtered),
			"total_pages": totalPages,
			"window":      services.PageWindow(page, totalPages),
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - single enriched order
func GetOrder(c *gin.Context) {
	cfg := config.GetConfig()
	db := config.GetDB()

	order, ok := findOrder(c, db)
	if !ok {
		return
	}

	view, err := services.EnrichOrder(db, order, cfg.AppOrigin)
	if err != nil {
		log.Printf("Failed to enrich order %d: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	if watcher := services.GetOrderWatcher(); watcher != nil {
		view.IsNew = watcher.IsNew(view.ID)
		watcher.MarkSeen(view.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// CreateOrder handles POST /api/v1/orders - records a phone-in order with its items
func CreateOrder(c *gin.Context) {
	cfg := config.GetConfig()
	db := config.GetDB()

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "COD"
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		itemType := item.ItemType
		if itemType == "" {
			itemType = "REGULAR"
		}
		total += float64(item.Quantity) * item.UnitPrice
		items = append(items, models.OrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			ItemType:  itemType,
		})
	}
	total += req.DeliveryFee

	order := models.Order{
		PhoneNumber:     req.PhoneNumber,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryNotes:   req.DeliveryNotes,
		TotalAmount:     total,
		DeliveryFee:     req.DeliveryFee,
		PaymentMethod:   paymentMethod,
		Status:          models.StatusPending,
		SelfPickup:      req.SelfPickup,
		CustomerID:      req.CustomerID,
		RestaurantID:    cfg.RestaurantID,
		Items:           items,
	}

	if err := db.Create(&order).Error; err != nil {
		log.Printf("Failed to create order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status
// Transitions are enforced server-side: forward jumps along the main
// sequence, or CANCELLED from any non-terminal status.
func UpdateOrderStatus(c *gin.Context) {
	db := config.GetDB()

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	newStatus, err := models.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": err.Error(),
			},
		})
		return
	}

	order, ok := findOrder(c, db)
	if !ok {
		return
	}

	if blocked := paymentOverdueGuard(c, db, order.RestaurantID); blocked {
		return
	}

	if !models.CanTransition(order.Status, newStatus) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Order cannot move from " + string(order.Status) + " to " + string(newStatus),
			},
		})
		return
	}

	// The status predicate makes the update an optimistic guard: if another
	// operator moved the order first, zero rows match.
	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", newStatus)
	if result.Error != nil {
		log.Printf("Failed to update order %d status: %v", order.ID, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status.",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONCURRENT_UPDATE",
				"message": "Order was updated by another operator. Reload and retry.",
			},
		})
		return
	}

	order.Status = newStatus
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ConfirmPayment handles POST /api/v1/orders/:id/confirm-payment
func ConfirmPayment(c *gin.Context) {
	db := config.GetDB()

	order, ok := findOrder(c, db)
	if !ok {
		return
	}

	// Payment on a cancelled order cannot be confirmed. Delivered is allowed:
	// COD settles at the door.
	if order.Status == models.StatusCancelled {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_CANCELLED",
				"message": "Cannot confirm payment for a cancelled order",
			},
		})
		return
	}

	if err := db.Model(&order).Update("payment_confirmed", true).Error; err != nil {
		log.Printf("Failed to confirm payment for order %d: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to confirm payment",
			},
		})
		return
	}

	order.PaymentConfirmed = true
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// findOrder loads the order named by the :id route parameter, writing the
// error response itself when the id is bad or the order does not exist.
func findOrder(c *gin.Context, db *gorm.DB) (models.Order, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order ID must be a positive integer",
			},
		})
		return models.Order{}, false
	}

	var order models.Order
	if err := db.First(&order, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
		} else {
			log.Printf("Failed to load order %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load order",
				},
			})
		}
		return models.Order{}, false
	}

	return order, true
}

// paymentOverdueGuard blocks status mutations while the venue's subscription
// payment is overdue. Returns true when the request was rejected.
func paymentOverdueGuard(c *gin.Context, db *gorm.DB, restaurantID uint) bool {
	var restaurant models.Restaurant
	err := db.First(&restaurant, restaurantID).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		log.Printf("Failed to load restaurant %d: %v", restaurantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to verify restaurant billing state",
			},
		})
		return true
	}

	if restaurant.IsPaymentOverdue {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PAYMENT_OVERDUE",
				"message": "Order updates are disabled while your subscription payment is overdue",
			},
		})
		return true
	}

	return false
}
