package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/liamoar/CloudKitchen-sub001/config"
	"github.com/liamoar/CloudKitchen-sub001/models"
	"github.com/liamoar/CloudKitchen-sub001/services"
)

// AssignRiderRequest represents the request body for assigning a rider
type AssignRiderRequest struct {
	RiderID uint `json:"rider_id" binding:"required"`
}

// ListRiders handles GET /api/v1/riders - lists riders, optionally only active ones
func ListRiders(c *gin.Context) {
	db := config.GetDB()

	query := db.Order("name")
	if c.DefaultQuery("active", "false") == "true" {
		query = query.Where("active = ?", true)
	}

	var riders []models.Rider
	if err := query.Find(&riders).Error; err != nil {
		log.Printf("Failed to load riders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load riders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    riders,
	})
}

// AssignRider handles POST /api/v1/orders/:id/assign-rider
// Sets the order's rider reference and issues a fresh RIDER tracking token
// with a 24-hour expiry. The order's status is not changed by this call.
func AssignRider(c *gin.Context) {
	cfg := config.GetConfig()
	db := config.GetDB()

	var req AssignRiderRequest
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

	order, ok := findOrder(c, db)
	if !ok {
		return
	}

	if order.SelfPickup {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SELF_PICKUP",
				"message": "Self-pickup orders do not take a rider",
			},
		})
		return
	}

	if order.Status.IsTerminal() {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_CLOSED",
				"message": "Cannot assign a rider to a closed order",
			},
		})
		return
	}

	var rider models.Rider
	if err := db.First(&rider, req.RiderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RIDER_NOT_FOUND",
					"message": "Rider not found",
				},
			})
			return
		}
		log.Printf("Failed to load rider %d: %v", req.RiderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load rider",
			},
		})
		return
	}

	if !rider.Active {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RIDER_INACTIVE",
				"message": "Rider is not active",
			},
		})
		return
	}

	if err := db.Model(&order).Update("assigned_rider_id", rider.ID).Error; err != nil {
		log.Printf("Failed to assign rider %d to order %d: %v", rider.ID, order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to assign rider",
			},
		})
		return
	}

	token, err := services.IssueToken(db, order.ID, models.TokenTypeRider, time.Now())
	if err != nil {
		log.Printf("Failed to issue rider token for order %d: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Rider assigned but tracking link could not be generated",
			},
		})
		return
	}

	order.AssignedRiderID = &rider.ID
	order.AssignedRider = &rider

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":      order,
			"rider_link": services.RiderLink(cfg.AppOrigin, token.Token),
			"expires_at": token.ExpiresAt,
		},
	})
}
