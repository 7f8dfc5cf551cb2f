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
	"github.com/liamoar/CloudKitchen-sub001/utils"
)

// invoiceView is a payment invoice plus the badge tone the review UI renders
type invoiceView struct {
	models.PaymentInvoice
	Badge string `json:"badge"`
}

// receiptView is a payment receipt plus its badge tone
type receiptView struct {
	models.PaymentReceipt
	Badge string `json:"badge"`
}

// ListInvoices handles GET /api/v1/payments/invoices - invoice history, newest first
func ListInvoices(c *gin.Context) {
	cfg := config.GetConfig()
	db := config.GetDB()

	var invoices []models.PaymentInvoice
	err := db.Preload("SubscriptionTier").
		Where("restaurant_id = ?", cfg.RestaurantID).
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		log.Printf("Failed to load invoices: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load payment history",
			},
		})
		return
	}

	views := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, invoiceView{PaymentInvoice: inv, Badge: models.PaymentBadge(inv.Status)})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// ListReceipts handles GET /api/v1/payments/receipts - receipt history, newest first
func ListReceipts(c *gin.Context) {
	cfg := config.GetConfig()
	db := config.GetDB()

	var receipts []models.PaymentReceipt
	err := db.Preload("SubscriptionTier").
		Where("restaurant_id = ?", cfg.RestaurantID).
		Order("created_at DESC").
		Find(&receipts).Error
	if err != nil {
		log.Printf("Failed to load receipts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load payment history",
			},
		})
		return
	}

	views := make([]receiptView, 0, len(receipts))
	for _, r := range receipts {
		views = append(views, receiptView{PaymentReceipt: r, Badge: models.PaymentBadge(r.Status)})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// GetInvoice handles GET /api/v1/payments/invoices/:id - invoice detail
// including a presigned URL for the attached proof image, if any
func GetInvoice(c *gin.Context) {
	db := config.GetDB()

	invoice, ok := findInvoice(c, db)
	if !ok {
		return
	}

	if invoice.ProofS3Key != nil {
		imageService := services.GetImageService()
		if imageService != nil {
			url, err := imageService.GetImageURL(*invoice.ProofS3Key)
			if err != nil {
				log.Printf("Failed to presign proof for invoice %d: %v", invoice.ID, err)
			} else if url != "" {
				invoice.ProofURL = &url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    invoiceView{PaymentInvoice: invoice, Badge: models.PaymentBadge(invoice.Status)},
	})
}

// SubmitInvoiceProof handles POST /api/v1/payments/invoices/:id/proof
// Uploads a payment proof image and moves a PENDING invoice to SUBMITTED.
func SubmitInvoiceProof(c *gin.Context) {
	db := config.GetDB()

	invoice, ok := findInvoice(c, db)
	if !ok {
		return
	}

	if invoice.Status != models.PaymentStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVOICE_NOT_PENDING",
				"message": "Proof can only be submitted for a pending invoice",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "A proof image file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	s3Key, err := imageService.UploadImage(fileHeader)
	if err != nil {
		if uploadErr, isUploadErr := err.(*utils.FileUploadError); isUploadErr {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		log.Printf("Failed to upload proof for invoice %d: %v", invoice.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload proof image",
			},
		})
		return
	}

	updates := map[string]interface{}{
		"proof_s3_key": s3Key,
		"status":       models.PaymentStatusSubmitted,
	}
	if err := db.Model(&invoice).Updates(updates).Error; err != nil {
		log.Printf("Failed to record proof for invoice %d: %v", invoice.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record proof submission",
			},
		})
		return
	}

	invoice.ProofS3Key = &s3Key
	invoice.Status = models.PaymentStatusSubmitted

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    invoiceView{PaymentInvoice: invoice, Badge: models.PaymentBadge(invoice.Status)},
	})
}

// findInvoice loads the invoice named by the :id route parameter, writing the
// error response itself on failure.
func findInvoice(c *gin.Context, db *gorm.DB) (models.PaymentInvoice, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_INVOICE_ID",
				"message": "Invoice ID must be a positive integer",
			},
		})
		return models.PaymentInvoice{}, false
	}

	var invoice models.PaymentInvoice
	if err := db.Preload("SubscriptionTier").First(&invoice, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVOICE_NOT_FOUND",
					"message": "Invoice not found",
				},
			})
		} else {
			log.Printf("Failed to load invoice %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load invoice",
				},
			})
		}
		return models.PaymentInvoice{}, false
	}

	return invoice, true
}
