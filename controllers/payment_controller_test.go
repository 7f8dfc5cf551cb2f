package controllers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/liamoar/CloudKitchen-sub001/models"
	"github.com/liamoar/CloudKitchen-sub001/services"
)

func seedTier(t *testing.T, db *gorm.DB) models.SubscriptionTier {
	t.Helper()
	tier := models.SubscriptionTier{Name: "Standard", MonthlyPrice: 49.0}
	if err := db.Create(&tier).Error; err != nil {
		t.Fatalf("Failed to seed subscription tier: %v", err)
	}
	return tier
}

func createTestInvoice(t *testing.T, db *gorm.DB, status string) models.PaymentInvoice {
	t.Helper()
	tier := seedTier(t, db)
	invoice := models.PaymentInvoice{
		Amount:             49.0,
		Currency:           "USD",
		Status:             status,
		SubscriptionTierID: tier.ID,
		RestaurantID:       1,
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("Failed to create test invoice: %v", err)
	}
	return invoice
}

// multipartRequest builds a multipart form request with one file field
func multipartRequest(t *testing.T, router *gin.Engine, path, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListInvoicesBadges(t *testing.T) {
	db := setupControllerTest(t)
	tier := seedTier(t, db)

	statuses := []string{
		models.PaymentStatusPending,
		models.PaymentStatusSubmitted,
		models.PaymentStatusApproved,
		models.PaymentStatusRejected,
	}
	for i, status := range statuses {
		invoice := models.PaymentInvoice{
			Amount:             49.0,
			Currency:           "USD",
			Status:             status,
			SubscriptionTierID: tier.ID,
			RestaurantID:       1,
			CreatedAt:          time.Now().Add(time.Duration(-i) * time.Hour),
		}
		assert.NoError(t, db.Create(&invoice).Error)
	}

	router := setupTestRouter()
	router.GET("/payments/invoices", ListInvoices)

	w := doJSON(router, http.MethodGet, "/payments/invoices", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	data := response["data"].([]interface{})
	assert.Len(t, data, 4)

	// newest first: PENDING was created last in wall-clock terms
	first := data[0].(map[string]interface{})
	assert.Equal(t, "PENDING", first["status"])
	assert.Equal(t, "neutral", first["badge"])

	badgeByStatus := map[string]string{}
	for _, item := range data {
		inv := item.(map[string]interface{})
		badgeByStatus[inv["status"].(string)] = inv["badge"].(string)
	}
	assert.Equal(t, "neutral", badgeByStatus["SUBMITTED"])
	assert.Equal(t, "positive", badgeByStatus["APPROVED"])
	assert.Equal(t, "negative", badgeByStatus["REJECTED"])
}

func TestListReceipts(t *testing.T) {
	db := setupControllerTest(t)
	tier := seedTier(t, db)

	receipt := models.PaymentReceipt{
		Amount:             49.0,
		Currency:           "USD",
		Status:             models.PaymentStatusApproved,
		SubscriptionTierID: tier.ID,
		RestaurantID:       1,
	}
	assert.NoError(t, db.Create(&receipt).Error)

	// a receipt for another venue must not leak in
	foreign := models.PaymentReceipt{
		Amount:             12.0,
		Currency:           "USD",
		Status:             models.PaymentStatusPending,
		SubscriptionTierID: tier.ID,
		RestaurantID:       2,
	}
	assert.NoError(t, db.Create(&foreign).Error)

	router := setupTestRouter()
	router.GET("/payments/receipts", ListReceipts)

	w := doJSON(router, http.MethodGet, "/payments/receipts", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "positive", first["badge"])
}

func TestGetInvoiceWithProofURL(t *testing.T) {
	db := setupControllerTest(t)

	mockImages := services.NewMockImageService()
	mockImages.SetAsMockForTesting()
	defer services.SetImageService(nil)

	invoice := createTestInvoice(t, db, models.PaymentStatusPending)

	router := setupTestRouter()
	router.GET("/payments/invoices/:id", GetInvoice)
	router.POST("/payments/invoices/:id/proof", SubmitInvoiceProof)

	// upload a proof, then the detail view must carry a URL for it
	w := multipartRequest(t, router,
		fmt.Sprintf("/payments/invoices/%d/proof", invoice.ID),
		"proof", "bank-slip.png", []byte("fake png bytes"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/payments/invoices/%d", invoice.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "SUBMITTED", data["status"])
	assert.Contains(t, data["proof_url"].(string), "proofs/mock_bank-slip.png")

	tierData := data["subscription_tier"].(map[string]interface{})
	assert.Equal(t, "Standard", tierData["name"])
}

func TestSubmitInvoiceProof(t *testing.T) {
	db := setupControllerTest(t)

	mockImages := services.NewMockImageService()
	mockImages.SetAsMockForTesting()
	defer services.SetImageService(nil)

	invoice := createTestInvoice(t, db, models.PaymentStatusPending)

	router := setupTestRouter()
	router.POST("/payments/invoices/:id/proof", SubmitInvoiceProof)

	w := multipartRequest(t, router,
		fmt.Sprintf("/payments/invoices/%d/proof", invoice.ID),
		"proof", "transfer.png", []byte("fake png bytes"))

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "SUBMITTED", data["status"])
	assert.Equal(t, "neutral", data["badge"])

	var reloaded models.PaymentInvoice
	db.First(&reloaded, invoice.ID)
	assert.Equal(t, models.PaymentStatusSubmitted, reloaded.Status)
	assert.NotNil(t, reloaded.ProofS3Key)
	assert.True(t, mockImages.ImageExists(*reloaded.ProofS3Key))
}

func TestSubmitInvoiceProofGuards(t *testing.T) {
	db := setupControllerTest(t)

	mockImages := services.NewMockImageService()
	mockImages.SetAsMockForTesting()
	defer services.SetImageService(nil)

	router := setupTestRouter()
	router.POST("/payments/invoices/:id/proof", SubmitInvoiceProof)

	// proof on an already approved invoice is rejected
	approved := createTestInvoice(t, db, models.PaymentStatusApproved)
	w := multipartRequest(t, router,
		fmt.Sprintf("/payments/invoices/%d/proof", approved.ID),
		"proof", "late.png", []byte("bytes"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVOICE_NOT_PENDING", errorCode(parseResponse(t, w)))

	// wrong file type is a validation error, not a server error
	tier := seedTier(t, db)
	pending := models.PaymentInvoice{
		Amount: 49.0, Currency: "USD", Status: models.PaymentStatusPending,
		SubscriptionTierID: tier.ID, RestaurantID: 1,
	}
	assert.NoError(t, db.Create(&pending).Error)
	w = multipartRequest(t, router,
		fmt.Sprintf("/payments/invoices/%d/proof", pending.ID),
		"proof", "proof.pdf", []byte("bytes"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_FORMAT", errorCode(parseResponse(t, w)))

	// missing file field
	req, _ := http.NewRequest(http.MethodPost,
		fmt.Sprintf("/payments/invoices/%d/proof", pending.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown invoice
	w = multipartRequest(t, router, "/payments/invoices/999/proof",
		"proof", "x.png", []byte("bytes"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "INVOICE_NOT_FOUND", errorCode(parseResponse(t, w)))
}
