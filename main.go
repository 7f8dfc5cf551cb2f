package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/liamoar/CloudKitchen-sub001/config"
	"github.com/liamoar/CloudKitchen-sub001/controllers"
	"github.com/liamoar/CloudKitchen-sub001/middleware"
	"github.com/liamoar/CloudKitchen-sub001/models"
	"github.com/liamoar/CloudKitchen-sub001/services"
	"github.com/liamoar/CloudKitchen-sub001/utils"
)

func main() {
	// Basic logging
	log.Println("Starting CloudKitchen order admin API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Restaurant{},
		&models.Customer{},
		&models.Rider{},
		&models.Order{},
		&models.OrderItem{},
		&models.TrackingToken{},
		&models.SubscriptionTier{},
		&models.PaymentInvoice{},
		&models.PaymentReceipt{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize proof image storage: S3 when a bucket is configured,
	// local disk otherwise
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, storing proof images on local disk")
		services.SetImageService(services.NewLocalImageService(utils.UploadDir))
	}

	// Start the background order watcher; cancelled when main exits
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher := services.NewOrderWatcher(db, cfg.RestaurantID, services.DefaultPollInterval)
	services.SetOrderWatcher(watcher)
	go watcher.Start(ctx)

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with CORS, auth and all API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.AppOrigin}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// locally stored proof images are served straight from disk
	router.Static("/uploads", utils.UploadDir)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Admin routes require a valid staff token
		admin := v1.Group("")
		if cfg.Auth0Domain != "" {
			admin.Use(middleware.EnsureValidToken(cfg))
		}

		admin.GET("/orders", controllers.ListOrders)
		admin.POST("/orders", controllers.CreateOrder)
		admin.GET("/orders/:id", controllers.GetOrder)
		admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
		admin.POST("/orders/:id/confirm-payment", controllers.ConfirmPayment)
		admin.POST("/orders/:id/assign-rider", controllers.AssignRider)

		admin.GET("/profile", controllers.GetProfile)

		admin.GET("/riders", controllers.ListRiders)

		admin.GET("/payments/invoices", controllers.ListInvoices)
		admin.GET("/payments/invoices/:id", controllers.GetInvoice)
		admin.POST("/payments/invoices/:id/proof", controllers.SubmitInvoiceProof)
		admin.GET("/payments/receipts", controllers.ListReceipts)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "CloudKitchen order admin API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
