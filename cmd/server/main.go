package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ksaito/chocolatte-backend/config"
	"github.com/ksaito/chocolatte-backend/internal/app/controller"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/internal/app/service"
	"github.com/ksaito/chocolatte-backend/internal/db"
	"github.com/ksaito/chocolatte-backend/internal/middleware"
	"github.com/ksaito/chocolatte-backend/internal/router"
	"github.com/ksaito/chocolatte-backend/internal/scheduler"
	"github.com/ksaito/chocolatte-backend/internal/storage"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"github.com/ksaito/chocolatte-backend/pkg/payment/paypay"
	"github.com/ksaito/chocolatte-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Chocolatte Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional: without it the server runs but issued tokens
	// cannot be revoked before they expire
	redisAvailable := true
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token blacklist disabled", map[string]interface{}{
			"error": err.Error(),
		})
		redisAvailable = false
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// PayPay client is only created when credentials are configured,
	// otherwise the payment service falls back to mock responses
	var paypayClient *paypay.Client
	if cfg.Payment.PayPay.APIKey != "" {
		paypayClient, err = paypay.NewClient(paypay.Config{
			APIKey:      cfg.Payment.PayPay.APIKey,
			MerchantID:  cfg.Payment.PayPay.MerchantID,
			BaseURL:     cfg.Payment.PayPay.BaseURL,
			RedirectURL: cfg.Payment.PayPay.RedirectURL,
		})
		if err != nil {
			logger.Warn("Failed to create PayPay client, using mock payments", map[string]interface{}{
				"error": err.Error(),
			})
			paypayClient = nil
		}
	}

	// S3 storage for image uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	drinkRepo := repository.NewDrinkRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	productService := service.NewProductService(productRepo)
	drinkService := service.NewDrinkService(drinkRepo, productRepo, db.GetDB())
	cartService := service.NewCartService(cartRepo, drinkRepo)
	paymentService := service.NewPaymentService(paypayClient)
	orderService := service.NewOrderService(orderRepo, cartRepo, addressRepo, paymentService, db.GetDB())
	addressService := service.NewAddressService(addressRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	exportService := service.NewExportService(orderRepo)
	chatbotService := service.NewChatbotService(cfg, productRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	drinkController := controller.NewDrinkController(drinkService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	addressController := controller.NewAddressController(addressService)
	reviewController := controller.NewReviewController(reviewService)
	uploadController := controller.NewUploadController(s3Storage)
	userController := controller.NewUserController(exportService, chatbotService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, redisAvailable)

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		drinkController,
		cartController,
		orderController,
		addressController,
		reviewController,
		uploadController,
		userController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start abandoned cart cleanup scheduler
	cartScheduler := scheduler.NewCartCleanupScheduler(cartRepo)
	if err := cartScheduler.Start(); err != nil {
		logger.Error("Failed to start cart cleanup scheduler", err)
	}
	defer cartScheduler.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
