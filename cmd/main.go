package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rental-service/internal/cache"
	"rental-service/internal/config"
	"rental-service/internal/events"
	"rental-service/internal/handlers"
	"rental-service/internal/health"
	"rental-service/internal/middleware"
	"rental-service/internal/models"
	"rental-service/internal/repository"
	"rental-service/internal/services"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
)

// @title Rental Management API
// @version 1.0
// @description Property rental bookkeeping service: tenants, monthly usage records, payments and billing reconciliation
// @contact.name Tesseract Hub Team
// @contact.email dev@tesseract-hub.com
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8090
// @BasePath /
// @schemes http https
func main() {
	// Check if running health check
	if len(os.Args) > 1 && os.Args[1] == "health" {
		// Perform a simple liveness check
		resp, err := http.Get("http://localhost:8090/livez")
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.NewConfig()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Run database migrations
	if err := runMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize NATS events publisher (non-blocking)
	eventLogger := logrus.New()
	eventLogger.SetFormatter(&logrus.JSONFormatter{})
	eventLogger.SetLevel(logrus.InfoLevel)
	natsURL := cfg.NATS.URL
	go func() {
		if err := events.InitPublisher(eventLogger, natsURL); err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (events won't be published)", err)
		} else {
			log.Println("✓ NATS events publisher initialized")
		}
	}()

	// Initialize Redis client (graceful degradation if unavailable)
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Printf("WARNING: Failed to parse Redis URL: %v (caching disabled)", err)
		} else {
			redisClient = redis.NewClient(opt)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Printf("WARNING: Failed to connect to Redis: %v (caching disabled)", err)
				redisClient = nil
			} else {
				log.Println("✓ Redis connection established")
			}
		}
	}

	// Initialize dependencies
	tenantRepo := repository.NewTenantRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	billingCache := cache.NewBillingCache(redisClient)

	tenantService := services.NewTenantService(tenantRepo, billingCache)
	unitService := services.NewUnitService(unitRepo, tenantRepo, billingCache)
	paymentService := services.NewPaymentService(paymentRepo, unitRepo, tenantRepo, billingCache)
	billingService := services.NewBillingService(tenantRepo, unitRepo, paymentRepo, billingCache)

	tenantHandler := handlers.NewTenantHandler(tenantService)
	unitHandler := handlers.NewUnitHandler(unitService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	billingHandler := handlers.NewBillingHandler(billingService)

	// Initialize health checker
	healthChecker := health.NewHealthChecker(db, cfg.App.Version)

	// Initialize Gin router
	router := setupRouter(tenantHandler, unitHandler, paymentHandler, billingHandler, healthChecker, redisClient)

	// Mark service as ready
	healthChecker.SetReady(true)

	// Start server
	serverAddr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("🚀 Rental Service starting on %s", serverAddr)
	log.Printf("📚 API Documentation available at http://%s/swagger/index.html", serverAddr)
	log.Printf("🏥 Health endpoints: /health, /livez, /readyz")
	log.Printf("📊 Metrics available at http://%s/metrics", serverAddr)

	// Graceful shutdown handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		if pub := events.GetPublisher(); pub != nil {
			pub.Close()
		}
		os.Exit(0)
	}()

	if err := router.Run(serverAddr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// initializeDatabase establishes database connection
func initializeDatabase(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	dsn := dbConfig.DSN()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database for ping
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}

	// Test database connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established successfully")
	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *gorm.DB) error {
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.UnitRecord{},
		&models.Payment{},
	); err != nil {
		log.Printf("⚠️  AutoMigrate warning: %v", err)
		// Don't fail - the table may already exist with slightly different schema
	}

	log.Println("✅ Database migrations completed successfully")
	return nil
}

// setupRouter configures the Gin router with middleware and routes
func setupRouter(tenantHandler *handlers.TenantHandler, unitHandler *handlers.UnitHandler, paymentHandler *handlers.PaymentHandler, billingHandler *handlers.BillingHandler, healthChecker *health.HealthChecker, redisClient *redis.Client) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())

	// Security headers middleware
	router.Use(gosharedmw.SecurityHeaders())

	// Rate limiting middleware (uses Redis for distributed rate limiting)
	excludedPaths := []string{
		"/health",
		"/metrics",
		"/livez",
		"/readyz",
	}

	if redisClient != nil {
		rateLimitConfig := gosharedmw.RedisRateLimitConfig{
			RequestsPerSecond: 100,
			BurstSize:         200,
			WindowDuration:    time.Second,
			KeyPrefix:         "ratelimit:rental:",
			ExcludedPaths:     excludedPaths,
			ByTenant:          false,
			ByIP:              true,
			ByUser:            false,
		}
		router.Use(gosharedmw.RedisRateLimitMiddlewareWithConfig(redisClient, rateLimitConfig))
		log.Println("✓ Redis-based rate limiting enabled")
	} else {
		inMemoryConfig := gosharedmw.RateLimitConfig{
			RequestsPerSecond: 10,
			BurstSize:         20,
			ExcludePaths:      excludedPaths,
			CleanupInterval:   5 * time.Minute,
			TTL:               10 * time.Minute,
		}
		limiter := gosharedmw.NewRateLimiter(inMemoryConfig)
		router.Use(limiter.Middleware())
		log.Println("✓ In-memory rate limiting enabled (Redis unavailable)")
	}

	router.Use(middleware.SetupCORS())
	router.Use(health.MetricsMiddleware()) // Prometheus metrics middleware

	// Health and observability endpoints
	router.GET("/health", healthChecker.HealthHandler)
	router.GET("/livez", healthChecker.LivezHandler)
	router.GET("/readyz", healthChecker.ReadyzHandler)
	router.GET("/metrics", health.MetricsHandler())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		tenants := v1.Group("/tenants")
		{
			tenants.GET("", tenantHandler.ListTenants)
			tenants.POST("", tenantHandler.CreateTenant)
			tenants.GET("/:id", tenantHandler.GetTenant)
			tenants.PATCH("/:id", tenantHandler.UpdateTenant)
			tenants.DELETE("/:id", tenantHandler.DeleteTenant)
		}

		units := v1.Group("/units")
		{
			units.GET("", unitHandler.ListUnits)
			units.POST("", unitHandler.CreateUnit)
			units.GET("/tenant/:tenantId", unitHandler.ListUnitsByTenant)
			units.GET("/:id", unitHandler.GetUnit)
			units.PATCH("/:id", unitHandler.UpdateUnit)
			units.DELETE("/:id", unitHandler.DeleteUnit)
		}

		payments := v1.Group("/payments")
		{
			payments.GET("", paymentHandler.ListPayments)
			payments.POST("", paymentHandler.CreatePayment)
			payments.GET("/tenant/:tenantId", paymentHandler.ListPaymentsByTenant)
			payments.GET("/:id", paymentHandler.GetPayment)
			payments.PATCH("/:id", paymentHandler.UpdatePayment)
			payments.DELETE("/:id", paymentHandler.DeletePayment)
		}

		billing := v1.Group("/billing")
		{
			billing.GET("/tenant/:tenantId", billingHandler.GetSettlement)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
