package main

import (
	"context" // context package is needed for the Redis ping
	"log"     // log package is needed for logging

	"finwallet/internal/api"        // Custom package for API handlers
	"finwallet/internal/config"     // Custom package for configuration
	"finwallet/internal/middleware" // Custom package for middleware
	"finwallet/internal/store"      // Custom package for the document store

	"github.com/gin-contrib/cors"                                   // CORS middleware
	"github.com/gin-gonic/gin"                                      // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp"       // Metrics exposition
	"github.com/redis/go-redis/v9"                                  // Redis client
	"github.com/sirupsen/logrus"                                    // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Open the document store, creating it on first run
	st, err := store.Open(cfg.StoreFile)
	if err != nil {
		logrus.Fatalf("failed to open store: %v", err) // Fatal error if the store cannot load
	}

	// Setup Redis client when caching is enabled
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Request id and metrics on every route
	r.Use(middleware.RequestIDMiddleware(), middleware.MetricsMiddleware())

	// CORS allow-list for the browser frontends
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,                            // Allowed frontend origins
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},            // Allowed methods
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"}, // Allowed headers
		AllowCredentials: true,                                          // Cookies and auth headers
	}))

	// Operational endpoints
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler())) // Prometheus exposition

	// API routes
	apiGroup := r.Group("/api")
	apiGroup.POST("/onboarding", api.OnboardingHandler(st))                // Onboarding endpoint
	apiGroup.POST("/login", api.LoginHandler(st, cfg.JWTSecret))           // Login endpoint
	apiGroup.POST("/verify", api.VerifyHandler(st))                        // Verification endpoint
	apiGroup.POST("/wallet/create", api.CreateWalletHandler(st, redisClient))  // Create wallet endpoint
	apiGroup.POST("/wallet/withdraw", api.WithdrawHandler(st, redisClient))    // Withdraw endpoint
	apiGroup.GET("/wallet/:userId", api.GetWalletHandler(st, redisClient))     // Get wallet endpoint
	apiGroup.GET("/wallet/:userId/:accountNumber", api.LookupHandler(st))      // Lookup endpoint, serves /wallet/lookup/:accountNumber
	apiGroup.GET("/transactions/:userId", api.TransactionsHandler(st, redisClient)) // Transaction history endpoint
	apiGroup.GET("/loans/static", api.LoanOptionsHandler(st))              // Static loan catalog endpoint
	apiGroup.POST("/loans/apply", api.ApplyLoanHandler(st, redisClient))   // Loan application endpoint

	// Authenticated routes (protected by JWT)
	meGroup := apiGroup.Group("/me")
	meGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	meGroup.GET("", api.MeHandler(st)) // Current user endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
