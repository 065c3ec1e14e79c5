package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/cache"
	"storefront-backend/config"
	"storefront-backend/database"
	"storefront-backend/logger"
	"storefront-backend/middleware"
	"storefront-backend/observability"
	"storefront-backend/repository"
	"storefront-backend/routes"
	"storefront-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatal("Environment validation failed: ", err)
	}
	cfg := config.Load()

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer appLog.Sync()

	ctx := context.Background()
	shutdownTracing := observability.InitOTel(ctx, appLog, observability.Config{
		Enabled:     cfg.OTelEnabled,
		ServiceName: cfg.OTelServiceName,
		Environment: cfg.AppEnv,
		Endpoint:    cfg.OTelEndpoint,
		Insecure:    cfg.OTelInsecure,
		SampleRatio: cfg.OTelSampleRatio,
	})

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("Failed to connect to database", "error", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		appLog.Fatal("Failed to run migrations", "error", err)
	}

	// Seed the catalog for local development
	if cfg.CatalogSeedFile != "" {
		seed, err := database.LoadCatalogSeed(cfg.CatalogSeedFile)
		if err != nil {
			appLog.Warn("Could not load catalog seed", "file", cfg.CatalogSeedFile, "error", err)
		} else if n, err := database.SeedCatalog(db, seed); err != nil {
			appLog.Warn("Could not seed catalog", "error", err)
		} else {
			appLog.Info("Catalog seeded", "products", n)
		}
	}

	// Cart snapshot cache is optional
	cartCache := cache.NewNoop()
	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			appLog.Warn("Redis unavailable, cart cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			cartCache = cache.NewRedisCartCache(rdb, cfg.CartCacheTTL, appLog)
		}
	}

	cartService := services.NewCartService(repository.NewStore(db), cartCache, appLog)
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	defer authLimiter.Stop()

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
		appLog.Warn("No CORS origins configured, defaulting to http://localhost:3000")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(r, routes.Deps{
		DB:          db,
		Cart:        cartService,
		Log:         appLog,
		AuthLimiter: authLimiter,
		ServiceName: cfg.OTelServiceName,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in a goroutine
	go func() {
		appLog.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		appLog.Warn("Tracer shutdown failed", "error", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			appLog.Warn("Error closing redis client", "error", err)
		}
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			appLog.Error("Error closing database connection", "error", err)
		} else {
			appLog.Info("Database connection closed")
		}
	}

	appLog.Info("Server exited gracefully")
}
