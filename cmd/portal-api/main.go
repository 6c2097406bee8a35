package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"charterdesk/broker-portal/broker-portal-backend/internal/auth"
	"charterdesk/broker-portal/broker-portal-backend/internal/calculation"
	"charterdesk/broker-portal/broker-portal-backend/internal/config"
	"charterdesk/broker-portal/broker-portal-backend/internal/priceboard"
	"charterdesk/broker-portal/broker-portal-backend/internal/prices"
	"charterdesk/broker-portal/broker-portal-backend/internal/reports"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Local development overrides; missing .env is fine
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to access database pool", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	defer sqlDB.Close()

	if err := db.AutoMigrate(&auth.User{}, &prices.FuelPrice{}, &prices.ContractPrice{}); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// The board repository reads the same pool through sqlx
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")

	// Redis price row cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Price store: gorm repository behind a read-through cache
	priceRepo := prices.NewCachedRepository(
		prices.NewGormRepository(db), redisClient, cfg.Redis.CacheTTL, logger)

	// Freight rate engine
	engine := calculation.NewEngine(priceRepo, logger)
	calcHandler := calculation.NewHandler(engine, logger)

	// Auth boundary
	authService := auth.NewService(db, cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	authHandler := auth.NewHandler(authService, logger)

	// Price boards
	boardHub := priceboard.NewHub(logger)
	boardService := priceboard.NewService(priceboard.NewPostgresRepository(sqlxDB), boardHub, logger)
	boardHandler := priceboard.NewHandler(boardService, boardHub, logger)
	defer boardHub.Stop()

	refresher := priceboard.NewRefresher(boardService, logger)
	if err := refresher.Start(cfg.PriceBoard.RefreshSpec); err != nil {
		logger.Fatal("Failed to start board refresher", zap.Error(err))
	}
	defer refresher.Stop()

	// Curve exports, with optional S3 archival
	var uploader reports.Uploader
	if cfg.Exports.S3Bucket != "" {
		s3Uploader, err := reports.NewS3Uploader(context.Background(), cfg.Exports)
		if err != nil {
			logger.Fatal("Failed to initialize export storage", zap.Error(err))
		}
		uploader = s3Uploader
	}
	exportService := reports.NewService(engine, uploader, logger)
	exportHandler := reports.NewHandler(exportService, logger)

	// Setup Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	auth.RegisterRoutes(router, authHandler, authService)

	api := router.Group("/api/v1", auth.Middleware(authService))
	{
		calcHandler.RegisterRoutes(api)
		exportHandler.RegisterRoutes(api)
		boardHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
