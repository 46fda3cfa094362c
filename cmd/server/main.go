package main

import (
	"card_service/internal/api"        // Custom package for API handlers
	"card_service/internal/config"     // Custom package for configuration
	"card_service/internal/db"         // Database connection
	"card_service/internal/domain"     // Approval policy
	"card_service/internal/jobs"       // Background jobs
	"card_service/internal/repository" // gorm-backed stores
	"card_service/internal/service"    // Application services
	"card_service/internal/utils"      // Token codec, hashing, cache
	"context"                          // context package is needed for Redis operations and shutdown
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"golang.org/x/crypto/bcrypt"   // Password hashing cost
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Setup logger
	if err := utils.SetupLogger(cfg.LogLevel, cfg.IsProd); err != nil {
		logrus.Fatal(err)
	}

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client, the cache stays disabled without REDIS_ADDR
	var cache *utils.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = utils.NewCache(redisClient, cfg.CacheTTL)
	} else {
		logrus.Warn("REDIS_ADDR not set, caching disabled")
	}

	codec, err := utils.NewTokenCodec(utils.TokenConfig{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
		AccessTTL: cfg.AccessTokenTTL,
	})
	if err != nil {
		logrus.Fatalf("invalid token configuration: %v", err)
	}

	logger := logrus.StandardLogger()
	users := repository.NewUserRepository(gdb)
	cards := repository.NewCardRepository(gdb)
	txs := repository.NewTransactionRepository(gdb)
	hasher := utils.BcryptHasher{Cost: bcrypt.DefaultCost}
	policy := domain.NewCeilingPolicy(cfg.ApprovalCeiling)

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

	api.RegisterRoutes(r, api.Services{
		Auth:           service.NewAuthService(users, hasher, codec, cfg.RefreshTokenTTL, logger),
		Cards:          service.NewCardService(users, cards, cache, logger),
		Transactions:   service.NewTransactionService(users, cards, txs, policy, cache, logger),
		Tokens:         codec,
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSOrigins,
	})

	sweeper := jobs.NewRefreshSweeper(users, logger)
	if cfg.SweepSchedule != "" {
		if err := sweeper.Start(cfg.SweepSchedule); err != nil {
			logrus.Fatalf("invalid SWEEP_SCHEDULE: %v", err)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("HTTP shutdown failed")
	}
	sweeper.Stop(ctx)
}
