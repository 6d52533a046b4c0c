package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"channel-escrow-backend/internal/common/config"
	"channel-escrow-backend/internal/common/logger"
	"channel-escrow-backend/internal/common/middleware"
	ledgerRepo "channel-escrow-backend/internal/features/ledger/repository/redis"
	transferHTTP "channel-escrow-backend/internal/features/transfer/delivery/http"
	transferService "channel-escrow-backend/internal/features/transfer/service"
	"channel-escrow-backend/internal/platform/redis"
	"channel-escrow-backend/internal/platform/telegram"
)

func main() {
	cfg := config.Load()

	logger.Init("channel-escrow-backend", cfg.Debug)

	if cfg.Server.SharedSecret == config.InsecureSecretPlaceholder {
		logger.Warn().Msg("API_SHARED_SECRET is not set; using the insecure placeholder")
	}

	ctx := context.Background()

	redisClient, err := redis.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("Ledger connection established")

	mtprotoLogger := zap.NewNop()
	if cfg.Debug {
		if dev, err := zap.NewDevelopment(); err == nil {
			mtprotoLogger = dev
		}
	}

	telegramClient, err := telegram.NewClient(telegram.Config{
		AppID:          cfg.Telegram.AppID,
		AppHash:        cfg.Telegram.AppHash,
		EscrowSession:  cfg.Telegram.EscrowSession,
		EscrowPassword: cfg.Telegram.EscrowPassword,
		ConnectRetries: cfg.Telegram.ConnectRetries,
		RetryInterval:  time.Duration(cfg.Telegram.RetryIntervalSec) * time.Second,
		AdminPageLimit: cfg.Transfer.AdminPageLimit,
		Logger:         mtprotoLogger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Telegram client")
	}

	ledger := ledgerRepo.NewLedgerRepository(redisClient.Client)
	transferSvc := transferService.NewTransferService(telegramClient, ledger, cfg.Transfer.RevokeFailureLimit)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.Server.Origin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", middleware.SecretHeader}
	router.Use(cors.New(corsConfig))

	transferHTTP.NewTransferHandler(transferSvc).RegisterRoutes(router, cfg.Server.SharedSecret)

	router.GET("/ready", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.HealthCheck(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "ledger unavailable",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // a transfer run holds the request across remote calls
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
