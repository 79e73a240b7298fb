package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mroshb/dice_game/internal/config"
	"github.com/mroshb/dice_game/internal/database"
	"github.com/mroshb/dice_game/internal/handlers"
	"github.com/mroshb/dice_game/internal/middleware"
	"github.com/mroshb/dice_game/internal/repositories"
	"github.com/mroshb/dice_game/internal/services"
	"github.com/mroshb/dice_game/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	logger.Init("server")
	defer logger.Sync()

	logger.Info("Starting dice game backend...")

	cfg, err := config.LoadServerConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter, stopLimiter := buildLimiter(ctx, cfg)
	defer stopLimiter()

	accountRepo := repositories.NewAccountRepository(db)
	gameRepo := repositories.NewGameRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	roomRepo := repositories.NewRoomRepository(db)
	challengeRepo := repositories.NewChallengeRepository(db)

	accountService := services.NewAccountService(accountRepo, cfg.DefaultBalance)
	rollService := services.NewRollService(ledgerRepo, accountRepo, gameRepo, services.CryptoRoller{}, services.RulesFromConfig(cfg))
	roomService := services.NewRoomService(roomRepo)
	challengeService := services.NewChallengeService(ledgerRepo, challengeRepo, accountRepo,
		services.CryptoRoller{}, services.ChallengeRulesFromConfig(cfg), cfg.HouseAccountID)

	if _, err := challengeService.EnsureHouse(ctx); err != nil {
		logger.Fatal("Failed to prepare house account", err)
	}

	manager := handlers.NewHandlerManager(accountService, rollService, roomService, challengeService, limiter, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	})

	router := handlers.NewRouter(manager, handlers.RouterOptions{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		ServiceSecret:   cfg.ServiceSecret,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.GetHTTPTimeout(),
		WriteTimeout:      cfg.GetHTTPTimeout() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}

	logger.Info("Server stopped")
}

// buildLimiter prefers Redis when REDIS_ADDR is set so several replicas
// share one budget. An unreachable Redis falls back to process memory.
func buildLimiter(ctx context.Context, cfg *config.Config) (middleware.Limiter, func()) {
	window := cfg.GetRateLimitWindow()

	if cfg.RedisAddr != "" {
		client, err := middleware.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			logger.Info("Using Redis rate limiter", "addr", cfg.RedisAddr)
			limiter := middleware.NewRedisRateLimiter(client, cfg.RateLimitPerUser, cfg.RateLimitPerIP, window)
			return limiter, func() { _ = client.Close() }
		}
		logger.Warn("Redis unavailable, using in-memory rate limiter", "error", err)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, window)
	return limiter, limiter.Stop
}
