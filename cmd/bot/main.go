package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mroshb/dice_game/internal/client"
	"github.com/mroshb/dice_game/internal/config"
	"github.com/mroshb/dice_game/internal/middleware"
	"github.com/mroshb/dice_game/pkg/logger"
	"github.com/mroshb/dice_game/telegram"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	logger.Init("bot")
	defer logger.Sync()

	logger.Info("Starting Telegram dice bot...")

	cfg, err := config.LoadBotConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	backend := client.New(cfg.APIBaseURL, cfg.ServiceSecret, cfg.GetHTTPTimeout())

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, cfg.GetRateLimitWindow())
	defer limiter.Stop()

	bot, err := telegram.InitBot(cfg, backend, limiter)
	if err != nil {
		logger.Fatal("Failed to initialize bot", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsSrv *http.Server
	if cfg.BotMetricsPort != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: ":" + cfg.BotMetricsPort, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	logger.Info("Bot started successfully", "env", cfg.AppEnv, "backend", cfg.APIBaseURL)
	go bot.Run(ctx)

	<-ctx.Done()
	logger.Info("Shutting down gracefully...")
	bot.Stop()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	logger.Info("Bot stopped")
}
