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

	"github.com/REHANAMD/InternGenie/internal/api/routes"
	"github.com/REHANAMD/InternGenie/internal/auth"
	"github.com/REHANAMD/InternGenie/internal/background"
	"github.com/REHANAMD/InternGenie/internal/chatbot"
	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/insights"
	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/recommender"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/utils"

	"github.com/labstack/echo/v4"
)

// maintenance bundles the stores the periodic cleanup sweep touches
type maintenance struct {
	engine *recommender.Engine
	store  *storage.Store
}

func (m maintenance) PurgeCache() int { return m.engine.PurgeCache() }

func (m maintenance) DeleteExpiredPasswordResets(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredPasswordResets(ctx)
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if _, err := logging.InitFromConfig(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()
	logger.Info("Starting InternGenie API", map[string]interface{}{})

	// Open storage
	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	// Redis is optional; the chatbot degrades to stateless replies without it.
	var redisClient *utils.RedisClient
	client := utils.NewRedisClient(cfg)
	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	if err := client.Ping(pingCtx); err != nil {
		logger.Warn("Redis unreachable, chat history disabled", map[string]interface{}{
			"error": err.Error(),
		})
		client.Close()
	} else {
		redisClient = client
		defer redisClient.Close()
	}
	cancel()

	// Core services
	authManager := auth.NewManager(store, cfg)
	engine := recommender.NewEngine(store, cfg)
	bot := chatbot.NewService(store, engine, redisClient, cfg)
	insightsService := insights.NewService(store)

	// Background task manager and recurring maintenance
	taskManager := background.NewTaskManager(cfg)
	ctx := context.Background()
	if err := taskManager.Start(ctx); err != nil {
		log.Fatalf("Failed to start task manager: %v", err)
	}

	scheduler := background.NewScheduler(taskManager, bot, maintenance{engine: engine, store: store}, cfg)
	scheduler.Start(ctx)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	routes.SetupRoutes(e, routes.Deps{
		Config:   cfg,
		Store:    store,
		Auth:     authManager,
		Engine:   engine,
		Bot:      bot,
		Insights: insightsService,
		Redis:    redisClient,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...", map[string]interface{}{})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		scheduler.Stop()

		if err := taskManager.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping task manager", map[string]interface{}{"error": err.Error()})
		}

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete", map[string]interface{}{})
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}
}
