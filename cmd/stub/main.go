package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecotrack/console/internal/config"
	"github.com/ecotrack/console/internal/logger"
	"github.com/ecotrack/console/internal/stub"
	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: true,
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting stub API server...")

	// Pick the fixture store: Redis when configured, memory otherwise
	var store stub.Store
	if cfg.RedisURL != "" {
		redisStore, err := stub.NewRedisStore(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis store")
		}
		store = redisStore
		log.Info().Msg("Using Redis fixture store")
	} else {
		store = stub.NewMemoryStore()
		log.Info().Msg("Using in-memory fixture store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing store")
		}
	}()

	// Seed fixtures; no-op when the store already holds data
	if err := stub.Seed(context.Background(), store); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed fixtures")
	}

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
	})

	stub.SetupRoutes(app, store, cfg)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
