package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finledger/internal/alerts"
	"finledger/internal/amqp"
	"finledger/internal/config"
	"finledger/internal/ledger"
	"finledger/internal/log"
	"finledger/internal/storage"
	"finledger/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.Setup(slog.LevelInfo)
	logger.Info("Starting alerts-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	engine := alerts.NewEngine(ledger.New(store.DB()))
	throttle := worker.NewThrottle(cfg.ThrottleSize, cfg.NotifyCooldown)
	sweeper := worker.NewSweeper(store.Rules, engine, amqpClient, throttle, cfg.SweepConcurrency)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Sweep loop starting",
		"interval", cfg.SweepInterval,
		"concurrency", cfg.SweepConcurrency,
		"cooldown", cfg.NotifyCooldown)

	if err := sweeper.Run(ctx, cfg.SweepInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Sweep loop stopped", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Shutdown complete")
}
