package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"inout/internal/amqp"
	"inout/internal/config"
	"inout/internal/log"
	"inout/internal/services"
	"inout/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentRecurring)
	log.SetDefault(logger)

	logger.Info("Starting inout-recurring")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	// Without a broker the deposits still land in SQLite; the rollup worker
	// picks them up on its interval.
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", log.FieldError, err)
		} else {
			events = client
		}
	}

	ledgerService := services.NewLedgerService(repo, events)
	defer ledgerService.Close()

	processor := services.NewRecurringProcessor(repo, ledgerService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce := func() {
		now := time.Now().UTC()
		n, err := processor.ProcessDue(ctx, now)
		if err != nil {
			logger.Error("Recurring processing failed", log.FieldError, err)
			return
		}
		logger.Info("Recurring processing done", "created", n)
	}

	runOnce()

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Recurring worker stopped gracefully")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
