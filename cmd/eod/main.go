package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"trading-ledger-go/internal/config"
	"trading-ledger-go/internal/database"
	"trading-ledger-go/internal/ledger"
	"trading-ledger-go/internal/logger"
)

func main() {
	once := flag.Bool("once", false, "run a single end-of-day pass and exit")
	flag.Parse()

	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize database
	db, err := database.New(&cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	svc := ledger.NewService(db, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		groups, err := svc.RunEndOfDay(ctx)
		if err != nil {
			log.Fatal("End-of-day run failed", zap.Error(err))
		}
		log.Info("End-of-day run complete", zap.Int("groups", groups))
		return
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Ledger.EodSchedule, func() {
		if _, err := svc.RunEndOfDay(ctx); err != nil {
			log.Error("End-of-day run failed", zap.Error(err))
		}
	})
	if err != nil {
		log.Fatal("Invalid end-of-day schedule",
			zap.String("schedule", cfg.Ledger.EodSchedule), zap.Error(err))
	}

	log.Info("Starting end-of-day scheduler", zap.String("schedule", cfg.Ledger.EodSchedule))
	c.Start()

	// Wait for shutdown signal, then let any in-flight run finish.
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan
	log.Info("Shutdown signal received, gracefully shutting down...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped.")
}
