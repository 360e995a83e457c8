package main

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"trading-ledger-go/internal/config"
	"trading-ledger-go/internal/database"
	"trading-ledger-go/internal/ledger"
	"trading-ledger-go/internal/logger"
)

func main() {
	// Load configuration
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

	// Connect to the database
	db, err := database.New(&cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	svc := ledger.NewService(db, log)

	// Setup HTTP server
	mux := http.NewServeMux()

	apiHandler := NewAPIHandler(log, svc)

	// Read-only query endpoints
	mux.HandleFunc("/api/portfolio", apiHandler.PortfolioHandler)
	mux.HandleFunc("/api/trades", apiHandler.TradesHandler)
	mux.HandleFunc("/api/audit", apiHandler.AuditHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting query API server", zap.String("address", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("Query API server failed", zap.Error(err))
	}
}
