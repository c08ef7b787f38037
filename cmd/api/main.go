package main

import (
	"log"
	"strings"

	"feedcheck/internal/api"
	"feedcheck/internal/config"
	"feedcheck/internal/customrules"
	"feedcheck/internal/database"
	"feedcheck/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Custom rules live in Postgres; skip the store on SQLite dev setups.
	var ruleStore *customrules.Store
	if !strings.HasPrefix(cfg.DatabaseURL, "sqlite://") {
		ruleStore, err = customrules.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to open custom rules store: %v", err)
		}
	}

	// Initialize API server
	server, err := api.New(cfg, logger, db, ruleStore)
	if err != nil {
		logger.Fatal("Failed to initialize server: %v", err)
	}

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
