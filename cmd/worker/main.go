package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"feedcheck/internal/config"
	"feedcheck/internal/customrules"
	"feedcheck/internal/database"
	"feedcheck/internal/history"
	"feedcheck/internal/logger"
	"feedcheck/internal/metrics"
	"feedcheck/internal/remote"
	"feedcheck/internal/validation"
	"feedcheck/internal/worker"
	"feedcheck/internal/worker/processors"

	"github.com/prometheus/client_golang/prometheus"
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

	rules := validation.DefaultRuleSet()
	if cfg.RulesPath != "" {
		rules, err = validation.LoadOverrides(rules, cfg.RulesPath)
		if err != nil {
			logger.Fatal("Failed to load rule overrides: %v", err)
		}
	}

	var remoteValidator validation.RemoteValidator
	if cfg.RemoteValidatorURL != "" {
		remoteValidator = remote.NewClient(cfg.RemoteValidatorURL, cfg.RemoteValidatorAPIKey, logger)
	}

	var ruleStore *customrules.Store
	if !strings.HasPrefix(cfg.DatabaseURL, "sqlite://") {
		ruleStore, err = customrules.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to open custom rules store: %v", err)
		}
	}

	collector := metrics.NewCollector(prometheus.NewRegistry())
	engine := validation.NewEngine(rules, remoteValidator, cfg.RemoteValidatorTimeout, logger)
	store := history.NewGormStore(db.DB)
	processor := processors.NewEventProcessor(engine, customrules.New(logger), ruleStore, store, collector, logger)

	// Initialize worker
	w := worker.New(cfg, logger, processor)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}
