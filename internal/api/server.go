package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"feedcheck/internal/api/handlers"
	"feedcheck/internal/api/middleware"
	"feedcheck/internal/config"
	"feedcheck/internal/customrules"
	"feedcheck/internal/database"
	"feedcheck/internal/history"
	"feedcheck/internal/logger"
	"feedcheck/internal/metrics"
	"feedcheck/internal/remote"
	"feedcheck/internal/tracker"
	"feedcheck/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, log *logger.Logger, db *database.Database, ruleStore *customrules.Store) (*Server, error) {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rules := validation.DefaultRuleSet()
	if cfg.RulesPath != "" {
		var err error
		rules, err = validation.LoadOverrides(rules, cfg.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule overrides: %w", err)
		}
	}

	var remoteValidator validation.RemoteValidator
	if cfg.RemoteValidatorURL != "" {
		remoteValidator = remote.NewClient(cfg.RemoteValidatorURL, cfg.RemoteValidatorAPIKey, log)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	engine := validation.NewEngine(rules, remoteValidator, cfg.RemoteValidatorTimeout, log)
	trk := tracker.New(rules, log)
	store := history.NewGormStore(db.DB)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	// Initialize handlers
	validationHandler := handlers.NewValidationHandler(engine, trk, customrules.New(log), ruleStore, store, collector, log)
	historyHandler := handlers.NewHistoryHandler(store, cfg.HistoryPageSize, log)

	// Routes
	v1 := router.Group("/api/v1")
	{
		feeds := v1.Group("/feeds")
		{
			feeds.POST("/:id/validate", validationHandler.Validate)
			feeds.POST("/:id/reconcile", validationHandler.Reconcile)
			feeds.POST("/:id/issues/fix", validationHandler.FixIssue)
			feeds.GET("/:id/issues", validationHandler.Issues)
			feeds.GET("/:id/row-index/:offerId", validationHandler.RowIndex)
		}

		h := v1.Group("/history")
		{
			h.GET("", historyHandler.List)
			h.GET("/:id", historyHandler.Get)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		config: cfg,
		logger: log,
		db:     db,
		router: router,
	}, nil
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router returns the Gin router for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
