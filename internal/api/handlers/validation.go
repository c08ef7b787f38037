package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"feedcheck/internal/customrules"
	"feedcheck/internal/history"
	"feedcheck/internal/logger"
	"feedcheck/internal/metrics"
	"feedcheck/internal/models"
	"feedcheck/internal/tracker"
	"feedcheck/internal/validation"

	"github.com/gin-gonic/gin"
)

// ValidationHandler exposes feed validation and issue fix-tracking. The
// tracker requires a single writer per feed; mu serializes all tracker access
// across requests.
type ValidationHandler struct {
	engine      *validation.Engine
	tracker     *tracker.Tracker
	customRules *customrules.Engine
	ruleStore   *customrules.Store
	store       history.Store
	metrics     *metrics.Collector
	logger      *logger.Logger
	mu          sync.Mutex
}

func NewValidationHandler(
	engine *validation.Engine,
	trk *tracker.Tracker,
	custom *customrules.Engine,
	ruleStore *customrules.Store,
	store history.Store,
	collector *metrics.Collector,
	log *logger.Logger,
) *ValidationHandler {
	return &ValidationHandler{
		engine:      engine,
		tracker:     trk,
		customRules: custom,
		ruleStore:   ruleStore,
		store:       store,
		metrics:     collector,
		logger:      log,
	}
}

type validateRequest struct {
	Records []models.FeedRecord `json:"records"`
}

type reconcileRequest struct {
	Edits []models.FieldEdit `json:"edits" binding:"required"`
}

type fixRequest struct {
	OfferID string `json:"offer_id" binding:"required"`
	Field   string `json:"field" binding:"required"`
	Content string `json:"content"`
}

func (h *ValidationHandler) Validate(c *gin.Context) {
	feedID := c.Param("id")

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.engine.ValidateFeed(c.Request.Context(), feedID, req.Records)
	result.Issues = append(result.Issues, h.applyCustomRules(c.Request.Context(), req.Records)...)

	h.mu.Lock()
	h.tracker.Track(result)
	h.mu.Unlock()

	h.metrics.RecordRun(result)
	h.saveHistory(result)

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// applyCustomRules loads and applies user-defined rules. Failures are logged
// and skipped; custom rules never block core validation.
func (h *ValidationHandler) applyCustomRules(ctx context.Context, records []models.FeedRecord) []models.Issue {
	if h.ruleStore == nil {
		return nil
	}

	rules, err := h.ruleStore.LoadEnabled(ctx)
	if err != nil {
		h.logger.Error("Failed to load custom rules, skipping: %v", err)
		return nil
	}
	return h.customRules.Apply(records, rules)
}

// saveHistory persists the run fire-and-forget. A failed save is surfaced in
// logs and metrics; the validation result has already been returned.
func (h *ValidationHandler) saveHistory(result *models.ValidationResult) {
	entry := history.NewEntry(result)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := h.store.Save(ctx, entry); err != nil {
			h.logger.Error("Failed to save validation history for feed %s: %v", result.FeedID, err)
			h.metrics.RecordHistorySaveFailure()
		}
	}()
}

func (h *ValidationHandler) Reconcile(c *gin.Context) {
	feedID := c.Param("id")

	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	added, removed := h.tracker.Reconcile(feedID, req.Edits)
	h.mu.Unlock()

	if added == nil {
		added = []models.Issue{}
	}
	if removed == nil {
		removed = []models.Issue{}
	}

	c.JSON(http.StatusOK, gin.H{
		"added":   added,
		"removed": removed,
	})
}

func (h *ValidationHandler) FixIssue(c *gin.Context) {
	feedID := c.Param("id")

	var req fixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reader := staticFieldReader{offerID: req.OfferID, field: req.Field, content: req.Content}

	h.mu.Lock()
	fixed := h.tracker.MarkFixed(feedID, req.OfferID, req.Field, reader)
	h.mu.Unlock()

	if fixed {
		h.metrics.RecordIssueFixed()
	}

	c.JSON(http.StatusOK, gin.H{"fixed": fixed})
}

func (h *ValidationHandler) Issues(c *gin.Context) {
	feedID := c.Param("id")

	h.mu.Lock()
	result := h.tracker.Result(feedID)
	h.mu.Unlock()

	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No validation result for feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *ValidationHandler) RowIndex(c *gin.Context) {
	feedID := c.Param("id")
	offerID := c.Param("offerId")

	h.mu.Lock()
	row, ok := h.tracker.RowIndex(feedID, offerID)
	h.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found in active validation run"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"offer_id": offerID, "row_index": row})
}

// staticFieldReader serves the field content carried in the fix request. The
// tracker still re-checks it; the claim alone never resolves an issue.
type staticFieldReader struct {
	offerID string
	field   string
	content string
}

func (r staticFieldReader) FieldContent(offerID, field string) string {
	if offerID == r.offerID && field == r.field {
		return r.content
	}
	return ""
}
