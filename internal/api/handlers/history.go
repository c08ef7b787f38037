package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"feedcheck/internal/history"
	"feedcheck/internal/logger"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	store    history.Store
	pageSize int
	logger   *logger.Logger
}

func NewHistoryHandler(store history.Store, pageSize int, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		store:    store,
		pageSize: pageSize,
		logger:   log,
	}
}

func (h *HistoryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.pageSize)))

	entries, err := h.store.LoadRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to load validation history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load validation history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *HistoryHandler) Get(c *gin.Context) {
	id := c.Param("id")

	entry, err := h.store.Fetch(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "History entry not found"})
			return
		}
		h.logger.Error("Failed to fetch history entry %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}
