package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shopassist/internal/model"
	"shopassist/internal/service"
)

// PopularSearches are suggested starting points for new users
var PopularSearches = []string{
	"Samsung Galaxy phones",
	"iPhone under GHS 3000",
	"Gaming laptops",
	"Bluetooth headphones",
	"Android tablets",
}

// IntentStatsSource reports how often each intent was seen
type IntentStatsSource interface {
	IntentStats(ctx context.Context, since time.Time) ([]model.IntentCount, error)
}

// SupportHandler serves recommendation and support content that needs no session
type SupportHandler struct {
	assistant *service.Assistant
	stats     IntentStatsSource
}

// NewSupportHandler creates a new support handler. stats may be nil.
func NewSupportHandler(assistant *service.Assistant, stats IntentStatsSource) *SupportHandler {
	return &SupportHandler{assistant: assistant, stats: stats}
}

// Trending handles GET /api/v1/recommendations/trending
func (h *SupportHandler) Trending(c *gin.Context) {
	msg, products := h.assistant.Recommender().Trending()
	c.JSON(http.StatusOK, gin.H{
		"message":          msg,
		"products":         products,
		"popular_searches": PopularSearches,
	})
}

// Contact handles GET /api/v1/support/contact
func (h *SupportHandler) Contact(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.assistant.FAQ().ContactInfo()})
}

// IntentStats handles GET /api/v1/stats/intents?days=
func (h *SupportHandler) IntentStats(c *gin.Context) {
	if h.stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Interaction logging is disabled"})
		return
	}

	days := 7
	if v := c.Query("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days"})
			return
		}
		days = d
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	stats, err := h.stats.IntentStats(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"since": since, "intents": stats})
}
