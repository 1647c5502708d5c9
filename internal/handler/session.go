package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopassist/internal/model"
	"shopassist/internal/session"
)

// PriceAlertLister returns the alerts persisted for a session
type PriceAlertLister interface {
	ListPriceAlerts(ctx context.Context, sessionID string) ([]model.PriceAlert, error)
}

// SessionHandler exposes a chat session's state
type SessionHandler struct {
	store  session.Store
	alerts PriceAlertLister
}

// NewSessionHandler creates a new session handler. alerts may be nil, in
// which case alerts are read from the session itself.
func NewSessionHandler(store session.Store, alerts PriceAlertLister) *SessionHandler {
	return &SessionHandler{store: store, alerts: alerts}
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	sess, ok := loadSession(c, h.store, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":      sess,
		"stats":        sess.Stats(),
		"user_context": sess.UserContext(),
	})
}

// Export handles GET /api/v1/sessions/:id/export
func (h *SessionHandler) Export(c *gin.Context) {
	sess, ok := loadSession(c, h.store, c.Param("id"))
	if !ok {
		return
	}

	data, err := sess.ExportHistory()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="chat-history-`+sess.ID+`.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ClearHistory handles DELETE /api/v1/sessions/:id/history?scope=
func (h *SessionHandler) ClearHistory(c *gin.Context) {
	sess, ok := loadSession(c, h.store, c.Param("id"))
	if !ok {
		return
	}

	if err := sess.Clear(c.DefaultQuery("scope", session.ScopeAll)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Save(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": sess.Stats()})
}

// AddFavorite handles POST /api/v1/sessions/:id/favorites
func (h *SessionHandler) AddFavorite(c *gin.Context) {
	var req model.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Product.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product title is required"})
		return
	}

	sess, ok := loadSession(c, h.store, c.Param("id"))
	if !ok {
		return
	}

	if !sess.AddFavorite(req.Product) {
		c.JSON(http.StatusOK, gin.H{"added": false, "favorites": sess.Favorites})
		return
	}

	if err := h.store.Save(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"added": true, "favorites": sess.Favorites})
}

// RemoveFavorite handles DELETE /api/v1/sessions/:id/favorites?title=
func (h *SessionHandler) RemoveFavorite(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}

	sess, ok := loadSession(c, h.store, c.Param("id"))
	if !ok {
		return
	}

	sess.RemoveFavorite(title)
	if err := h.store.Save(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": sess.Favorites})
}

type preferencesRequest struct {
	Preferences map[string]string `json:"preferences"`
	Profile     *session.Profile  `json:"user_profile,omitempty"`
}

// UpdatePreferences handles PATCH /api/v1/sessions/:id/preferences
func (h *SessionHandler) UpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if len(req.Preferences) == 0 && req.Profile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preferences or user_profile is required"})
		return
	}
	if req.Profile != nil && req.Profile.BudgetRange.Min > req.Profile.BudgetRange.Max {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget_range min must not exceed max"})
		return
	}

	sess, ok := loadSession(c, h.store, c.Param("id"))
	if !ok {
		return
	}

	if len(req.Preferences) > 0 {
		sess.UpdatePreferences(req.Preferences)
	}
	if req.Profile != nil {
		sess.SetProfile(*req.Profile)
	}

	if err := h.store.Save(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preferences":  sess.Preferences,
		"user_profile": sess.Profile,
	})
}

// PriceAlerts handles GET /api/v1/sessions/:id/alerts
func (h *SessionHandler) PriceAlerts(c *gin.Context) {
	sess, ok := loadSession(c, h.store, c.Param("id"))
	if !ok {
		return
	}

	if h.alerts == nil {
		c.JSON(http.StatusOK, gin.H{"alerts": sess.PriceAlerts})
		return
	}

	alerts, err := h.alerts.ListPriceAlerts(c.Request.Context(), sess.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load price alerts: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
