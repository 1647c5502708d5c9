package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shopassist/internal/model"
	"shopassist/internal/session"
)

// FeedbackLogger persists ratings outside the session
type FeedbackLogger interface {
	LogFeedback(ctx context.Context, sessionID string, rating int, comment string) error
}

// FeedbackHandler handles feedback-related HTTP requests
type FeedbackHandler struct {
	store  session.Store
	repo   FeedbackLogger
	logger zerolog.Logger
}

// NewFeedbackHandler creates a new feedback handler. repo may be nil.
func NewFeedbackHandler(store session.Store, repo FeedbackLogger, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		store:  store,
		repo:   repo,
		logger: logger,
	}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating. Must be between 1 and 5"})
		return
	}

	sess, ok := loadSession(c, h.store, req.SessionID)
	if !ok {
		return
	}

	sess.AddFeedback(req.Rating, req.Comment)
	if err := h.store.Save(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session: " + err.Error()})
		return
	}

	if h.repo != nil {
		if err := h.repo.LogFeedback(c.Request.Context(), req.SessionID, req.Rating, req.Comment); err != nil {
			// The rating is already on the session
			h.logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("failed to persist feedback")
		}
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "Thanks for your feedback!",
	})
}
