package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shopassist/internal/model"
	"shopassist/internal/service"
	"shopassist/internal/session"
)

// ChatHandler handles chat and classification HTTP requests
type ChatHandler struct {
	assistant *service.Assistant
	store     session.Store
	limits    session.Limits
	logger    zerolog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(assistant *service.Assistant, store session.Store, limits session.Limits, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		store:     store,
		limits:    limits,
		logger:    logger,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	sess, err := session.LoadOrCreate(ctx, h.store, req.SessionID, h.limits)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session: " + err.Error()})
		return
	}

	resp, err := h.assistant.Respond(ctx, sess, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed: " + err.Error()})
		return
	}

	if err := h.store.Save(ctx, sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChatStream handles POST /api/v1/chat/stream - SSE streaming chat
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	sess, err := session.LoadOrCreate(ctx, h.store, req.SessionID, h.limits)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session: " + err.Error()})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", map[string]any{"session_id": sess.ID, "message": req.Message})
	flusher.Flush()

	resp, err := h.assistant.RespondStream(ctx, sess, req.Message, func(event string, data any) error {
		sendSSE(c, event, data)
		flusher.Flush()
		return ctx.Err()
	})
	if err != nil {
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	if err := h.store.Save(ctx, sess); err != nil {
		h.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to save session")
	}

	sendSSE(c, "response", resp)
	flusher.Flush()

	sendSSE(c, "done", nil)
	flusher.Flush()
}

// Classify handles POST /api/v1/classify
func (h *ChatHandler) Classify(c *gin.Context) {
	var req model.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result := h.assistant.Classifier().Classify(req.Text)
	c.JSON(http.StatusOK, gin.H{
		"intent":      result.Intent,
		"confidence":  result.Confidence,
		"entities":    result.Entities,
		"all_scores":  result.AllScores,
		"explanation": service.Explanation(result.Intent),
	})
}

// Extract handles POST /api/v1/extract
func (h *ChatHandler) Extract(c *gin.Context) {
	var req model.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.assistant.Classifier().Extract(req.Text))
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}

// loadSession fetches a session, writing a 404 or 500 response when it cannot
func loadSession(c *gin.Context, store session.Store, id string) (*session.Session, bool) {
	sess, err := store.Get(c.Request.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session: " + err.Error()})
		return nil, false
	}
	return sess, true
}
