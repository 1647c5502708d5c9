package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the API handlers mounted under /api/v1
type Handlers struct {
	Chat     *ChatHandler
	Sessions *SessionHandler
	Feedback *FeedbackHandler
	Support  *SupportHandler
}

// RegisterRoutes mounts every API route on group
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	// Chat endpoints
	group.POST("/chat", h.Chat.Chat)
	group.POST("/chat/stream", h.Chat.ChatStream)
	group.POST("/classify", h.Chat.Classify)
	group.POST("/extract", h.Chat.Extract)

	// Session endpoints
	sessions := group.Group("/sessions/:id")
	{
		sessions.GET("", h.Sessions.Get)
		sessions.GET("/export", h.Sessions.Export)
		sessions.GET("/alerts", h.Sessions.PriceAlerts)
		sessions.PATCH("/preferences", h.Sessions.UpdatePreferences)
		sessions.DELETE("/history", h.Sessions.ClearHistory)
		sessions.POST("/favorites", h.Sessions.AddFavorite)
		sessions.DELETE("/favorites", h.Sessions.RemoveFavorite)
	}

	// Feedback endpoint
	group.POST("/feedback", h.Feedback.Submit)

	// Support endpoints
	group.GET("/recommendations/trending", h.Support.Trending)
	group.GET("/support/contact", h.Support.Contact)
	group.GET("/stats/intents", h.Support.IntentStats)
}
