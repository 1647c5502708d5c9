//go:build !embed
// +build !embed

package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// setupStaticFiles serves the chat UI from disk for development (no embedding)
func setupStaticFiles(router *gin.Engine, logger zerolog.Logger) {
	webDir := os.Getenv("WEB_DIR")
	if webDir == "" {
		webDir = "./cmd/server/web/dist"
	}
	logger.Info().Str("dir", webDir).Msg("🔧 Using local filesystem for chat UI (development mode)")

	index := filepath.Join(webDir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		data, err := os.ReadFile(index)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat UI not found", "dir": webDir})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
}
