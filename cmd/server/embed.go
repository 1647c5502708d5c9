//go:build embed
// +build embed

package main

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

//go:embed web/dist
var webDist embed.FS

// setupStaticFiles serves the embedded chat UI
func setupStaticFiles(router *gin.Engine, logger zerolog.Logger) {
	logger.Info().Msg("📦 Using embedded chat UI assets")

	distFS, err := fs.Sub(webDist, "web/dist")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open embedded web/dist")
	}
	files := http.FS(distFS)

	// http.FileServer redirects */index.html, so the page is served as bytes
	index, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		logger.Fatal().Err(err).Msg("embedded index.html missing")
	}

	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path

		// Skip API routes (they are handled by other routes)
		if strings.HasPrefix(urlPath, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}

		cleanPath := strings.TrimPrefix(path.Clean(urlPath), "/")
		if cleanPath != "" && cleanPath != "index.html" {
			if stat, err := fs.Stat(distFS, cleanPath); err == nil && !stat.IsDir() {
				c.FileFromFS(cleanPath, files)
				return
			}
		}

		// Unknown paths fall back to the chat page
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
}
