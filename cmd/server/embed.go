//go:build embed
// +build embed

package main

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

//go:embed web/static
var webStatic embed.FS

// setupStaticFiles serves the embedded stylesheet and script under {base}/static
func setupStaticFiles(base *gin.RouterGroup, log zerolog.Logger) {
	log.Info().Msg("📦 Using embedded frontend assets")

	staticFS, err := fs.Sub(webStatic, "web/static")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get static subdirectory")
	}

	base.StaticFS("/static", http.FS(staticFS))
}
